package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"estate-agency/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler - обработчик одного сообщения.
// nil - сообщение подтверждается, ошибка - отклоняется без возврата в очередь.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// SequentialConsumer обрабатывает сообщения строго по одному:
// следующее сообщение берется только после завершения обработчика
type SequentialConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

// NewSequentialConsumer создает потребителя с prefetch = 1
func NewSequentialConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*SequentialConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("sequential Consumer: message handler is required")
	}
	// Больше одного неподтвержденного сообщения нам не нужно
	cfg.PrefetchCount = 1

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("sequential Consumer: %w", err)
	}

	return &SequentialConsumer{
		baseConsumer: bc,
		handler:      handler,
	}, nil
}

// StartConsuming блокируется до отмены контекста или закрытия соединения
func (c *SequentialConsumer) StartConsuming(ctx context.Context) error {
	bc := c.baseConsumer
	if bc.channel == nil || bc.connection == nil || bc.connection.IsClosed() {
		return fmt.Errorf("sequential Consumer: not connected. Please create a new consumer or ensure connection is stable")
	}

	msgs, err := bc.channel.Consume(
		bc.actualQueueName,
		bc.config.ConsumerTag,
		bc.config.AutoAck,
		bc.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("sequential Consumer %s: failed to register a consumer on queue '%s': %w", bc.config.ConsumerTag, bc.actualQueueName, err)
	}

	notifyClose := bc.connection.NotifyClose(make(chan *amqp.Error, 1))

	bc.Logger.Info("[*] Waiting for messages on queue",
		"queue_name", bc.actualQueueName,
		"auto_ack", bc.config.AutoAck,
		"poll_timeout", bc.config.PollTimeout.String())

	for {
		select {
		case <-ctx.Done():
			bc.Logger.Info("Context cancelled. Shutting down consumer.", "consumer_tag", bc.config.ConsumerTag)
			return nil

		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return fmt.Errorf("sequential Consumer %s: connection closed", bc.config.ConsumerTag)
			}
			bc.Logger.Error(amqpErr, "Connection closed for consumer.", "consumer_tag", bc.config.ConsumerTag)
			return amqpErr

		case <-time.After(bc.config.PollTimeout):
			bc.Logger.Debug("No messages within poll timeout", "queue_name", bc.actualQueueName)

		case d, ok := <-msgs:
			if !ok {
				bc.Logger.Info("Deliveries channel closed by RabbitMQ for consumer. Exiting loop.",
					"consumer_tag", bc.config.ConsumerTag)
				return nil
			}
			c.process(ctx, d)
		}
	}
}

func (c *SequentialConsumer) process(ctx context.Context, d amqp.Delivery) {
	bc := c.baseConsumer
	bc.wg.Add(1)
	defer bc.wg.Done()

	bc.Logger.Debug("[->] Started processing message",
		"consumer_tag", bc.config.ConsumerTag,
		"delivery_tag", d.DeliveryTag)

	processErr := c.handler(ctx, d)

	if bc.config.AutoAck {
		return
	}

	if processErr == nil {
		if err := d.Ack(false); err != nil {
			bc.Logger.Error(err, "Failed to ack message", "delivery_tag", d.DeliveryTag)
			return
		}
		bc.Logger.Debug("[+] Message Ack'd", "delivery_tag", d.DeliveryTag)
		return
	}

	bc.Logger.Warn("Handler rejected message, nacking without requeue",
		"consumer_tag", bc.config.ConsumerTag,
		"delivery_tag", d.DeliveryTag,
		"error", processErr.Error())
	if err := d.Nack(false, false); err != nil {
		bc.Logger.Error(err, "Failed to nack message", "delivery_tag", d.DeliveryTag)
	}
}

// Close останавливает потребителя
func (c *SequentialConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
