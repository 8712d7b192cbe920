package rabbitmq_producer

import (
	"context"
	"fmt"

	"estate-agency/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig конфигурация для производителя
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName       string // Имя обменника для публикации
	ExchangeType       string // direct, fanout, topic, headers
	DurableExchange    bool
	AutoDeleteExchange bool
	InternalExchange   bool
	ExchangeArgs       amqp.Table

	// Если false, производитель полагается на то, что обменник уже существует
	DeclareExchangeIfMissing bool

	// Очередь, которую нужно объявить и привязать к обменнику при старте.
	// Нужна, чтобы сообщения не терялись, пока потребитель еще не запущен.
	BindQueueName  string
	BindRoutingKey string

	// ConfirmDeliveries включает режим подтверждений: Publish ждет ack от брокера
	ConfirmDeliveries bool

	Logger rabbitmq_common.Logger
}

// Publisher структура для управления производителем
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel

	Logger rabbitmq_common.Logger
}

// NewPublisher создает нового производителя
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base config: %w", err)
	}
	if cfg.DeclareExchangeIfMissing && cfg.ExchangeName == "" && cfg.ExchangeType != "" {
		return nil, fmt.Errorf("producer: exchange name is required if ExchangeType is specified and DeclareExchangeIfMissing is true")
	}
	if cfg.DeclareExchangeIfMissing && cfg.ExchangeType == "" && cfg.ExchangeName != "" {
		return nil, fmt.Errorf("producer: exchange type is required if ExchangeName is specified and DeclareExchangeIfMissing is true")
	}
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}

	p := &Publisher{
		config: cfg,
		Logger: logger,
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}
	p.connection = conn
	p.channel = ch
	p.Logger.Debug("Channel obtained from ConnectionManager")

	if err := p.setup(); err != nil {
		_ = ch.Close()
		return nil, err
	}

	p.Logger.Debug("Successfully connected and channel opened", "confirm", p.config.ConfirmDeliveries)
	return p, nil
}

func (p *Publisher) setup() error {
	if p.config.DeclareExchangeIfMissing {
		p.Logger.Debug("Declaring exchange",
			"name", p.config.ExchangeName,
			"type", p.config.ExchangeType,
		)
		err := p.channel.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.DurableExchange,
			p.config.AutoDeleteExchange,
			p.config.InternalExchange,
			false, // no-wait
			p.config.ExchangeArgs,
		)
		if err != nil {
			return fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	} else if p.config.ExchangeName != "" {
		p.Logger.Debug("Assuming exchange already exists", "name", p.config.ExchangeName)
	}

	if p.config.BindQueueName != "" {
		if _, err := p.channel.QueueDeclare(p.config.BindQueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("producer: failed to declare queue '%s': %w", p.config.BindQueueName, err)
		}
		if p.config.ExchangeName != "" {
			if err := p.channel.QueueBind(p.config.BindQueueName, p.config.BindRoutingKey, p.config.ExchangeName, false, nil); err != nil {
				return fmt.Errorf("producer: failed to bind queue '%s': %w", p.config.BindQueueName, err)
			}
		}
	}

	if p.config.ConfirmDeliveries {
		if err := p.channel.Confirm(false); err != nil {
			return fmt.Errorf("producer: failed to enable confirm mode: %w", err)
		}
	}
	return nil
}

// Publish публикует сообщение. В режиме подтверждений ждет ответа брокера.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("producer: not connected or channel/connection is closed")
	}

	if !p.config.ConfirmDeliveries {
		err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
		if err != nil {
			return fmt.Errorf("producer: failed to publish message: %w", err)
		}
		return nil
	}

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("producer: waiting for confirmation: %w", err)
	}
	if !acked {
		return fmt.Errorf("producer: message nacked by broker")
	}
	return nil
}

// Close закрывает канал производителя. Соединение закрывает ConnectionManager.
func (p *Publisher) Close() error {
	p.Logger.Debug("Producer: Closing...")
	var firstErr error

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.Logger.Error(err, "Error closing channel")
			firstErr = err
		}
		p.channel = nil
	}
	p.Logger.Info("Producer closed.")
	return firstErr
}
