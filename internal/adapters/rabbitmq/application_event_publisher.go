package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/contracts"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout ограничивает ожидание публикации (и подтверждения брокера)
const publishTimeout = 10 * time.Second

// Publisher - часть rabbitmq_producer.Publisher, которая нужна адаптеру
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ApplicationEventPublisherAdapter реализует ApplicationEventPublisherPort
type ApplicationEventPublisherAdapter struct {
	producer   Publisher
	routingKey string
	idempotent bool // каждому сообщению назначается уникальный MessageId
	metrics    port.MetricsPort
}

func NewApplicationEventPublisherAdapter(producer Publisher, routingKey string, idempotent bool, metrics port.MetricsPort) (*ApplicationEventPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &ApplicationEventPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
		idempotent: idempotent,
		metrics:    metrics,
	}, nil
}

func (a *ApplicationEventPublisherAdapter) PublishApplicationCreate(ctx context.Context, event domain.ApplicationCreateEditDto) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ApplicationEventPublisherAdapter",
		"routing_key": a.routingKey,
	})

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal application event: %w", err)
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			contracts.HeaderEventType:    ApplicationCreateEventType,
			contracts.HeaderEventVersion: ApplicationCreateEventVersion,
			contracts.HeaderTraceID:      traceID,
		},
	}
	if a.idempotent {
		msg.MessageId = uuid.New().String()
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		a.metrics.RecordPublished(false)
		adapterLogger.Error("Failed to publish application event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish application event: %w", err)
	}

	a.metrics.RecordPublished(true)
	adapterLogger.Debug("Application event published", port.Fields{"message_id": msg.MessageId, "trace_id": traceID})
	return nil
}
