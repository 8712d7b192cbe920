package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/contracts"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
	"estate-agency/internal/core/port/usecases_port"
	"estate-agency/pkg/rabbitmq/rabbitmq_common"
	"estate-agency/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Тип и версия события, если отправитель не проставил заголовки
const (
	ApplicationCreateEventType    = "ApplicationCreateEvent"
	ApplicationCreateEventVersion = "1.0.0"
)

// DefaultMaxDeserializeAttempts - сколько раз пытаться разобрать сообщение
const DefaultMaxDeserializeAttempts = 5

// ApplicationConsumerAdapter - входящий адаптер, который читает события о новых
// заявках из очереди и создает их через ApplicationService
type ApplicationConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	handler  *applicationHandler
}

// NewApplicationConsumerAdapter создает адаптер с последовательным потребителем
func NewApplicationConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	maxDeserializeAttempts int,
	service usecases_port.ApplicationServicePort,
	logger port.LoggerPort,
	metrics port.MetricsPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ApplicationConsumerAdapter, error) {
	handler, err := newApplicationHandler(service, logger, metrics, maxDeserializeAttempts)
	if err != nil {
		return nil, err
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_sequential_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewSequentialConsumer(consumerCfg, handler.Handle, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for applications: %w", err)
	}

	return &ApplicationConsumerAdapter{consumer: consumer, handler: handler}, nil
}

// Start реализует EventListenerPort
func (a *ApplicationConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *ApplicationConsumerAdapter) Close() error {
	return a.consumer.Close()
}

// applicationHandler обрабатывает одно сообщение; от транспорта не зависит
type applicationHandler struct {
	service     usecases_port.ApplicationServicePort
	logger      port.LoggerPort
	metrics     port.MetricsPort
	maxAttempts int
}

func newApplicationHandler(service usecases_port.ApplicationServicePort, logger port.LoggerPort, metrics port.MetricsPort, maxAttempts int) (*applicationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("rabbitmq adapter: application service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("rabbitmq adapter: logger cannot be nil")
	}
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxDeserializeAttempts
	}
	return &applicationHandler{
		service:     service,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
	}, nil
}

// Handle возвращает nil для обработанных и отброшенных сообщений (они подтверждаются)
// и ошибку, если заявку создать не удалось (сообщение отклоняется без возврата в очередь)
func (h *applicationHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[contracts.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := h.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"delivery_tag": d.DeliveryTag,
		"adapter_name": "ApplicationConsumerAdapter",
	})

	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	if len(d.Body) == 0 {
		msgLogger.Warn("Received empty message, skipping", nil)
		h.metrics.RecordConsumed(port.OutcomeDropped)
		return nil
	}

	var (
		dto domain.ApplicationCreateEditDto
		err error
	)
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		dto, err = decodeApplicationEvent(d)
		if err == nil {
			break
		}
		msgLogger.Warn("Failed to deserialize message", port.Fields{
			"attempt":      attempt,
			"max_attempts": h.maxAttempts,
			"error":        err.Error(),
		})
	}
	if err != nil {
		msgLogger.Error("Message dropped after deserialize attempts", domain.NewTransportFailure(err), port.Fields{"attempts": h.maxAttempts})
		h.metrics.RecordConsumed(port.OutcomeDropped)
		return nil
	}

	if err := dto.Validate(); err != nil {
		msgLogger.Warn("Application event rejected by validation", port.Fields{"error": err.Error()})
		h.metrics.RecordConsumed(port.OutcomeFailed)
		return err
	}

	created, err := h.service.Create(ctx, dto)
	if err != nil {
		msgLogger.Error("Failed to create application from message", err, port.Fields{
			"counterparty_id": dto.CounterpartyID,
			"property_id":     dto.PropertyID,
		})
		h.metrics.RecordConsumed(port.OutcomeFailed)
		return err
	}

	msgLogger.Info("Application created from message", port.Fields{"application_id": created.ID})
	h.metrics.RecordConsumed(port.OutcomeProcessed)
	return nil
}

// decodeApplicationEvent проверяет тело по схеме и разбирает его в DTO
func decodeApplicationEvent(d amqp.Delivery) (domain.ApplicationCreateEditDto, error) {
	var dto domain.ApplicationCreateEditDto

	eventType, _ := d.Headers[contracts.HeaderEventType].(string)
	if eventType == "" {
		eventType = ApplicationCreateEventType
	}
	eventVersion, _ := d.Headers[contracts.HeaderEventVersion].(string)
	if eventVersion == "" {
		eventVersion = ApplicationCreateEventVersion
	}

	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		return dto, err
	}
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return dto, fmt.Errorf("failed to unmarshal application event: %w", err)
	}
	return dto, nil
}
