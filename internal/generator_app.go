package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rabbitmq_adapter "estate-agency/internal/adapters/rabbitmq"
	"estate-agency/internal/configs"
	"estate-agency/internal/constants"
	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/port"
	"estate-agency/internal/core/port/usecases_port"
	"estate-agency/internal/core/usecase"
	"estate-agency/pkg/rabbitmq/rabbitmq_common"
	"estate-agency/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// GeneratorApp периодически публикует случайные заявки в очередь
type GeneratorApp struct {
	config       *configs.AppConfig
	connManager  *rabbitmq_common.ConnectionManager
	producer     *rabbitmq_producer.Publisher
	fluentClient *fluent.Fluent
	baseLogger   port.LoggerPort
	logger       port.LoggerPort

	generator usecases_port.GenerateApplicationsPort
	scheduler *cron.Cron
}

func NewGeneratorApp() (*GeneratorApp, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := newLogger(appConfig)
	if err != nil {
		return nil, err
	}
	baseLogger = baseLogger.WithFields(port.Fields{"process": "generator"})

	app := &GeneratorApp{
		config:       appConfig,
		fluentClient: fluentClient,
		baseLogger:   baseLogger,
		logger:       baseLogger.WithFields(port.Fields{"component": "generator_app"}),
	}

	connManager, err := rabbitmq_common.NewManager(
		rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})),
	)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	app.connManager = connManager

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.ExchangeEstate,
		ExchangeType:             constants.ExchangeEstateType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		BindQueueName:            appConfig.Consumer.Topic,
		BindRoutingKey:           appConfig.Consumer.Topic,
		ConfirmDeliveries:        appConfig.Producer.Acks == constants.ProducerAcksAll,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	app.producer = producer

	publisher, err := rabbitmq_adapter.NewApplicationEventPublisherAdapter(producer, appConfig.Consumer.Topic, appConfig.Producer.Idempotence, nil)
	if err != nil {
		app.close()
		return nil, err
	}

	app.generator, err = usecase.NewGenerateApplicationsUseCase(publisher, appConfig.Producer.BatchSize, usecase.DefaultGeneratorBounds, nil)
	if err != nil {
		app.close()
		return nil, err
	}

	cronLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "scheduler"}))
	app.scheduler = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	app.logger.Info("Generator initialized.", port.Fields{
		"batch_size":  appConfig.Producer.BatchSize,
		"interval":    appConfig.Producer.ProduceInterval.String(),
		"acks":        appConfig.Producer.Acks,
		"idempotence": appConfig.Producer.Idempotence,
	})
	return app, nil
}

// Run публикует пачку каждые PRODUCE_INTERVAL до сигнала остановки
func (a *GeneratorApp) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()
	defer a.close()

	// cron.Every округляет интервал меньше секунды до секунды
	a.scheduler.Schedule(cron.Every(a.config.Producer.ProduceInterval), cron.FuncJob(func() {
		traceID := uuid.New().String()
		ctx := contextkeys.ContextWithLogger(appCtx, a.baseLogger.WithFields(port.Fields{"trace_id": traceID}))
		ctx = contextkeys.ContextWithTraceID(ctx, traceID)

		published, err := a.generator.GenerateBatch(ctx)
		if err != nil {
			a.logger.Error("Batch generation failed", err, port.Fields{"published": published})
			return
		}
		a.logger.Info("Batch published", port.Fields{"published": published})
	}))
	a.scheduler.Start()
	a.logger.Info("Generator is running...", nil)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	receivedSignal := <-quit
	a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})

	cancelApp()
	// ждем, пока закончится текущая пачка
	<-a.scheduler.Stop().Done()
	a.logger.Info("Scheduler stopped.", nil)
	return nil
}

func (a *GeneratorApp) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
		a.producer = nil
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
		a.connManager = nil
	}
	if a.fluentClient != nil {
		_ = a.fluentClient.Close()
		a.fluentClient = nil
	}
}
