package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	logger_adapter "estate-agency/internal/adapters/logger"
	"estate-agency/internal/adapters/memory"
	metrics_adapter "estate-agency/internal/adapters/metrics"
	postgres_adapter "estate-agency/internal/adapters/postgres"
	rabbitmq_adapter "estate-agency/internal/adapters/rabbitmq"
	"estate-agency/internal/adapters/rest"
	"estate-agency/internal/configs"
	"estate-agency/internal/constants"
	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
	"estate-agency/internal/core/usecase"
	fluentlogger "estate-agency/pkg/fluent_logger"
	"estate-agency/pkg/postgres"
	"estate-agency/pkg/rabbitmq/rabbitmq_common"
	"estate-agency/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// shutdownTimeout ограничивает остановку HTTP-сервера
const shutdownTimeout = 10 * time.Second

// stores - выбранная реализация хранилища сущностей
type stores struct {
	counterparties port.EntityStore[domain.Counterparty]
	properties     port.EntityStore[domain.Property]
	applications   port.EntityStore[domain.Application]
}

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	connManager  *rabbitmq_common.ConnectionManager
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	applicationEventsListener port.EventListenerPort
}

// NewApp создает приложение и связывает все зависимости
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := newLogger(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	initCtx := contextkeys.ContextWithLogger(context.Background(), baseLogger)

	st, err := application.initStores(initCtx)
	if err != nil {
		application.closeResources()
		return nil, err
	}

	metrics := metrics_adapter.New(true)

	counterpartyService := usecase.NewCounterpartyService(st.counterparties)
	propertyService := usecase.NewPropertyService(st.properties)
	applicationService := usecase.NewApplicationService(st.applications, st.counterparties, st.properties)
	analyticsUseCase := usecase.NewAnalyticsUseCase(st.applications, st.counterparties, st.properties)
	appLogger.Info("All use cases initialized.", nil)

	if appConfig.Consumer.Enabled {
		connManager, err := rabbitmq_common.NewManager(
			rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})),
		)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		consumerCfg := rabbitmq_consumer.ConsumerConfig{
			Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			QueueName:              appConfig.Consumer.Topic,
			DeclareQueue:           true,
			DurableQueue:           true,
			ExchangeNameForBind:    constants.ExchangeEstate,
			DeclareExchangeForBind: true,
			ExchangeTypeForBind:    constants.ExchangeEstateType,
			DurableExchangeForBind: true,
			RoutingKeyForBind:      appConfig.Consumer.Topic,
			ConsumerTag:            appConfig.Consumer.GroupID,
			AutoAck:                appConfig.Consumer.AutoCommit,
			PollTimeout:            appConfig.Consumer.PollTimeout,
		}
		listener, err := rabbitmq_adapter.NewApplicationConsumerAdapter(
			consumerCfg,
			appConfig.Consumer.MaxDeserializeAttempts,
			applicationService,
			baseLogger,
			metrics,
			connManager,
		)
		if err != nil {
			appLogger.Error("Failed to create application events listener", err, nil)
			application.closeResources()
			return nil, err
		}
		application.applicationEventsListener = listener
		appLogger.Info("Application events listener initialized.", port.Fields{"queue": appConfig.Consumer.Topic})
	} else {
		appLogger.Info("Queue consumer disabled by configuration.", nil)
	}

	application.apiServer = rest.NewServer(
		rest.ServerConfig{Port: appConfig.Rest.Port, AllowedOrigins: appConfig.Rest.AllowedOrigins},
		rest.Services{
			Counterparties: counterpartyService,
			Properties:     propertyService,
			Applications:   applicationService,
			Analytics:      analyticsUseCase,
		},
		metrics,
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// initStores подключает выбранное хранилище и при необходимости заполняет его
func (a *App) initStores(ctx context.Context) (*stores, error) {
	seed := domain.SeedData()

	switch a.config.Store.Driver {
	case configs.StoreDriverMemory:
		db := memory.NewDatabase()
		if a.config.Store.Seed {
			if err := db.Seed(ctx, seed); err != nil {
				return nil, fmt.Errorf("failed to seed memory store: %w", err)
			}
		}
		a.logger.Info("In-memory store initialized.", port.Fields{"seeded": a.config.Store.Seed})
		return &stores{counterparties: db.Counterparties, properties: db.Properties, applications: db.Applications}, nil

	default:
		dbPool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL: a.config.Database.URL,
			MaxConns:    a.config.Database.MaxConns,
		})
		if err != nil {
			a.logger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

		if err := postgres_adapter.EnsureSchema(ctx, dbPool); err != nil {
			return nil, err
		}
		if a.config.Store.Seed {
			if err := postgres_adapter.Seed(ctx, dbPool, seed); err != nil {
				return nil, err
			}
		}

		counterparties, err := postgres_adapter.NewCounterpartyRepository(dbPool)
		if err != nil {
			return nil, err
		}
		properties, err := postgres_adapter.NewPropertyRepository(dbPool)
		if err != nil {
			return nil, err
		}
		applications, err := postgres_adapter.NewApplicationRepository(dbPool)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Postgres repositories initialized.", nil)
		return &stores{counterparties: counterparties, properties: properties, applications: applications}, nil
	}
}

// Run запускает все компоненты приложения и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 2)

	if a.applicationEventsListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Application Events Listener"})
			listenerLogger.Info("Starting listener...", nil)

			if err := a.applicationEventsListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("application events listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

// closeResources закрывает все, что успело открыться; безопасен при частичной инициализации
func (a *App) closeResources() {
	if a.applicationEventsListener != nil {
		if err := a.applicationEventsListener.Close(); err != nil {
			a.logger.Error("Error closing application events listener", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, поэтому в stdout
			log.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

// newLogger собирает stdout-логгер и, если включен, Fluent Bit
func newLogger(cfg *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	activeLoggers := []port.LoggerPort{
		logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
			Level:    parseLogLevel(cfg.StdoutLogger.Level),
			UseColor: true,
		}),
	}

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, nil, fmt.Errorf("failed to create fluentbit adapter: %w", err)
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, fluentClient, nil
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
	}
	return level
}
