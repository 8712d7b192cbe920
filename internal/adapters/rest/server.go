package rest

import (
	"context"
	"net/http"
	"time"

	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
	"estate-agency/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const apiPrefix = "/api"

// ServerConfig - параметры HTTP-сервера
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Services - входящие порты, которые обслуживает REST API
type Services struct {
	Counterparties usecases_port.CounterpartyServicePort
	Properties     usecases_port.PropertyServicePort
	Applications   usecases_port.ApplicationServicePort
	Analytics      usecases_port.AnalyticsPort
}

// Instrumentation - метрики HTTP и обработчик /metrics
type Instrumentation interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает роутер; вынесен отдельно, чтобы его можно было проверить через httptest
func NewRouter(cfg ServerConfig, services Services, metrics Instrumentation, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger))
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", TraceHeader},
		ExposedHeaders: []string{"Location", TraceHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	counterparties := NewCrudHandler(services.Counterparties, domain.EntityCounterparty, apiPrefix+"/counterparties")
	properties := NewCrudHandler(services.Properties, domain.EntityProperty, apiPrefix+"/properties")
	applications := NewCrudHandler(services.Applications, domain.EntityApplication, apiPrefix+"/application")
	analytics := NewAnalyticsHandler(services.Analytics)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Route("/counterparties", counterparties.Routes)
		r.Route("/properties", properties.Routes)
		r.Route("/application", applications.Routes)
		r.Route("/analytics", analytics.Routes)
	})

	return r
}

func NewServer(cfg ServerConfig, services Services, metrics Instrumentation, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, services, metrics, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
