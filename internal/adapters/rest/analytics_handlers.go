package rest

import (
	"net/http"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
	"estate-agency/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type AnalyticsHandler struct {
	analytics usecases_port.AnalyticsPort
}

func NewAnalyticsHandler(analytics usecases_port.AnalyticsPort) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Routes(r chi.Router) {
	r.Get("/counterparties-by-period", h.CounterpartiesByPeriod)
	r.Get("/top-counterparties", h.TopCounterparties)
	r.Get("/property-type-count", h.PropertyTypeCount)
	r.Get("/min-price-clients", h.MinPriceClients)
	r.Get("/clients-by-property-type/{propertyType}", h.ClientsByPropertyType)
}

// CounterpartiesByPeriod обрабатывает GET /api/analytics/counterparties-by-period?startDate=&endDate=
func (h *AnalyticsHandler) CounterpartiesByPeriod(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "CounterpartiesByPeriod",
		"start_date": query.Get("startDate"),
		"end_date":   query.Get("endDate"),
	})

	start, err := domain.ParseDate("startDate", query.Get("startDate"))
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	end, err := domain.ParseDate("endDate", query.Get("endDate"))
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}

	result, err := h.analytics.CounterpartiesSoldInPeriod(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) TopCounterparties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "TopCounterparties"})

	result, err := h.analytics.TopCounterparties(r.Context())
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) PropertyTypeCount(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PropertyTypeCount"})

	result, err := h.analytics.ApplicationCountByPropertyType(r.Context())
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) MinPriceClients(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MinPriceClients"})

	result, err := h.analytics.CounterpartiesWithMinimumApplicationCost(r.Context())
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) ClientsByPropertyType(w http.ResponseWriter, r *http.Request) {
	propertyType := chi.URLParam(r, "propertyType")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":       "ClientsByPropertyType",
		"property_type": propertyType,
	})

	result, err := h.analytics.CounterpartiesByPropertyType(r.Context(), propertyType)
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}
