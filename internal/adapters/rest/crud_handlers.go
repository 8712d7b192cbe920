package rest

import (
	"fmt"
	"net/http"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
	"estate-agency/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// CrudHandler обслуживает один ресурс поверх CrudPort.
// G - DTO ответа, C - DTO тела POST/PUT.
type CrudHandler[G domain.Identified, C any] struct {
	service  usecases_port.CrudPort[G, C]
	entity   string
	basePath string // префикс для заголовка Location, например /api/counterparties
}

func NewCrudHandler[G domain.Identified, C any](service usecases_port.CrudPort[G, C], entity, basePath string) *CrudHandler[G, C] {
	return &CrudHandler[G, C]{service: service, entity: entity, basePath: basePath}
}

// Routes вешает стандартный набор маршрутов на переданный роутер
func (h *CrudHandler[G, C]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *CrudHandler[G, C]) logger(r *http.Request, handler string) port.LoggerPort {
	return contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": handler,
		"entity":  h.entity,
	})
}

func (h *CrudHandler[G, C]) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger(r, "List")

	items, err := h.service.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, logger, err, h.entity)
		return
	}
	if items == nil {
		items = []G{}
	}
	RespondWithJSON(w, http.StatusOK, items)
}

func (h *CrudHandler[G, C]) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger(r, "Get")

	id, err := idFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err, h.entity)
		return
	}
	if item == nil {
		WriteJSONError(w, http.StatusNotFound, domain.NewNotFound(h.entity, id).Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, item)
}

func (h *CrudHandler[G, C]) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger(r, "Create")

	dto, err := decodeBody[C](r)
	if err != nil {
		logger.Warn("Rejected request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeDomainError(w, logger, err, h.entity)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", h.basePath, (*created).GetID()))
	RespondWithJSON(w, http.StatusCreated, created)
}

func (h *CrudHandler[G, C]) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger(r, "Update")

	id, err := idFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := decodeBody[C](r)
	if err != nil {
		logger.Warn("Rejected request body", port.Fields{"error": err.Error(), "id": id})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		writeDomainError(w, logger, err, h.entity)
		return
	}
	RespondWithJSON(w, http.StatusOK, updated)
}

// Delete всегда отвечает 204: удаление несуществующей сущности не ошибка
func (h *CrudHandler[G, C]) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger(r, "Delete")

	id, err := idFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err, h.entity)
		return
	}
	logger.Debug("Delete handled", port.Fields{"id": id, "removed": removed})
	w.WriteHeader(http.StatusNoContent)
}
