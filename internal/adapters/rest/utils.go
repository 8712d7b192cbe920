package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// idFromURL читает целочисленный {id} из пути
func idFromURL(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid id '%s': must be an integer", raw)
	}
	return id, nil
}

// decodeBody разбирает тело запроса и, если DTO это умеет, проверяет его поля
func decodeBody[T any](r *http.Request) (T, error) {
	var dto T
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return dto, fmt.Errorf("malformed JSON body: %w", err)
	}
	if v, ok := any(dto).(domain.Validator); ok {
		if err := v.Validate(); err != nil {
			return dto, err
		}
	}
	return dto, nil
}

// writeDomainError переводит ошибку ядра в HTTP-статус.
// NotFound по самой сущности (ownEntity) дает 404, по связанной сущности 400.
func writeDomainError(w http.ResponseWriter, logger port.LoggerPort, err error, ownEntity string) {
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &notFound):
		if notFound.Entity == ownEntity {
			logger.Warn("Entity not found", port.Fields{"entity": notFound.Entity, "id": notFound.ID})
			WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Warn("Related entity not found", port.Fields{"entity": notFound.Entity, "id": notFound.ID})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		logger.Warn("Invalid argument", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
