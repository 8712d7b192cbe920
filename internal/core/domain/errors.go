package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Категории ошибок ядра. Проверяются через errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrTransportFailure = errors.New("transport failure")
)

// NotFoundError - сущность с указанным id отсутствует в хранилище
type NotFoundError struct {
	Entity string
	ID     int
}

func NewNotFound(entity string, id int) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with Id %d does not exist.", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidArgumentError - значение поля не прошло проверку.
// Для перечислений заполняется Allowed, для прочих проверок - Reason.
type InvalidArgumentError struct {
	Field   string
	Value   string
	Allowed []string
	Reason  string
}

func NewInvalidArgument(field, value, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Value: value, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("Invalid %s '%s'. Allowed values: %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
	}
	if e.Value == "" {
		return fmt.Sprintf("Invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("Invalid %s '%s': %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewTransportFailure помечает ошибку разбора входящего сообщения
func NewTransportFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrTransportFailure, err)
}
