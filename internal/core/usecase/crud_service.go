package usecase

import (
	"context"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

// Mapper переводит сущность в DTO чтения и DTO изменения в сущность.
// Только проекция полей, без обращений к хранилищу.
type Mapper[E any, G any, C any] interface {
	ToGetDto(entity *E) G
	ToEntity(dto C) *E
	// Apply переносит поля dto в существующую сущность, не трогая id
	Apply(dto C, entity *E)
}

// CrudService - базовые CRUD-операции над одним типом сущностей.
// Специализированные сервисы встраивают его и переопределяют нужные методы.
type CrudService[E any, G domain.Identified, C any] struct {
	store  port.EntityStore[E]
	mapper Mapper[E, G, C]
	entity string // имя сущности для ошибок и логов
}

func NewCrudService[E any, G domain.Identified, C any](store port.EntityStore[E], mapper Mapper[E, G, C], entity string) *CrudService[E, G, C] {
	return &CrudService[E, G, C]{
		store:  store,
		mapper: mapper,
		entity: entity,
	}
}

func (s *CrudService[E, G, C]) logger(ctx context.Context, useCase string, fields port.Fields) port.LoggerPort {
	l := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": useCase,
		"entity":   s.entity,
	})
	if len(fields) > 0 {
		l = l.WithFields(fields)
	}
	return l
}

func (s *CrudService[E, G, C]) GetAll(ctx context.Context) ([]G, error) {
	ucLogger := s.logger(ctx, "GetAll", nil)

	entities, err := s.store.GetAll(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	result := make([]G, 0, len(entities))
	for i := range entities {
		result = append(result, s.mapper.ToGetDto(&entities[i]))
	}

	ucLogger.Debug("Use case finished", port.Fields{"count": len(result)})
	return result, nil
}

// GetByID возвращает nil, nil, если сущности нет
func (s *CrudService[E, G, C]) GetByID(ctx context.Context, id int) (*G, error) {
	ucLogger := s.logger(ctx, "GetByID", port.Fields{"id": id})

	entity, err := s.store.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if entity == nil {
		ucLogger.Debug("Entity not found", nil)
		return nil, nil
	}

	dto := s.mapper.ToGetDto(entity)
	return &dto, nil
}

func (s *CrudService[E, G, C]) Create(ctx context.Context, dto C) (*G, error) {
	ucLogger := s.logger(ctx, "Create", nil)

	saved, err := s.store.Add(ctx, s.mapper.ToEntity(dto))
	if err != nil {
		ucLogger.Error("Storage returned an error during add", err, nil)
		return nil, err
	}

	result := s.mapper.ToGetDto(saved)
	ucLogger.Info("Entity created", port.Fields{"id": result.GetID()})
	return &result, nil
}

// Update заменяет поля существующей сущности. Если сущности нет,
// возвращается *domain.NotFoundError и запись в хранилище не выполняется.
func (s *CrudService[E, G, C]) Update(ctx context.Context, id int, dto C) (*G, error) {
	ucLogger := s.logger(ctx, "Update", port.Fields{"id": id})

	entity, err := s.store.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error during lookup", err, nil)
		return nil, err
	}
	if entity == nil {
		ucLogger.Warn("Entity to update not found", nil)
		return nil, domain.NewNotFound(s.entity, id)
	}

	s.mapper.Apply(dto, entity)
	if err := s.store.Update(ctx, entity); err != nil {
		ucLogger.Error("Storage returned an error during update", err, nil)
		return nil, err
	}

	result := s.mapper.ToGetDto(entity)
	ucLogger.Info("Entity updated", nil)
	return &result, nil
}

// Delete возвращает false без ошибки, если удалять нечего
func (s *CrudService[E, G, C]) Delete(ctx context.Context, id int) (bool, error) {
	ucLogger := s.logger(ctx, "Delete", port.Fields{"id": id})

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error during delete", err, nil)
		return false, err
	}

	ucLogger.Info("Delete finished", port.Fields{"removed": removed})
	return removed, nil
}

func (s *CrudService[E, G, C]) Exists(ctx context.Context, id int) (bool, error) {
	return s.store.Exists(ctx, id)
}
