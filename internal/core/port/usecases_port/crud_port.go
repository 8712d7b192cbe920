package usecases_port

import (
	"context"

	"estate-agency/internal/core/domain"
)

// CrudPort - входящий порт CRUD-операций над одним типом сущностей.
// G - DTO чтения, C - DTO создания/изменения.
type CrudPort[G any, C any] interface {
	GetAll(ctx context.Context) ([]G, error)
	// GetByID возвращает nil, nil, если сущности нет
	GetByID(ctx context.Context, id int) (*G, error)
	Create(ctx context.Context, dto C) (*G, error)
	Update(ctx context.Context, id int, dto C) (*G, error)
	Delete(ctx context.Context, id int) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type CounterpartyServicePort = CrudPort[domain.CounterpartyGetDto, domain.CounterpartyCreateEditDto]

type PropertyServicePort = CrudPort[domain.PropertyGetDto, domain.PropertyCreateEditDto]

type ApplicationServicePort = CrudPort[domain.ApplicationGetDto, domain.ApplicationCreateEditDto]
