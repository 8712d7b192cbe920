package usecase

import (
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

// CounterpartyService не добавляет правил к базовому CRUD
type CounterpartyService = CrudService[domain.Counterparty, domain.CounterpartyGetDto, domain.CounterpartyCreateEditDto]

func NewCounterpartyService(store port.EntityStore[domain.Counterparty]) *CounterpartyService {
	return NewCrudService[domain.Counterparty, domain.CounterpartyGetDto, domain.CounterpartyCreateEditDto](
		store, CounterpartyMapper{}, domain.EntityCounterparty,
	)
}
