package memory

import (
	"context"
	"fmt"
	"sync"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

var (
	_ port.EntityStore[domain.Counterparty] = (*Store[domain.Counterparty, *domain.Counterparty])(nil)
	_ port.EntityStore[domain.Property]     = (*Store[domain.Property, *domain.Property])(nil)
	_ port.EntityStore[domain.Application]  = (*Store[domain.Application, *domain.Application])(nil)
)

// Database связывает три хранилища: заявки получают клиента и объект при чтении,
// удаление клиента или объекта каскадно удаляет их заявки. Заявка на отсутствующего
// клиента или объект не записывается.
type Database struct {
	Counterparties *Store[domain.Counterparty, *domain.Counterparty]
	Properties     *Store[domain.Property, *domain.Property]
	Applications   *Store[domain.Application, *domain.Application]

	// запись заявок берет RLock, запись клиентов и объектов с каскадом - Lock
	refs sync.RWMutex
}

func NewDatabase() *Database {
	db := &Database{
		Counterparties: NewStore[domain.Counterparty, *domain.Counterparty](domain.EntityCounterparty),
		Properties:     NewStore[domain.Property, *domain.Property](domain.EntityProperty),
		Applications:   NewStore[domain.Application, *domain.Application](domain.EntityApplication),
	}

	db.Applications.prepare = func(a *domain.Application) {
		a.Counterparty = nil
		a.Property = nil
		if a.CreatedAt.IsZero() {
			a.CreatedAt = domain.Today()
		} else {
			a.CreatedAt = domain.DateOnly(a.CreatedAt)
		}
	}
	db.Applications.check = func(a *domain.Application) error {
		if _, ok := db.Counterparties.get(a.CounterpartyID); !ok {
			return domain.NewNotFound(domain.EntityCounterparty, a.CounterpartyID)
		}
		if _, ok := db.Properties.get(a.PropertyID); !ok {
			return domain.NewNotFound(domain.EntityProperty, a.PropertyID)
		}
		return nil
	}
	db.Applications.guard = db.refs.RLocker()
	db.Counterparties.guard = &db.refs
	db.Properties.guard = &db.refs
	db.Applications.decorate = func(a *domain.Application) {
		if c, ok := db.Counterparties.get(a.CounterpartyID); ok {
			a.Counterparty = &c
		}
		if p, ok := db.Properties.get(a.PropertyID); ok {
			a.Property = &p
		}
	}
	db.Counterparties.afterDelete = func(id int) {
		db.Applications.removeWhere(func(a *domain.Application) bool { return a.CounterpartyID == id })
	}
	db.Properties.afterDelete = func(id int) {
		db.Applications.removeWhere(func(a *domain.Application) bool { return a.PropertyID == id })
	}

	return db
}

// Seed заполняет пустую базу. Непустая база не изменяется.
func (db *Database) Seed(ctx context.Context, data domain.Dataset) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "MemoryDatabase", "method": "Seed"})

	if db.Counterparties.Len() > 0 || db.Properties.Len() > 0 || db.Applications.Len() > 0 {
		logger.Info("Store is not empty, seed skipped", nil)
		return nil
	}
	for _, a := range data.Applications {
		if !containsID(data.Counterparties, a.CounterpartyID) {
			return fmt.Errorf("memory seed: application %d references missing counterparty %d", a.ID, a.CounterpartyID)
		}
		if !containsID(data.Properties, a.PropertyID) {
			return fmt.Errorf("memory seed: application %d references missing property %d", a.ID, a.PropertyID)
		}
	}

	db.Counterparties.load(data.Counterparties)
	db.Properties.load(data.Properties)
	db.Applications.load(data.Applications)

	logger.Info("Seed data loaded", port.Fields{
		"counterparties": len(data.Counterparties),
		"properties":     len(data.Properties),
		"applications":   len(data.Applications),
	})
	return nil
}

func containsID[T any, PT interface {
	*T
	domain.Entity
}](items []T, id int) bool {
	for i := range items {
		if PT(&items[i]).GetID() == id {
			return true
		}
	}
	return false
}
