package memory

import (
	"context"
	"sort"
	"sync"

	"estate-agency/internal/core/domain"
)

// Store - хранилище сущностей в памяти процесса. Возвращает копии,
// поэтому изменения у вызывающего не попадают в хранилище без Update.
type Store[T any, PT interface {
	*T
	domain.Entity
}] struct {
	mu     sync.RWMutex
	items  map[int]T
	nextID int
	entity string

	// prepare вызывается перед записью (значения по умолчанию, очистка ссылок)
	prepare func(*T)
	// check отклоняет запись, вызывается под guard до захвата mu
	check func(*T) error
	// guard держится на время записи вместе с check и afterDelete
	guard sync.Locker
	// decorate дополняет копию при чтении, вызывается без удержания mu
	decorate func(*T)
	// afterDelete вызывается после удаления, без удержания mu
	afterDelete func(id int)
}

func NewStore[T any, PT interface {
	*T
	domain.Entity
}](entity string) *Store[T, PT] {
	return &Store[T, PT]{
		items:  make(map[int]T),
		entity: entity,
	}
}

func (s *Store[T, PT]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Store[T, PT]) get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *Store[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := s.snapshot()
	if s.decorate != nil {
		for i := range out {
			s.decorate(&out[i])
		}
	}
	return out, nil
}

func (s *Store[T, PT]) GetByID(ctx context.Context, id int) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, ok := s.get(id)
	if !ok {
		return nil, nil
	}
	if s.decorate != nil {
		s.decorate(&item)
	}
	return &item, nil
}

func (s *Store[T, PT]) Add(ctx context.Context, entity *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item := *entity
	if s.prepare != nil {
		s.prepare(&item)
	}
	unlock := s.lockGuard()
	defer unlock()
	if s.check != nil {
		if err := s.check(&item); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.nextID++
	PT(&item).SetID(s.nextID)
	s.items[s.nextID] = item
	s.mu.Unlock()

	PT(entity).SetID(PT(&item).GetID())
	if s.decorate != nil {
		s.decorate(&item)
	}
	return &item, nil
}

func (s *Store[T, PT]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item := *entity
	if s.prepare != nil {
		s.prepare(&item)
	}
	id := PT(&item).GetID()
	unlock := s.lockGuard()
	defer unlock()
	if s.check != nil {
		if err := s.check(&item); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.NewNotFound(s.entity, id)
	}
	s.items[id] = item
	return nil
}

func (s *Store[T, PT]) Delete(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	unlock := s.lockGuard()
	defer unlock()

	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if ok && s.afterDelete != nil {
		s.afterDelete(id)
	}
	return ok, nil
}

func (s *Store[T, PT]) Exists(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := s.get(id)
	return ok, nil
}

func (s *Store[T, PT]) lockGuard() func() {
	if s.guard == nil {
		return func() {}
	}
	s.guard.Lock()
	return s.guard.Unlock
}

// Len - число записей
func (s *Store[T, PT]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// load кладет записи с уже назначенными id
func (s *Store[T, PT]) load(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if s.prepare != nil {
			s.prepare(&item)
		}
		id := PT(&item).GetID()
		s.items[id] = item
		s.nextID = max(s.nextID, id)
	}
}

func (s *Store[T, PT]) removeWhere(match func(*T) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, item := range s.items {
		if match(&item) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}
