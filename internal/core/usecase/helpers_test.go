package usecase

import (
	"context"
	"testing"

	"estate-agency/internal/adapters/memory"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/stretchr/testify/require"
)

// spyStore считает операции чтения всей коллекции и записи поверх настоящего хранилища
type spyStore[T any] struct {
	port.EntityStore[T]
	reads  int
	writes int
}

func (s *spyStore[T]) GetAll(ctx context.Context) ([]T, error) {
	s.reads++
	return s.EntityStore.GetAll(ctx)
}

func (s *spyStore[T]) Add(ctx context.Context, e *T) (*T, error) {
	s.writes++
	return s.EntityStore.Add(ctx, e)
}

func (s *spyStore[T]) Update(ctx context.Context, e *T) error {
	s.writes++
	return s.EntityStore.Update(ctx, e)
}

func (s *spyStore[T]) Delete(ctx context.Context, id int) (bool, error) {
	s.writes++
	return s.EntityStore.Delete(ctx, id)
}

type fixture struct {
	db             *memory.Database
	applications   *spyStore[domain.Application]
	counterparties *spyStore[domain.Counterparty]
	properties     *spyStore[domain.Property]
}

func newFixture(t *testing.T, seed bool) *fixture {
	t.Helper()
	db := memory.NewDatabase()
	if seed {
		require.NoError(t, db.Seed(context.Background(), domain.SeedData()))
	}
	return &fixture{
		db:             db,
		applications:   &spyStore[domain.Application]{EntityStore: db.Applications},
		counterparties: &spyStore[domain.Counterparty]{EntityStore: db.Counterparties},
		properties:     &spyStore[domain.Property]{EntityStore: db.Properties},
	}
}

func (f *fixture) applicationService() *ApplicationService {
	return NewApplicationService(f.applications, f.counterparties, f.properties)
}

func (f *fixture) analytics() *AnalyticsUseCase {
	return NewAnalyticsUseCase(f.applications, f.counterparties, f.properties)
}

func ids(items []domain.CounterpartyGetDto) []int {
	out := make([]int, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}
