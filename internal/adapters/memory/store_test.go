package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"estate-agency/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase()
	require.NoError(t, db.Seed(context.Background(), domain.SeedData()))
	return db
}

func TestStore_AddAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()

	first, err := db.Counterparties.Add(ctx, &domain.Counterparty{FullName: "A"})
	require.NoError(t, err)
	second, err := db.Counterparties.Add(ctx, &domain.Counterparty{FullName: "B"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
}

func TestStore_GetByIDMissingReturnsNil(t *testing.T) {
	db := NewDatabase()
	got, err := db.Properties.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	db := seeded(t)

	c, err := db.Counterparties.GetByID(ctx, 1)
	require.NoError(t, err)
	c.FullName = "Changed"

	again, err := db.Counterparties.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", again.FullName)
}

func TestStore_UpdateMissingIsNotFound(t *testing.T) {
	db := NewDatabase()
	err := db.Counterparties.Update(context.Background(), &domain.Counterparty{ID: 5, FullName: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, db.Counterparties.Len())
}

func TestStore_DeleteReportsRemoval(t *testing.T) {
	ctx := context.Background()
	db := seeded(t)

	removed, err := db.Properties.Delete(ctx, 10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = db.Properties.Delete(ctx, 10)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDatabase_ApplicationsAreEagerLoaded(t *testing.T) {
	db := seeded(t)

	a, err := db.Applications.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, a.Counterparty)
	require.NotNil(t, a.Property)
	assert.Equal(t, "Michael Brown", a.Counterparty.FullName)
	assert.Equal(t, domain.PropertyTypeTownhouse, a.Property.Type)
}

func TestDatabase_DeleteCascadesToApplications(t *testing.T) {
	ctx := context.Background()
	db := seeded(t)

	_, err := db.Counterparties.Delete(ctx, 2)
	require.NoError(t, err)
	_, err = db.Properties.Delete(ctx, 3)
	require.NoError(t, err)

	exists, err := db.Applications.Exists(ctx, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = db.Applications.Exists(ctx, 3)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, 8, db.Applications.Len())
}

func TestDatabase_ApplicationCreatedAtDefaultsToToday(t *testing.T) {
	ctx := context.Background()
	db := seeded(t)

	saved, err := db.Applications.Add(ctx, &domain.Application{CounterpartyID: 1, PropertyID: 1, Type: domain.ApplicationTypeSale, TotalCost: 1})
	require.NoError(t, err)
	assert.Equal(t, 11, saved.ID)
	assert.Equal(t, domain.Today(), saved.CreatedAt)
}

func TestDatabase_SeedSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	_, err := db.Counterparties.Add(ctx, &domain.Counterparty{FullName: "Existing"})
	require.NoError(t, err)

	require.NoError(t, db.Seed(ctx, domain.SeedData()))
	assert.Equal(t, 1, db.Counterparties.Len())
	assert.Equal(t, 0, db.Applications.Len())
}

func TestDatabase_SeedRejectsMissingProperty(t *testing.T) {
	data := domain.SeedData()
	data.Applications[0].PropertyID = 404

	db := NewDatabase()
	err := db.Seed(context.Background(), data)
	assert.ErrorContains(t, err, "missing property 404")
	assert.Equal(t, 0, db.Counterparties.Len())
	assert.Equal(t, 0, db.Applications.Len())
}

func TestDatabase_ApplicationWithMissingParentIsRejected(t *testing.T) {
	ctx := context.Background()
	db := seeded(t)

	_, err := db.Applications.Add(ctx, &domain.Application{CounterpartyID: 99, PropertyID: 1, Type: domain.ApplicationTypeSale, TotalCost: 1})
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, domain.EntityCounterparty, notFound.Entity)

	err = db.Applications.Update(ctx, &domain.Application{ID: 1, CounterpartyID: 1, PropertyID: 99, Type: domain.ApplicationTypeSale, TotalCost: 1})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, domain.EntityProperty, notFound.Entity)

	assert.Equal(t, 10, db.Applications.Len())
	a, err := db.Applications.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, 99, a.PropertyID)
}

// Одновременные удаление клиента и добавление его заявки не оставляют заявку без клиента
func TestDatabase_ConcurrentDeleteLeavesNoDanglingApplications(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 50; round++ {
		db := seeded(t)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = db.Counterparties.Delete(ctx, 1)
		}()
		go func() {
			defer wg.Done()
			_, err := db.Applications.Add(ctx, &domain.Application{CounterpartyID: 1, PropertyID: 2, Type: domain.ApplicationTypeSale, TotalCost: 1})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrNotFound)
			}
		}()
		wg.Wait()

		apps, err := db.Applications.GetAll(ctx)
		require.NoError(t, err)
		for _, a := range apps {
			assert.NotEqual(t, 1, a.CounterpartyID, "round %d: application %d outlived its counterparty", round, a.ID)
		}
	}
}

func TestStore_HonoursCancelledContext(t *testing.T) {
	db := NewDatabase()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := db.Counterparties.GetAll(ctx)
	assert.Error(t, err)
}
