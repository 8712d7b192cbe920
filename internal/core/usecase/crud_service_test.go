package usecase

import (
	"context"
	"errors"
	"testing"

	"estate-agency/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrudService_CreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := NewCounterpartyService(f.counterparties)

	input := domain.CounterpartyCreateEditDto{FullName: "Ann Lee", PassportNumber: "CD7654321", PhoneNumber: "+15551234567"}
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 1, created.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, input.FullName, got.FullName)
	assert.Equal(t, input.PassportNumber, got.PassportNumber)
	assert.Equal(t, input.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, 1, f.counterparties.writes)
}

func TestCrudService_GetByIDMissingReturnsNil(t *testing.T) {
	svc := NewCounterpartyService(newFixture(t, true).counterparties)

	got, err := svc.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCrudService_UpdateMissingIsNotFoundWithoutWrite(t *testing.T) {
	f := newFixture(t, true)
	svc := NewCounterpartyService(f.counterparties)

	_, err := svc.Update(context.Background(), 77, domain.CounterpartyCreateEditDto{FullName: "Nobody"})
	require.Error(t, err)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, domain.EntityCounterparty, nf.Entity)
	assert.Equal(t, 77, nf.ID)
	assert.Equal(t, 0, f.counterparties.writes)
}

func TestCrudService_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	svc := NewCounterpartyService(f.counterparties)

	updated, err := svc.Update(ctx, 4, domain.CounterpartyCreateEditDto{FullName: "Sarah Davis-Moore", PassportNumber: "AB4234567", PhoneNumber: "+15550000004"})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.ID)

	got, err := svc.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Davis-Moore", got.FullName)
}

func TestCrudService_DeleteMissingReturnsFalse(t *testing.T) {
	svc := NewCounterpartyService(newFixture(t, true).counterparties)

	removed, err := svc.Delete(context.Background(), 500)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, removed)

	exists, err := svc.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCrudService_GetAllReturnsEveryEntity(t *testing.T) {
	svc := NewCounterpartyService(newFixture(t, true).counterparties)

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.Equal(t, "Charlotte White", all[9].FullName)
}
