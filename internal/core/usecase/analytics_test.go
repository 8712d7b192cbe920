package usecase

import (
	"context"
	"testing"
	"time"

	"estate-agency/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestAnalytics_SellersInSecondHalfOf2025(t *testing.T) {
	uc := newFixture(t, true).analytics()

	sellers, err := uc.CounterpartiesSoldInPeriod(context.Background(), date(t, "2025-07-01"), date(t, "2025-12-31"))
	require.NoError(t, err)
	assert.Equal(t, []int{7, 9}, ids(sellers))
}

func TestAnalytics_PeriodBoundsAreInclusive(t *testing.T) {
	uc := newFixture(t, true).analytics()

	sellers, err := uc.CounterpartiesSoldInPeriod(context.Background(), date(t, "2025-02-10"), date(t, "2025-05-25"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, ids(sellers))
}

func TestAnalytics_ReversedPeriodIsEmpty(t *testing.T) {
	uc := newFixture(t, true).analytics()

	sellers, err := uc.CounterpartiesSoldInPeriod(context.Background(), date(t, "2025-12-31"), date(t, "2025-01-01"))
	require.NoError(t, err)
	assert.NotNil(t, sellers)
	assert.Empty(t, sellers)
}

func TestAnalytics_SellersAreDeduplicated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	_, err := f.db.Applications.Add(ctx, &domain.Application{CounterpartyID: 7, PropertyID: 2, Type: domain.ApplicationTypeSale, TotalCost: 1, CreatedAt: date(t, "2025-11-01")})
	require.NoError(t, err)

	sellers, err := f.analytics().CounterpartiesSoldInPeriod(ctx, date(t, "2025-07-01"), date(t, "2025-12-31"))
	require.NoError(t, err)
	assert.Equal(t, []int{7, 9}, ids(sellers))
}

func TestAnalytics_TopCounterpartiesOnSeed(t *testing.T) {
	uc := newFixture(t, true).analytics()

	top, err := uc.TopCounterparties(context.Background())
	require.NoError(t, err)

	purchaseIDs := make([]int, 0, len(top.TopPurchase))
	for _, row := range top.TopPurchase {
		purchaseIDs = append(purchaseIDs, row.Client.ID)
		assert.Equal(t, 1, row.ApplicationCount)
	}
	saleIDs := make([]int, 0, len(top.TopSale))
	for _, row := range top.TopSale {
		saleIDs = append(saleIDs, row.Client.ID)
	}

	assert.Equal(t, []int{1, 3, 4, 6, 8}, purchaseIDs)
	assert.Equal(t, []int{2, 5, 7, 9}, saleIDs)
}

func TestAnalytics_TopCounterpartiesOrderedByCountThenID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	extra := []domain.Application{
		{CounterpartyID: 10, PropertyID: 1, Type: domain.ApplicationTypePurchase, TotalCost: 1},
		{CounterpartyID: 10, PropertyID: 2, Type: domain.ApplicationTypePurchase, TotalCost: 1},
		{CounterpartyID: 8, PropertyID: 3, Type: domain.ApplicationTypePurchase, TotalCost: 1},
	}
	for i := range extra {
		_, err := f.db.Applications.Add(ctx, &extra[i])
		require.NoError(t, err)
	}

	top, err := f.analytics().TopCounterparties(ctx)
	require.NoError(t, err)
	require.Len(t, top.TopPurchase, domain.TopCounterpartiesLimit)

	got := make([]int, 0, 5)
	for i, row := range top.TopPurchase {
		got = append(got, row.Client.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, top.TopPurchase[i-1].ApplicationCount, row.ApplicationCount)
		}
	}
	// 10 -> 3 заявки, 8 -> 2, остальные по одной по возрастанию id
	assert.Equal(t, []int{10, 8, 1, 3, 4}, got)
	assert.Equal(t, 3, top.TopPurchase[0].ApplicationCount)
}

func TestAnalytics_PropertyTypeCounts(t *testing.T) {
	uc := newFixture(t, true).analytics()

	counts, err := uc.ApplicationCountByPropertyType(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.PropertyTypeCountDto{
		{PropertyType: "Apartment", Count: 2},
		{PropertyType: "House", Count: 2},
		{PropertyType: "Townhouse", Count: 1},
		{PropertyType: "Warehouse", Count: 2},
		{PropertyType: "Office", Count: 2},
		{PropertyType: "Other", Count: 1},
	}, counts)

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, 10, total)
}

func TestAnalytics_PropertyTypeCountsOmitUnusedTypes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	_, err := f.db.Properties.Delete(ctx, 3) // единственный таунхаус
	require.NoError(t, err)

	counts, err := f.analytics().ApplicationCountByPropertyType(ctx)
	require.NoError(t, err)
	for _, c := range counts {
		assert.NotEqual(t, "Townhouse", c.PropertyType)
	}
	assert.Len(t, counts, 5)
}

func TestAnalytics_MinimumCostClients(t *testing.T) {
	uc := newFixture(t, true).analytics()

	rows, err := uc.CounterpartiesWithMinimumApplicationCost(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Counterparty.ID)
	assert.Equal(t, 50000, rows[0].MinTotalCost)
}

func TestAnalytics_MinimumCostTiesAndEmptyData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	_, err := f.db.Applications.Add(ctx, &domain.Application{CounterpartyID: 5, PropertyID: 1, Type: domain.ApplicationTypeSale, TotalCost: 50000})
	require.NoError(t, err)
	_, err = f.db.Applications.Add(ctx, &domain.Application{CounterpartyID: 1, PropertyID: 2, Type: domain.ApplicationTypeSale, TotalCost: 50000})
	require.NoError(t, err)

	rows, err := f.analytics().CounterpartiesWithMinimumApplicationCost(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Counterparty.ID)
	assert.Equal(t, 5, rows[1].Counterparty.ID)

	empty, err := newFixture(t, false).analytics().CounterpartiesWithMinimumApplicationCost(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAnalytics_ClientsByPropertyType(t *testing.T) {
	uc := newFixture(t, true).analytics()

	clients, err := uc.CounterpartiesByPropertyType(context.Background(), "apartment")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "John Smith", clients[0].FullName)
	assert.Equal(t, "Olivia Miller", clients[1].FullName)

	warehouses, err := uc.CounterpartiesByPropertyType(context.Background(), "Warehouse")
	require.NoError(t, err)
	// Benjamin Thomas < David Wilson
	assert.Equal(t, []int{9, 5}, ids(warehouses))
}

func TestAnalytics_ClientsByUnknownPropertyType(t *testing.T) {
	uc := newFixture(t, true).analytics()

	_, err := uc.CounterpartiesByPropertyType(context.Background(), "Castle")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAnalytics_ReadsFreshData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	uc := f.analytics()

	_, err := uc.TopCounterparties(ctx)
	require.NoError(t, err)

	_, err = f.db.Applications.Add(ctx, &domain.Application{CounterpartyID: 2, PropertyID: 1, Type: domain.ApplicationTypeSale, TotalCost: 10})
	require.NoError(t, err)

	top, err := uc.TopCounterparties(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, top.TopSale[0].Client.ID)
	assert.Equal(t, 2, top.TopSale[0].ApplicationCount)
}

func TestAnalytics_EveryQueryReadsAllCollections(t *testing.T) {
	ctx := context.Background()
	queries := map[string]func(*AnalyticsUseCase) error{
		"sellers": func(uc *AnalyticsUseCase) error {
			_, err := uc.CounterpartiesSoldInPeriod(ctx, date(t, "2025-01-01"), date(t, "2025-12-31"))
			return err
		},
		"top": func(uc *AnalyticsUseCase) error {
			_, err := uc.TopCounterparties(ctx)
			return err
		},
		"by type": func(uc *AnalyticsUseCase) error {
			_, err := uc.ApplicationCountByPropertyType(ctx)
			return err
		},
		"min cost": func(uc *AnalyticsUseCase) error {
			_, err := uc.CounterpartiesWithMinimumApplicationCost(ctx)
			return err
		},
		"clients by type": func(uc *AnalyticsUseCase) error {
			_, err := uc.CounterpartiesByPropertyType(ctx, "Warehouse")
			return err
		},
	}
	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, true)
			require.NoError(t, query(f.analytics()))
			assert.Equal(t, 1, f.applications.reads)
			assert.Equal(t, 1, f.counterparties.reads)
			assert.Equal(t, 1, f.properties.reads)
		})
	}
}
