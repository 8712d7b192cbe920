package usecases_port

import (
	"context"
	"time"

	"estate-agency/internal/core/domain"
)

// AnalyticsPort - аналитические выборки по заявкам, клиентам и объектам
type AnalyticsPort interface {
	// CounterpartiesSoldInPeriod - продавцы с заявкой Sale в [start, end] включительно
	CounterpartiesSoldInPeriod(ctx context.Context, start, end time.Time) ([]domain.CounterpartyGetDto, error)
	TopCounterparties(ctx context.Context) (*domain.TopCounterpartiesDto, error)
	ApplicationCountByPropertyType(ctx context.Context) ([]domain.PropertyTypeCountDto, error)
	CounterpartiesWithMinimumApplicationCost(ctx context.Context) ([]domain.ClientWithMinRequestDto, error)
	CounterpartiesByPropertyType(ctx context.Context, propertyType string) ([]domain.CounterpartyGetDto, error)
}
