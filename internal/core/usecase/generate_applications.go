package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

// GeneratorBounds - диапазоны случайных полей заявки, границы включительно
type GeneratorBounds struct {
	CounterpartyMin, CounterpartyMax int
	PropertyMin, PropertyMax         int
	TotalCostMin, TotalCostMax       int
}

// DefaultGeneratorBounds совпадают с идентификаторами начальных данных
var DefaultGeneratorBounds = GeneratorBounds{
	CounterpartyMin: 1, CounterpartyMax: 10,
	PropertyMin: 1, PropertyMax: 10,
	TotalCostMin: 100000, TotalCostMax: 1000000,
}

// GenerateApplicationsUseCase публикует заявки со случайными полями для нагрузочной проверки потребителя
type GenerateApplicationsUseCase struct {
	publisher port.ApplicationEventPublisherPort
	batchSize int
	bounds    GeneratorBounds
	intN      func(n int) int
}

// NewGenerateApplicationsUseCase создает генератор. rng может быть nil,
// тогда используется общий генератор math/rand/v2.
func NewGenerateApplicationsUseCase(publisher port.ApplicationEventPublisherPort, batchSize int, bounds GeneratorBounds, rng *rand.Rand) (*GenerateApplicationsUseCase, error) {
	if publisher == nil {
		return nil, fmt.Errorf("generator: publisher cannot be nil")
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("generator: batch size must be positive, got %d", batchSize)
	}
	if bounds.CounterpartyMin > bounds.CounterpartyMax || bounds.PropertyMin > bounds.PropertyMax || bounds.TotalCostMin > bounds.TotalCostMax {
		return nil, fmt.Errorf("generator: invalid bounds %+v", bounds)
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	return &GenerateApplicationsUseCase{
		publisher: publisher,
		batchSize: batchSize,
		bounds:    bounds,
		intN:      intN,
	}, nil
}

func (uc *GenerateApplicationsUseCase) between(lo, hi int) int {
	return lo + uc.intN(hi-lo+1)
}

// Next возвращает одну случайную заявку
func (uc *GenerateApplicationsUseCase) Next() domain.ApplicationCreateEditDto {
	types := domain.ApplicationTypes()
	return domain.ApplicationCreateEditDto{
		CounterpartyID: uc.between(uc.bounds.CounterpartyMin, uc.bounds.CounterpartyMax),
		PropertyID:     uc.between(uc.bounds.PropertyMin, uc.bounds.PropertyMax),
		Type:           string(types[uc.intN(len(types))]),
		TotalCost:      uc.between(uc.bounds.TotalCostMin, uc.bounds.TotalCostMax),
	}
}

// GenerateBatch публикует batchSize заявок и возвращает число успешно отправленных.
// Первая ошибка публикации прерывает пачку.
func (uc *GenerateApplicationsUseCase) GenerateBatch(ctx context.Context) (int, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GenerateApplications",
		"batch_size": uc.batchSize,
	})

	published := 0
	for published < uc.batchSize {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		event := uc.Next()
		if err := uc.publisher.PublishApplicationCreate(ctx, event); err != nil {
			ucLogger.Error("Failed to publish generated application", err, port.Fields{"published": published})
			return published, fmt.Errorf("generator: publish %d of %d: %w", published+1, uc.batchSize, err)
		}
		published++
		ucLogger.Debug("Generated application published", port.Fields{
			"counterparty_id": event.CounterpartyID,
			"property_id":     event.PropertyID,
			"type":            event.Type,
			"total_cost":      event.TotalCost,
		})
	}

	ucLogger.Info("Batch published", port.Fields{"published": published})
	return published, nil
}
