package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

// AnalyticsUseCase строит выборки по заявкам. Каждый вызов заново
// читает коллекции из хранилищ; состояние между вызовами не хранится.
type AnalyticsUseCase struct {
	applications   port.EntityStore[domain.Application]
	counterparties port.EntityStore[domain.Counterparty]
	properties     port.EntityStore[domain.Property]
}

func NewAnalyticsUseCase(
	applications port.EntityStore[domain.Application],
	counterparties port.EntityStore[domain.Counterparty],
	properties port.EntityStore[domain.Property],
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		applications:   applications,
		counterparties: counterparties,
		properties:     properties,
	}
}

// snapshot - коллекции, прочитанные в рамках одного вызова. Читаются все три,
// даже если выборке нужны не все: так ошибка любого хранилища видна каждому запросу.
type snapshot struct {
	applications   []domain.Application
	counterparties map[int]*domain.Counterparty
	properties     map[int]*domain.Property
}

func (uc *AnalyticsUseCase) load(ctx context.Context) (*snapshot, error) {
	apps, err := uc.applications.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	cps, err := uc.counterparties.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	props, err := uc.properties.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s := &snapshot{
		applications:   apps,
		counterparties: make(map[int]*domain.Counterparty, len(cps)),
		properties:     make(map[int]*domain.Property, len(props)),
	}
	for i := range cps {
		s.counterparties[cps[i].ID] = &cps[i]
	}
	for i := range props {
		s.properties[props[i].ID] = &props[i]
	}
	return s, nil
}

// counterpartySet собирает клиентов без повторов в порядке первого появления
type counterpartySet struct {
	seen  map[int]struct{}
	items []domain.CounterpartyGetDto
}

func newCounterpartySet() *counterpartySet {
	return &counterpartySet{seen: make(map[int]struct{})}
}

func (cs *counterpartySet) add(c *domain.Counterparty) {
	if c == nil {
		return
	}
	if _, ok := cs.seen[c.ID]; ok {
		return
	}
	cs.seen[c.ID] = struct{}{}
	cs.items = append(cs.items, CounterpartyMapper{}.ToGetDto(c))
}

func (uc *AnalyticsUseCase) CounterpartiesSoldInPeriod(ctx context.Context, start, end time.Time) ([]domain.CounterpartyGetDto, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CounterpartiesSoldInPeriod",
		"start":    start.Format(domain.DateLayout),
		"end":      end.Format(domain.DateLayout),
	})

	s, err := uc.load(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	start, end = domain.DateOnly(start), domain.DateOnly(end)
	sellers := newCounterpartySet()
	for _, a := range s.applications {
		if a.Type != domain.ApplicationTypeSale {
			continue
		}
		created := domain.DateOnly(a.CreatedAt)
		if created.Before(start) || created.After(end) {
			continue
		}
		sellers.add(s.counterparties[a.CounterpartyID])
	}

	ucLogger.Debug("Use case finished", port.Fields{"count": len(sellers.items)})
	return nonNil(sellers.items), nil
}

func (uc *AnalyticsUseCase) TopCounterparties(ctx context.Context) (*domain.TopCounterpartiesDto, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "TopCounterparties"})

	s, err := uc.load(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	return &domain.TopCounterpartiesDto{
		TopPurchase: s.top(domain.ApplicationTypePurchase, domain.TopCounterpartiesLimit),
		TopSale:     s.top(domain.ApplicationTypeSale, domain.TopCounterpartiesLimit),
	}, nil
}

// top ранжирует клиентов по числу заявок типа t; при равенстве выше меньший id
func (s *snapshot) top(t domain.ApplicationType, limit int) []domain.TopCounterpartyDto {
	counts := make(map[int]int)
	for _, a := range s.applications {
		if a.Type == t {
			counts[a.CounterpartyID]++
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	result := make([]domain.TopCounterpartyDto, 0, limit)
	for _, id := range ids {
		if len(result) == limit {
			break
		}
		c, ok := s.counterparties[id]
		if !ok {
			continue
		}
		result = append(result, domain.TopCounterpartyDto{
			Client:           CounterpartyMapper{}.ToGetDto(c),
			ApplicationCount: counts[id],
		})
	}
	return result
}

// ApplicationCountByPropertyType возвращает только типы, по которым есть заявки,
// в порядке объявления типов
func (uc *AnalyticsUseCase) ApplicationCountByPropertyType(ctx context.Context) ([]domain.PropertyTypeCountDto, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ApplicationCountByPropertyType"})

	s, err := uc.load(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	counts := make(map[domain.PropertyType]int)
	for _, a := range s.applications {
		p, ok := s.properties[a.PropertyID]
		if !ok {
			continue
		}
		counts[p.Type]++
	}

	result := make([]domain.PropertyTypeCountDto, 0, len(counts))
	for _, t := range domain.PropertyTypes() {
		if n := counts[t]; n > 0 {
			result = append(result, domain.PropertyTypeCountDto{PropertyType: string(t), Count: n})
		}
	}
	return result, nil
}

// CounterpartiesWithMinimumApplicationCost - клиенты с самой дешевой заявкой.
// Если заявок нет, результат пустой.
func (uc *AnalyticsUseCase) CounterpartiesWithMinimumApplicationCost(ctx context.Context) ([]domain.ClientWithMinRequestDto, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "CounterpartiesWithMinimumApplicationCost"})

	s, err := uc.load(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if len(s.applications) == 0 {
		return []domain.ClientWithMinRequestDto{}, nil
	}

	minCost := s.applications[0].TotalCost
	for _, a := range s.applications[1:] {
		minCost = min(minCost, a.TotalCost)
	}

	clients := newCounterpartySet()
	for _, a := range s.applications {
		if a.TotalCost == minCost {
			clients.add(s.counterparties[a.CounterpartyID])
		}
	}

	result := make([]domain.ClientWithMinRequestDto, 0, len(clients.items))
	for _, c := range clients.items {
		result = append(result, domain.ClientWithMinRequestDto{Counterparty: c, MinTotalCost: minCost})
	}
	return result, nil
}

// CounterpartiesByPropertyType - клиенты с заявками на объекты указанного типа,
// по имени, при совпадении имен по id
func (uc *AnalyticsUseCase) CounterpartiesByPropertyType(ctx context.Context, propertyType string) ([]domain.CounterpartyGetDto, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":      "CounterpartiesByPropertyType",
		"property_type": propertyType,
	})

	t, err := domain.ParsePropertyType(propertyType)
	if err != nil {
		ucLogger.Warn("Rejected property type", nil)
		return nil, err
	}

	s, err := uc.load(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	clients := newCounterpartySet()
	for _, a := range s.applications {
		p, ok := s.properties[a.PropertyID]
		if !ok || p.Type != t {
			continue
		}
		clients.add(s.counterparties[a.CounterpartyID])
	}

	result := clients.items
	sort.SliceStable(result, func(i, j int) bool {
		if c := strings.Compare(result[i].FullName, result[j].FullName); c != 0 {
			return c < 0
		}
		return result[i].ID < result[j].ID
	})
	return nonNil(result), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
