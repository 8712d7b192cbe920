package usecase

import (
	"context"
	"fmt"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

// ApplicationService проверяет тип заявки и существование связанных
// клиента и объекта, а в ответах возвращает их целиком
type ApplicationService struct {
	*CrudService[domain.Application, domain.ApplicationGetDto, domain.ApplicationCreateEditDto]

	counterparties port.EntityStore[domain.Counterparty]
	properties     port.EntityStore[domain.Property]
}

func NewApplicationService(
	applications port.EntityStore[domain.Application],
	counterparties port.EntityStore[domain.Counterparty],
	properties port.EntityStore[domain.Property],
) *ApplicationService {
	return &ApplicationService{
		CrudService: NewCrudService[domain.Application, domain.ApplicationGetDto, domain.ApplicationCreateEditDto](
			applications, ApplicationMapper{}, domain.EntityApplication,
		),
		counterparties: counterparties,
		properties:     properties,
	}
}

func (s *ApplicationService) GetAll(ctx context.Context) ([]domain.ApplicationGetDto, error) {
	result, err := s.CrudService.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range result {
		if err := s.populate(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *ApplicationService) GetByID(ctx context.Context, id int) (*domain.ApplicationGetDto, error) {
	result, err := s.CrudService.GetByID(ctx, id)
	if err != nil || result == nil {
		return result, err
	}
	if err := s.populate(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ApplicationService) Create(ctx context.Context, dto domain.ApplicationCreateEditDto) (*domain.ApplicationGetDto, error) {
	normalized, err := s.validate(ctx, dto)
	if err != nil {
		return nil, err
	}

	result, err := s.CrudService.Create(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if err := s.refetch(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ApplicationService) Update(ctx context.Context, id int, dto domain.ApplicationCreateEditDto) (*domain.ApplicationGetDto, error) {
	normalized, err := s.validate(ctx, dto)
	if err != nil {
		return nil, err
	}

	result, err := s.CrudService.Update(ctx, id, normalized)
	if err != nil {
		return nil, err
	}
	if err := s.refetch(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// validate проверяет тип, затем клиента, затем объект. Первая ошибка прерывает проверку.
func (s *ApplicationService) validate(ctx context.Context, dto domain.ApplicationCreateEditDto) (domain.ApplicationCreateEditDto, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":        "ValidateApplication",
		"counterparty_id": dto.CounterpartyID,
		"property_id":     dto.PropertyID,
	})

	applicationType, err := domain.ParseApplicationType(dto.Type)
	if err != nil {
		ucLogger.Warn("Rejected application type", port.Fields{"value": dto.Type})
		return dto, err
	}
	dto.Type = string(applicationType)

	exists, err := s.counterparties.Exists(ctx, dto.CounterpartyID)
	if err != nil {
		ucLogger.Error("Counterparty lookup failed", err, nil)
		return dto, err
	}
	if !exists {
		ucLogger.Warn("Referenced counterparty does not exist", nil)
		return dto, domain.NewNotFound(domain.EntityCounterparty, dto.CounterpartyID)
	}

	exists, err = s.properties.Exists(ctx, dto.PropertyID)
	if err != nil {
		ucLogger.Error("Property lookup failed", err, nil)
		return dto, err
	}
	if !exists {
		ucLogger.Warn("Referenced property does not exist", nil)
		return dto, domain.NewNotFound(domain.EntityProperty, dto.PropertyID)
	}

	return dto, nil
}

// refetch всегда перечитывает связанные сущности после записи
func (s *ApplicationService) refetch(ctx context.Context, dto *domain.ApplicationGetDto) error {
	dto.Counterparty = nil
	dto.Property = nil
	return s.populate(ctx, dto)
}

// populate дочитывает клиента и объект, если хранилище их не вернуло
func (s *ApplicationService) populate(ctx context.Context, dto *domain.ApplicationGetDto) error {
	if dto.Counterparty == nil {
		c, err := s.counterparties.GetByID(ctx, dto.CounterpartyID)
		if err != nil {
			return fmt.Errorf("load counterparty %d for application %d: %w", dto.CounterpartyID, dto.ID, err)
		}
		if c != nil {
			cd := CounterpartyMapper{}.ToGetDto(c)
			dto.Counterparty = &cd
		}
	}
	if dto.Property == nil {
		p, err := s.properties.GetByID(ctx, dto.PropertyID)
		if err != nil {
			return fmt.Errorf("load property %d for application %d: %w", dto.PropertyID, dto.ID, err)
		}
		if p != nil {
			pd := PropertyMapper{}.ToGetDto(p)
			dto.Property = &pd
		}
	}
	return nil
}
