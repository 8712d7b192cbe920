package usecase

import (
	"context"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"
)

// PropertyService проверяет тип и назначение объекта перед сохранением
type PropertyService struct {
	*CrudService[domain.Property, domain.PropertyGetDto, domain.PropertyCreateEditDto]
}

func NewPropertyService(store port.EntityStore[domain.Property]) *PropertyService {
	return &PropertyService{
		CrudService: NewCrudService[domain.Property, domain.PropertyGetDto, domain.PropertyCreateEditDto](
			store, PropertyMapper{}, domain.EntityProperty,
		),
	}
}

func (s *PropertyService) Create(ctx context.Context, dto domain.PropertyCreateEditDto) (*domain.PropertyGetDto, error) {
	normalized, err := s.normalize(ctx, dto)
	if err != nil {
		return nil, err
	}
	return s.CrudService.Create(ctx, normalized)
}

func (s *PropertyService) Update(ctx context.Context, id int, dto domain.PropertyCreateEditDto) (*domain.PropertyGetDto, error) {
	normalized, err := s.normalize(ctx, dto)
	if err != nil {
		return nil, err
	}
	return s.CrudService.Update(ctx, id, normalized)
}

// normalize приводит тип и назначение к каноническим именам
func (s *PropertyService) normalize(ctx context.Context, dto domain.PropertyCreateEditDto) (domain.PropertyCreateEditDto, error) {
	propertyType, err := domain.ParsePropertyType(dto.Type)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Rejected property type", port.Fields{"value": dto.Type})
		return dto, err
	}
	purpose, err := domain.ParsePropertyPurpose(dto.Purpose)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Rejected property purpose", port.Fields{"value": dto.Purpose})
		return dto, err
	}

	dto.Type = string(propertyType)
	dto.Purpose = string(purpose)
	return dto, nil
}
