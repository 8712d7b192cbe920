package usecase

import (
	"estate-agency/internal/core/domain"
)

// Дробные поля объекта хранятся с двумя знаками после запятой
const decimalPlaces = 2

type CounterpartyMapper struct{}

func (CounterpartyMapper) ToGetDto(c *domain.Counterparty) domain.CounterpartyGetDto {
	return domain.CounterpartyGetDto{
		ID:             c.ID,
		FullName:       c.FullName,
		PassportNumber: c.PassportNumber,
		PhoneNumber:    c.PhoneNumber,
	}
}

func (m CounterpartyMapper) ToEntity(dto domain.CounterpartyCreateEditDto) *domain.Counterparty {
	c := &domain.Counterparty{}
	m.Apply(dto, c)
	return c
}

func (CounterpartyMapper) Apply(dto domain.CounterpartyCreateEditDto, c *domain.Counterparty) {
	c.FullName = dto.FullName
	c.PassportNumber = dto.PassportNumber
	c.PhoneNumber = dto.PhoneNumber
}

type PropertyMapper struct{}

func (PropertyMapper) ToGetDto(p *domain.Property) domain.PropertyGetDto {
	return domain.PropertyGetDto{
		ID:              p.ID,
		CadastralNumber: p.CadastralNumber,
		Type:            string(p.Type),
		Purpose:         string(p.Purpose),
		Address:         p.Address,
		TotalFloors:     p.TotalFloors,
		TotalArea:       p.TotalArea,
		RoomCount:       p.RoomCount,
		CeilingHeight:   p.CeilingHeight,
		Floor:           p.Floor,
		HasEncumbrances: p.HasEncumbrances,
	}
}

func (m PropertyMapper) ToEntity(dto domain.PropertyCreateEditDto) *domain.Property {
	p := &domain.Property{}
	m.Apply(dto, p)
	return p
}

// Apply ожидает, что Type и Purpose уже приведены к каноническим именам
func (PropertyMapper) Apply(dto domain.PropertyCreateEditDto, p *domain.Property) {
	p.CadastralNumber = dto.CadastralNumber
	p.Type = domain.PropertyType(dto.Type)
	p.Purpose = domain.PropertyPurpose(dto.Purpose)
	p.Address = dto.Address
	p.TotalFloors = dto.TotalFloors
	p.TotalArea = dto.TotalArea.Round(decimalPlaces)
	p.RoomCount = dto.RoomCount
	p.CeilingHeight = dto.CeilingHeight.Round(decimalPlaces)
	p.Floor = dto.Floor
	p.HasEncumbrances = dto.HasEncumbrances
}

type ApplicationMapper struct{}

func (ApplicationMapper) ToGetDto(a *domain.Application) domain.ApplicationGetDto {
	dto := domain.ApplicationGetDto{
		ID:             a.ID,
		CounterpartyID: a.CounterpartyID,
		PropertyID:     a.PropertyID,
		Type:           string(a.Type),
		TotalCost:      a.TotalCost,
	}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(domain.DateLayout)
	}
	if a.Counterparty != nil {
		c := CounterpartyMapper{}.ToGetDto(a.Counterparty)
		dto.Counterparty = &c
	}
	if a.Property != nil {
		p := PropertyMapper{}.ToGetDto(a.Property)
		dto.Property = &p
	}
	return dto
}

// ToEntity проставляет текущую дату создания
func (m ApplicationMapper) ToEntity(dto domain.ApplicationCreateEditDto) *domain.Application {
	a := &domain.Application{CreatedAt: domain.Today()}
	m.Apply(dto, a)
	return a
}

// Apply не меняет дату создания
func (ApplicationMapper) Apply(dto domain.ApplicationCreateEditDto, a *domain.Application) {
	if a.CounterpartyID != dto.CounterpartyID {
		a.Counterparty = nil
	}
	if a.PropertyID != dto.PropertyID {
		a.Property = nil
	}
	a.CounterpartyID = dto.CounterpartyID
	a.PropertyID = dto.PropertyID
	a.Type = domain.ApplicationType(dto.Type)
	a.TotalCost = dto.TotalCost
}
