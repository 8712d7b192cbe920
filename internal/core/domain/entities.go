package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity - сущность с целочисленным идентификатором, который назначает хранилище
type Entity interface {
	GetID() int
	SetID(id int)
}

// Identified реализуют DTO, из которых REST-слой берет id для заголовка Location
type Identified interface {
	GetID() int
}

// Сущности называются так же, как в сообщениях об ошибках
const (
	EntityCounterparty = "Counterparty"
	EntityProperty     = "Property"
	EntityApplication  = "Application"
)

// Counterparty - клиент агентства (покупатель или продавец)
type Counterparty struct {
	ID             int
	FullName       string
	PassportNumber string
	PhoneNumber    string
}

func (c *Counterparty) GetID() int   { return c.ID }
func (c *Counterparty) SetID(id int) { c.ID = id }

// Property - объект недвижимости
type Property struct {
	ID              int
	CadastralNumber string
	Type            PropertyType
	Purpose         PropertyPurpose
	Address         string
	TotalFloors     int
	TotalArea       decimal.Decimal
	RoomCount       int
	CeilingHeight   decimal.Decimal
	Floor           int
	HasEncumbrances bool
}

func (p *Property) GetID() int   { return p.ID }
func (p *Property) SetID(id int) { p.ID = id }

// Application - заявка клиента на покупку или продажу объекта.
// Counterparty и Property заполняются хранилищем при чтении.
type Application struct {
	ID             int
	CounterpartyID int
	PropertyID     int
	Type           ApplicationType
	TotalCost      int
	CreatedAt      time.Time // только дата, UTC

	Counterparty *Counterparty
	Property     *Property
}

func (a *Application) GetID() int   { return a.ID }
func (a *Application) SetID(id int) { a.ID = id }

// DateLayout - формат дат в API и в сообщениях
const DateLayout = "2006-01-02"

// DateOnly отбрасывает время, оставляя полночь UTC того же календарного дня
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today - текущая дата
func Today() time.Time {
	return DateOnly(time.Now())
}

// ParseDate разбирает дату в формате DateLayout
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewInvalidArgument(field, value, "expected date in format YYYY-MM-DD")
	}
	return t, nil
}
