package domain

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func init() {
	// площадь и высота потолков в JSON передаются числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// Validator реализуют DTO создания/изменения, которые проверяются на границе (HTTP, очередь)
type Validator interface {
	Validate() error
}

type CounterpartyGetDto struct {
	ID             int    `json:"id"`
	FullName       string `json:"fullName"`
	PassportNumber string `json:"passportNumber"`
	PhoneNumber    string `json:"phoneNumber"`
}

func (d CounterpartyGetDto) GetID() int { return d.ID }

type CounterpartyCreateEditDto struct {
	FullName       string `json:"fullName"`
	PassportNumber string `json:"passportNumber"`
	PhoneNumber    string `json:"phoneNumber"`
}

// Границы совпадают с колонками таблиц: phone_number VARCHAR(20),
// total_area NUMERIC(10,2), ceiling_height NUMERIC(5,2), total_cost INTEGER
const (
	MaxPhoneLength = 20
	MaxTotalCost   = math.MaxInt32
)

var (
	MaxTotalArea     = decimal.New(1, 8) // 99999999.99 включительно
	MaxCeilingHeight = decimal.New(1, 3) // 999.99 включительно
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{4,18}$`)

func (d CounterpartyCreateEditDto) Validate() error {
	if err := requireText("FullName", d.FullName, 100); err != nil {
		return err
	}
	if err := requireText("PassportNumber", d.PassportNumber, 20); err != nil {
		return err
	}
	if utf8.RuneCountInString(d.PhoneNumber) > MaxPhoneLength || !phonePattern.MatchString(strings.TrimSpace(d.PhoneNumber)) {
		return NewInvalidArgument("PhoneNumber", d.PhoneNumber, "not a phone number")
	}
	return nil
}

type PropertyGetDto struct {
	ID              int             `json:"id"`
	CadastralNumber string          `json:"cadastralNumber"`
	Type            string          `json:"type"`
	Purpose         string          `json:"purpose"`
	Address         string          `json:"address"`
	TotalFloors     int             `json:"totalFloors"`
	TotalArea       decimal.Decimal `json:"totalArea"`
	RoomCount       int             `json:"roomCount"`
	CeilingHeight   decimal.Decimal `json:"ceilingHeight"`
	Floor           int             `json:"floor"`
	HasEncumbrances bool            `json:"hasEncumbrances"`
}

func (d PropertyGetDto) GetID() int { return d.ID }

type PropertyCreateEditDto struct {
	CadastralNumber string          `json:"cadastralNumber"`
	Type            string          `json:"type"`
	Purpose         string          `json:"purpose"`
	Address         string          `json:"address"`
	TotalFloors     int             `json:"totalFloors"`
	TotalArea       decimal.Decimal `json:"totalArea"`
	RoomCount       int             `json:"roomCount"`
	CeilingHeight   decimal.Decimal `json:"ceilingHeight"`
	Floor           int             `json:"floor"`
	HasEncumbrances bool            `json:"hasEncumbrances"`
}

// Validate проверяет длины и диапазоны. Тип и назначение проверяет PropertyService.
func (d PropertyCreateEditDto) Validate() error {
	if err := requireText("CadastralNumber", d.CadastralNumber, 50); err != nil {
		return err
	}
	if err := requireText("Address", d.Address, 200); err != nil {
		return err
	}
	if d.TotalFloors < 1 {
		return NewInvalidArgument("TotalFloors", "", "must be at least 1")
	}
	if d.Floor < 1 {
		return NewInvalidArgument("Floor", "", "must be at least 1")
	}
	if d.RoomCount < 0 {
		return NewInvalidArgument("RoomCount", "", "must not be negative")
	}
	if err := requireDecimal("TotalArea", d.TotalArea, MaxTotalArea); err != nil {
		return err
	}
	if err := requireDecimal("CeilingHeight", d.CeilingHeight, MaxCeilingHeight); err != nil {
		return err
	}
	return nil
}

type ApplicationGetDto struct {
	ID             int                 `json:"id"`
	CounterpartyID int                 `json:"counterpartyId"`
	PropertyID     int                 `json:"propertyId"`
	Type           string              `json:"type"`
	TotalCost      int                 `json:"totalCost"`
	CreatedAt      string              `json:"createdAt"`
	Property       *PropertyGetDto     `json:"property"`
	Counterparty   *CounterpartyGetDto `json:"counterparty"`
}

func (d ApplicationGetDto) GetID() int { return d.ID }

type ApplicationCreateEditDto struct {
	CounterpartyID int    `json:"counterpartyId"`
	PropertyID     int    `json:"propertyId"`
	Type           string `json:"type"`
	TotalCost      int    `json:"totalCost"`
}

func (d ApplicationCreateEditDto) Validate() error {
	if d.TotalCost < 0 {
		return NewInvalidArgument("TotalCost", "", "must not be negative")
	}
	if d.TotalCost > MaxTotalCost {
		return NewInvalidArgument("TotalCost", "", "is too large")
	}
	return nil
}

func requireText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return NewInvalidArgument(field, "", "must not be empty")
	}
	if utf8.RuneCountInString(value) > maxLen {
		return NewInvalidArgument(field, "", "is too long")
	}
	return nil
}

// requireDecimal проверяет, что значение положительно и после округления
// до сотых остается меньше limit
func requireDecimal(field string, value, limit decimal.Decimal) error {
	if !value.IsPositive() {
		return NewInvalidArgument(field, value.String(), "must be positive")
	}
	if value.Round(2).GreaterThanOrEqual(limit) {
		return NewInvalidArgument(field, value.String(), "must be less than "+limit.String())
	}
	return nil
}
