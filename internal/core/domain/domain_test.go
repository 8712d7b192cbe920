package domain

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnum_CaseInsensitive(t *testing.T) {
	got, err := ParseApplicationType("sAlE")
	require.NoError(t, err)
	assert.Equal(t, ApplicationTypeSale, got)

	pt, err := ParsePropertyType(" townhouse ")
	require.NoError(t, err)
	assert.Equal(t, PropertyTypeTownhouse, pt)

	purpose, err := ParsePropertyPurpose("COMMERCIAL")
	require.NoError(t, err)
	assert.Equal(t, PropertyPurposeCommercial, purpose)
}

func TestParseEnum_RejectsUnknownName(t *testing.T) {
	_, err := ParseApplicationType("Lease")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "Invalid ApplicationType 'Lease'. Allowed values: Purchase, Sale", err.Error())

	var invalid *InvalidArgumentError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "ApplicationType", invalid.Field)
	assert.Equal(t, []string{"Purchase", "Sale"}, invalid.Allowed)

	_, err = ParsePropertyType("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNotFoundError(t *testing.T) {
	err := error(NewNotFound(EntityCounterparty, 42))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Counterparty with Id 42 does not exist.", err.Error())
}

func TestTransportFailureWraps(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewTransportFailure(cause)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.ErrorIs(t, err, cause)
}

func TestCounterpartyValidate(t *testing.T) {
	valid := CounterpartyCreateEditDto{FullName: "Ann Lee", PassportNumber: "AB123", PhoneNumber: "+15550000001"}
	assert.NoError(t, valid.Validate())

	noName := valid
	noName.FullName = "  "
	assert.ErrorIs(t, noName.Validate(), ErrInvalidArgument)

	badPhone := valid
	badPhone.PhoneNumber = "call me"
	assert.ErrorIs(t, badPhone.Validate(), ErrInvalidArgument)

	longPassport := valid
	longPassport.PassportNumber = "123456789012345678901"
	assert.ErrorIs(t, longPassport.Validate(), ErrInvalidArgument)
}

func TestPropertyValidate(t *testing.T) {
	valid := PropertyCreateEditDto{
		CadastralNumber: "01:01:001:0099",
		Type:            "Apartment",
		Purpose:         "Residential",
		Address:         "1 Test St",
		TotalFloors:     5,
		TotalArea:       decimal.RequireFromString("40.25"),
		RoomCount:       0,
		CeilingHeight:   decimal.RequireFromString("2.7"),
		Floor:           1,
	}
	assert.NoError(t, valid.Validate())

	zeroFloor := valid
	zeroFloor.Floor = 0
	assert.ErrorIs(t, zeroFloor.Validate(), ErrInvalidArgument)

	noArea := valid
	noArea.TotalArea = decimal.Zero
	assert.ErrorIs(t, noArea.Validate(), ErrInvalidArgument)
}

// Границы полей совпадают с шириной колонок: иначе postgres вернет ошибку хранилища вместо 400
func TestCounterpartyValidate_PhoneFitsColumn(t *testing.T) {
	dto := CounterpartyCreateEditDto{FullName: "A", PassportNumber: "1"}

	dto.PhoneNumber = "+1" + strings.Repeat("2", 18)
	require.Len(t, dto.PhoneNumber, MaxPhoneLength)
	assert.NoError(t, dto.Validate())

	dto.PhoneNumber = "+1" + strings.Repeat("2", 19)
	err := dto.Validate()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "PhoneNumber")

	dto.PhoneNumber = strings.Repeat("2", 21)
	assert.ErrorIs(t, dto.Validate(), ErrInvalidArgument)

	dto.PhoneNumber = "  " + strings.Repeat("2", 20)
	assert.ErrorIs(t, dto.Validate(), ErrInvalidArgument)
}

func TestPropertyValidate_DecimalsFitColumns(t *testing.T) {
	valid := PropertyCreateEditDto{
		CadastralNumber: "1",
		Address:         "a",
		TotalFloors:     1,
		TotalArea:       decimal.RequireFromString("99999999.99"),
		CeilingHeight:   decimal.RequireFromString("999.99"),
		Floor:           1,
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		field string
		edit  func(*PropertyCreateEditDto)
	}{
		{"TotalArea", func(d *PropertyCreateEditDto) { d.TotalArea = decimal.RequireFromString("100000000") }},
		{"TotalArea", func(d *PropertyCreateEditDto) { d.TotalArea = decimal.RequireFromString("99999999.996") }},
		{"CeilingHeight", func(d *PropertyCreateEditDto) { d.CeilingHeight = decimal.RequireFromString("1000") }},
		{"CeilingHeight", func(d *PropertyCreateEditDto) { d.CeilingHeight = decimal.RequireFromString("999.995") }},
	}
	for _, tc := range cases {
		dto := valid
		tc.edit(&dto)
		err := dto.Validate()
		var invalid *InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, tc.field, invalid.Field)
	}
}

func TestApplicationValidate_TotalCostFitsInteger(t *testing.T) {
	dto := ApplicationCreateEditDto{CounterpartyID: 1, PropertyID: 1, Type: "Sale", TotalCost: math.MaxInt32}
	assert.NoError(t, dto.Validate())

	dto.TotalCost = math.MaxInt32 + 1
	err := dto.Validate()
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "TotalCost", invalid.Field)

	dto.TotalCost = -1
	assert.ErrorIs(t, dto.Validate(), ErrInvalidArgument)
}

func TestSeedData_IsConsistent(t *testing.T) {
	data := SeedData()
	require.Len(t, data.Counterparties, 10)
	require.Len(t, data.Properties, 10)
	require.Len(t, data.Applications, 10)

	assert.Equal(t, "+15550000010", data.Counterparties[9].PhoneNumber)
	assert.Equal(t, "01:01:001:0010", data.Properties[9].CadastralNumber)
	assert.Equal(t, "2025-10-20", data.Applications[9].CreatedAt.Format(DateLayout))

	for _, c := range data.Counterparties {
		dto := CounterpartyCreateEditDto{FullName: c.FullName, PassportNumber: c.PassportNumber, PhoneNumber: c.PhoneNumber}
		assert.NoError(t, dto.Validate(), c.FullName)
	}
}
