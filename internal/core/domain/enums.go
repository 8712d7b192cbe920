package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// PropertyType - вид объекта недвижимости
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeHouse     PropertyType = "House"
	PropertyTypeTownhouse PropertyType = "Townhouse"
	PropertyTypeWarehouse PropertyType = "Warehouse"
	PropertyTypeOffice    PropertyType = "Office"
	PropertyTypeOther     PropertyType = "Other"
)

// PropertyTypes возвращает значения в порядке объявления
func PropertyTypes() []PropertyType {
	return []PropertyType{
		PropertyTypeApartment,
		PropertyTypeHouse,
		PropertyTypeTownhouse,
		PropertyTypeWarehouse,
		PropertyTypeOffice,
		PropertyTypeOther,
	}
}

// PropertyPurpose - назначение объекта
type PropertyPurpose string

const (
	PropertyPurposeResidential PropertyPurpose = "Residential"
	PropertyPurposeCommercial  PropertyPurpose = "Commercial"
	PropertyPurposeLand        PropertyPurpose = "Land"
	PropertyPurposeSpecial     PropertyPurpose = "Special"
	PropertyPurposeOther       PropertyPurpose = "Other"
)

func PropertyPurposes() []PropertyPurpose {
	return []PropertyPurpose{
		PropertyPurposeResidential,
		PropertyPurposeCommercial,
		PropertyPurposeLand,
		PropertyPurposeSpecial,
		PropertyPurposeOther,
	}
}

// ApplicationType - покупка или продажа
type ApplicationType string

const (
	ApplicationTypePurchase ApplicationType = "Purchase"
	ApplicationTypeSale     ApplicationType = "Sale"
)

func ApplicationTypes() []ApplicationType {
	return []ApplicationType{ApplicationTypePurchase, ApplicationTypeSale}
}

// ParseEnum ищет value среди allowed без учета регистра и возвращает
// каноническое значение. field попадает в текст ошибки.
func ParseEnum[T ~string](field, value string, allowed []T) (T, error) {
	// Caser хранит состояние, поэтому создается на каждый вызов
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(value))

	names := make([]string, 0, len(allowed))
	for _, candidate := range allowed {
		if needle != "" && fold.String(string(candidate)) == needle {
			return candidate, nil
		}
		names = append(names, string(candidate))
	}

	var zero T
	return zero, &InvalidArgumentError{Field: field, Value: value, Allowed: names}
}

func ParsePropertyType(value string) (PropertyType, error) {
	return ParseEnum("PropertyType", value, PropertyTypes())
}

func ParsePropertyPurpose(value string) (PropertyPurpose, error) {
	return ParseEnum("PropertyPurpose", value, PropertyPurposes())
}

func ParseApplicationType(value string) (ApplicationType, error) {
	return ParseEnum("ApplicationType", value, ApplicationTypes())
}
