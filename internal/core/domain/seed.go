package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Dataset - набор сущностей для начального заполнения хранилища
type Dataset struct {
	Counterparties []Counterparty
	Properties     []Property
	Applications   []Application
}

// SeedData возвращает демонстрационные данные агентства.
// Заявка i ссылается на клиента i и объект i.
func SeedData() Dataset {
	names := []string{
		"John Smith", "Emily Johnson", "Michael Brown", "Sarah Davis", "David Wilson",
		"Olivia Miller", "James Taylor", "Sophia Anderson", "Benjamin Thomas", "Charlotte White",
	}
	passports := []string{
		"AB1234567", "AB2234567", "AB3234567", "AB4234567", "AB5234567",
		"AB6234567", "AB7234567", "AB8234567", "AB9234567", "AB1034567",
	}

	counterparties := make([]Counterparty, 0, len(names))
	for i, name := range names {
		counterparties = append(counterparties, Counterparty{
			ID:             i + 1,
			FullName:       name,
			PassportNumber: passports[i],
			PhoneNumber:    fmt.Sprintf("+1555%07d", i+1),
		})
	}

	type propertyRow struct {
		typ       PropertyType
		purpose   PropertyPurpose
		address   string
		floors    int
		area      string
		rooms     int
		ceiling   string
		floor     int
		encumbers bool
	}
	rows := []propertyRow{
		{PropertyTypeApartment, PropertyPurposeResidential, "12 Main St", 10, "54.5", 2, "2.7", 4, false},
		{PropertyTypeHouse, PropertyPurposeResidential, "45 Oak Avenue", 2, "120.0", 5, "3.0", 1, true},
		{PropertyTypeTownhouse, PropertyPurposeResidential, "88 Pine Road", 3, "98.2", 4, "2.8", 1, false},
		{PropertyTypeOffice, PropertyPurposeCommercial, "200 Business St", 15, "75.0", 3, "2.9", 7, false},
		{PropertyTypeWarehouse, PropertyPurposeCommercial, "5 Industrial Zone", 1, "350.0", 1, "5.0", 1, true},
		{PropertyTypeApartment, PropertyPurposeResidential, "99 Lakeview Blvd", 12, "43.1", 1, "2.6", 10, false},
		{PropertyTypeOffice, PropertyPurposeCommercial, "321 Market Street", 20, "110.0", 4, "3.1", 9, false},
		{PropertyTypeHouse, PropertyPurposeResidential, "71 Sunset Drive", 1, "80.0", 3, "2.9", 1, false},
		{PropertyTypeWarehouse, PropertyPurposeCommercial, "77 Logistics Park", 1, "500.0", 1, "6.0", 1, false},
		{PropertyTypeOther, PropertyPurposeOther, "Unknown Facility", 1, "65.0", 2, "2.5", 1, false},
	}

	properties := make([]Property, 0, len(rows))
	for i, r := range rows {
		properties = append(properties, Property{
			ID:              i + 1,
			CadastralNumber: fmt.Sprintf("01:01:001:%04d", i+1),
			Type:            r.typ,
			Purpose:         r.purpose,
			Address:         r.address,
			TotalFloors:     r.floors,
			TotalArea:       decimal.RequireFromString(r.area),
			RoomCount:       r.rooms,
			CeilingHeight:   decimal.RequireFromString(r.ceiling),
			Floor:           r.floor,
			HasEncumbrances: r.encumbers,
		})
	}

	type applicationRow struct {
		typ     ApplicationType
		cost    int
		created string
	}
	appRows := []applicationRow{
		{ApplicationTypePurchase, 50000, "2025-01-05"},
		{ApplicationTypeSale, 180000, "2025-02-10"},
		{ApplicationTypePurchase, 95000, "2025-03-15"},
		{ApplicationTypePurchase, 220000, "2025-04-20"},
		{ApplicationTypeSale, 300000, "2025-05-25"},
		{ApplicationTypePurchase, 70000, "2025-06-30"},
		{ApplicationTypeSale, 260000, "2025-07-05"},
		{ApplicationTypePurchase, 120000, "2025-08-10"},
		{ApplicationTypeSale, 450000, "2025-09-15"},
		{ApplicationTypePurchase, 85000, "2025-10-20"},
	}

	applications := make([]Application, 0, len(appRows))
	for i, r := range appRows {
		created, _ := time.Parse(DateLayout, r.created)
		applications = append(applications, Application{
			ID:             i + 1,
			CounterpartyID: i + 1,
			PropertyID:     i + 1,
			Type:           r.typ,
			TotalCost:      r.cost,
			CreatedAt:      created,
		})
	}

	return Dataset{
		Counterparties: counterparties,
		Properties:     properties,
		Applications:   applications,
	}
}
