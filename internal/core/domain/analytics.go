package domain

// TopCounterpartiesLimit - сколько клиентов попадает в каждый рейтинг
const TopCounterpartiesLimit = 5

type TopCounterpartyDto struct {
	Client           CounterpartyGetDto `json:"client"`
	ApplicationCount int                `json:"applicationCount"`
}

type TopCounterpartiesDto struct {
	TopPurchase []TopCounterpartyDto `json:"topPurchase"`
	TopSale     []TopCounterpartyDto `json:"topSale"`
}

type ClientWithMinRequestDto struct {
	Counterparty CounterpartyGetDto `json:"counterparty"`
	MinTotalCost int                `json:"minTotalCost"`
}

type PropertyTypeCountDto struct {
	PropertyType string `json:"propertyType"`
	Count        int    `json:"count"`
}
