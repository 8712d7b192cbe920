package constants

// Точка обмена, через которую идут события о заявках
const (
	ExchangeEstate     = "estate_exchange"
	ExchangeEstateType = "direct"
)

// Имена очередей
const (
	QueueApplications = "applications"
)

// Ключи маршрутизации
const (
	RoutingKeyApplications = "applications"
)

// Режимы подтверждения публикации генератора
const (
	ProducerAcksAll  = "all"
	ProducerAcksNone = "none"
)
