package port

// Итоги обработки входящего сообщения
const (
	OutcomeProcessed = "processed"
	OutcomeDropped   = "dropped"
	OutcomeFailed    = "failed"
)

// MetricsPort - счетчики очереди, которые обновляют адаптеры
type MetricsPort interface {
	RecordConsumed(outcome string)
	RecordPublished(success bool)
}

// NoopMetrics используется, когда метрики не нужны (тесты, генератор без экспорта)
type NoopMetrics struct{}

func (NoopMetrics) RecordConsumed(string) {}
func (NoopMetrics) RecordPublished(bool)  {}
