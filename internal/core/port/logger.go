package port

// Fields - структурированные данные для записи в лог
type Fields map[string]interface{}

// LoggerPort - контракт логирования, которым пользуются ядро и адаптеры
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)
	// WithFields возвращает логгер, который добавляет fields к каждой записи
	WithFields(fields Fields) LoggerPort
}
