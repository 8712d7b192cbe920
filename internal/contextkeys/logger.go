package contextkeys

import (
	"context"

	"estate-agency/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger помещает логгер в контекст
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext извлекает логгер из контекста.
// Если логгера нет, возвращается логгер, который ничего не пишет.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Info(string, port.Fields)                 {}
func (noopLogger) Warn(string, port.Fields)                 {}
func (noopLogger) Error(string, error, port.Fields)         {}
func (noopLogger) Debug(string, port.Fields)                {}
func (n noopLogger) WithFields(port.Fields) port.LoggerPort { return n }
