package logger_adapter

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"estate-agency/internal/core/port"

	"github.com/lmittmann/tint"
)

// SlogAdapter пишет в stdout через slog
type SlogAdapter struct {
	logger *slog.Logger
}

// SlogConfig - настройки SlogAdapter
type SlogConfig struct {
	Writer    io.Writer // по умолчанию os.Stdout
	Level     slog.Leveler
	AddSource bool
	IsJSON    bool
	UseColor  bool // цветной вывод через tint
}

// NewSlogAdapter создает адаптер. Формат выбирается в порядке JSON, tint, текст.
func NewSlogAdapter(cfg SlogConfig) port.LoggerPort {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}

	var handler slog.Handler
	switch {
	case cfg.IsJSON:
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	case cfg.UseColor:
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}

	return &SlogAdapter{logger: slog.New(handler)}
}

// ParseLevel переводит строку из конфигурации в slog.Level.
// Второе значение false, если строка не распознана (тогда уровень info).
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// attrs сортирует ключи, чтобы порядок полей в строке лога был стабильным
func attrs(fields port.Fields) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}

func (a *SlogAdapter) Info(msg string, fields port.Fields) {
	a.logger.Info(msg, attrs(fields)...)
}

func (a *SlogAdapter) Warn(msg string, fields port.Fields) {
	a.logger.Warn(msg, attrs(fields)...)
}

func (a *SlogAdapter) Error(msg string, err error, fields port.Fields) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	a.logger.Error(msg, args...)
}

func (a *SlogAdapter) Debug(msg string, fields port.Fields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *SlogAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &SlogAdapter{logger: a.logger.With(attrs(fields)...)}
}
