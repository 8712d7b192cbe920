package rabbitmq

import (
	"fmt"

	"estate-agency/internal/core/port"
	"estate-agency/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge отдает LoggerPort библиотекам, которые логируют парами ключ-значение:
// пакетам pkg/rabbitmq и планировщику генератора (интерфейс cron.Logger совпадает по форме)
type PkgLoggerBridge struct {
	internalLogger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) *PkgLoggerBridge {
	return &PkgLoggerBridge{internalLogger: logger}
}

var _ rabbitmq_common.Logger = (*PkgLoggerBridge)(nil)

// pairs собирает Fields; ключ, который не строка, приводится через fmt,
// значение без пары пишется под ключом "extra"
func pairs(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			fields["extra"] = keysAndValues[i]
			break
		}
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Debug(msg, pairs(keysAndValues))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Info(msg, pairs(keysAndValues))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Warn(msg, pairs(keysAndValues))
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.internalLogger.Error(msg, err, pairs(keysAndValues))
}
