package configs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "estate-agency", cfg.AppName)
	assert.Equal(t, "8080", cfg.Rest.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.False(t, cfg.Store.Seed)
	assert.True(t, cfg.Consumer.Enabled)
	assert.Equal(t, "applications", cfg.Consumer.Topic)
	assert.Equal(t, "estate-agency-consumer", cfg.Consumer.GroupID)
	assert.Equal(t, time.Second, cfg.Consumer.PollTimeout)
	assert.Equal(t, 5, cfg.Consumer.MaxDeserializeAttempts)
	assert.False(t, cfg.Consumer.AutoCommit)
	assert.Equal(t, 1, cfg.Producer.BatchSize)
	assert.Equal(t, time.Second, cfg.Producer.ProduceInterval)
	assert.Equal(t, "all", cfg.Producer.Acks)
	assert.True(t, cfg.Producer.Idempotence)
	assert.Equal(t, "debug", cfg.StdoutLogger.Level)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig(missingEnvFile(t))
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := LoadConfig(missingEnvFile(t))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("POLL_TIMEOUT_MS", "soon")
	t.Setenv("CONSUMER_ENABLED", "maybe")
	t.Setenv("PRODUCER_ACKS", "1")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Consumer.PollTimeout)
	assert.True(t, cfg.Consumer.Enabled)
	assert.Equal(t, "all", cfg.Producer.Acks)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/estate")
	t.Setenv("STORE_SEED", "true")
	t.Setenv("PRODUCE_INTERVAL_MS", "250")
	t.Setenv("PRODUCER_ACKS", "none")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Producer.ProduceInterval)
	assert.Equal(t, "none", cfg.Producer.Acks)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Rest.AllowedOrigins)
	assert.False(t, cfg.FluentBit.Enabled)
}
