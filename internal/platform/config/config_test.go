package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv deja el entorno de config vacío durante el test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_NAME", "PORT", "DB_DRIVER", "DB_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"REDIS_CHANNEL", "LOCK_TTL", "NOTIFY_WEBHOOK_URL", "LOG_LEVEL", "LOG_FORMAT", "TX_TIMEOUT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromEnv_DSNImpliesPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://u:p@localhost/shelter")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "shelter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
db:
  driver: sqlite
tx_timeout: 2s
redis:
  addr: localhost:6379
  lock_ttl: 3s
log:
  level: debug
`), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "shelter.db", cfg.DB.DSN)
	assert.Equal(t, 2*time.Second, cfg.TxTimeout)
	assert.Equal(t, 3*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "mongo")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "unknown db driver")

	t.Setenv("DB_DRIVER", "postgres")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "dsn is required")

	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("TX_TIMEOUT", "soon")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "TX_TIMEOUT")
}
