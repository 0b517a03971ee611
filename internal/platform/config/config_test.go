package config

import (
	"testing"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 4, cfg.IngestWorkers)
	assert.Equal(t, 30*time.Second, cfg.IngestTimeout)
	assert.Equal(t, "30-M", cfg.IngestRateLimit)
	assert.Equal(t, domain.FirstWriteWins, cfg.AccountConflictPolicy)
	assert.Equal(t, "USD", cfg.DisplayCurrency)
	assert.False(t, cfg.AuthEnabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("INGEST_WORKERS", "9")
	t.Setenv("INGEST_TIMEOUT", "5s")
	t.Setenv("ACCOUNT_CONFLICT_POLICY", "last_write_wins")
	t.Setenv("DISPLAY_CURRENCY", "eur")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 9, cfg.IngestWorkers)
	assert.Equal(t, 5*time.Second, cfg.IngestTimeout)
	assert.Equal(t, domain.LastWriteWins, cfg.AccountConflictPolicy)
	assert.Equal(t, "EUR", cfg.DisplayCurrency)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "oracle")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DATABASE_DRIVER")
	})

	t.Run("policy", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "sqlite")
		t.Setenv("ACCOUNT_CONFLICT_POLICY", "merge")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "ACCOUNT_CONFLICT_POLICY")
	})

	t.Run("bad timeout falls back", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "sqlite")
		t.Setenv("INGEST_TIMEOUT", "soon")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.IngestTimeout)
	})
}
