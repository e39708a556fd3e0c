package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, ":8181", cfg.Server.Addr)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 4000.0, cfg.Finance.MonthlyBudget)
		assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
		assert.False(t, cfg.Amqp.Enabled)
	})

	t.Run("should read values from yaml file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "db:\n  host: db.internal\n  port: 6543\nfinance:\n  monthlybudget: 2500\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 6543, cfg.Database.Port)
		assert.Equal(t, 2500.0, cfg.Finance.MonthlyBudget)
		assert.Equal(t, "moneypro", cfg.Database.Name)
	})

	t.Run("should let environment override the file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db:\n  host: db.internal\n"), 0644))
		t.Setenv("MONEYPRO_DB_HOST", "db.from.env")
		t.Setenv("MONEYPRO_AMQP_ENABLED", "true")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "db.from.env", cfg.Database.Host)
		assert.True(t, cfg.Amqp.Enabled)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0644))

		// when
		_, err := Load(path)

		// then
		assert.Error(t, err)
	})
}
