//go:build unit

package config_test

import (
	"os"
	"testing"
	"time"

	"payment-3p/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults for the memory driver", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("STORE_DRIVER", "memory")

		cfg, err := config.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 3*time.Second, cfg.Ledger.StoreTimeout)
		assert.Equal(t, 5, cfg.Ledger.ReduceMaxAttempts)
		assert.Equal(t, 5*time.Millisecond, cfg.Ledger.RetryBackoffInitial)
		assert.Equal(t, 100*time.Millisecond, cfg.Ledger.RetryBackoffMax)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
		assert.Equal(t, "payment-3p-tokens", cfg.Dynamo.TableName)
	})

	t.Run("retry backoff is shared by issue and reduce", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("LEDGER_RETRY_BACKOFF_INITIAL", "2ms")
		t.Setenv("LEDGER_RETRY_BACKOFF_MAX", "40ms")

		cfg, err := config.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 2*time.Millisecond, cfg.Ledger.RetryBackoffInitial)
		assert.Equal(t, 40*time.Millisecond, cfg.Ledger.RetryBackoffMax)
	})

	t.Run("missing PORT fails", func(t *testing.T) {
		t.Setenv("PORT", "unused")
		require.NoError(t, os.Unsetenv("PORT"))
		t.Setenv("STORE_DRIVER", "memory")

		_, err := config.LoadConfig()
		require.Error(t, err)
	})

	t.Run("postgres driver requires credentials", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DB_USER", "")

		_, err := config.LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_USER")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "test config is valid", mutate: func(*config.Config) {}},
		{name: "unknown driver", mutate: func(c *config.Config) { c.Store.Driver = "redis" }, wantErr: "unknown STORE_DRIVER"},
		{name: "zero reduce attempts", mutate: func(c *config.Config) { c.Ledger.ReduceMaxAttempts = 0 }, wantErr: "LEDGER_REDUCE_MAX_ATTEMPTS"},
		{name: "zero issue attempts", mutate: func(c *config.Config) { c.Ledger.IssueMaxAttempts = 0 }, wantErr: "LEDGER_ISSUE_MAX_ATTEMPTS"},
		{name: "backoff max below initial", mutate: func(c *config.Config) {
			c.Ledger.RetryBackoffInitial = 50 * time.Millisecond
			c.Ledger.RetryBackoffMax = 10 * time.Millisecond
		}, wantErr: "LEDGER_RETRY_BACKOFF_MAX"},
		{name: "non-positive timeout", mutate: func(c *config.Config) { c.Ledger.StoreTimeout = 0 }, wantErr: "LEDGER_STORE_TIMEOUT"},
		{name: "dynamodb without table", mutate: func(c *config.Config) {
			c.Store.Driver = config.StoreDriverDynamoDB
			c.Dynamo.TableName = ""
		}, wantErr: "TABLE_NAME"},
		{name: "postgres with credentials", mutate: func(c *config.Config) { c.Store.Driver = config.StoreDriverPostgres }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
