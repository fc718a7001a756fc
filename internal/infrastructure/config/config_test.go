package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"FNW_APP_NAME":              os.Getenv("FNW_APP_NAME"),
		"FNW_APP_ENV":               os.Getenv("FNW_APP_ENV"),
		"FNW_APP_PORT":              os.Getenv("FNW_APP_PORT"),
		"FNW_DATABASE_HOST":         os.Getenv("FNW_DATABASE_HOST"),
		"FNW_DATABASE_PORT":         os.Getenv("FNW_DATABASE_PORT"),
		"FNW_DATABASE_USER":         os.Getenv("FNW_DATABASE_USER"),
		"FNW_DATABASE_PASSWORD":     os.Getenv("FNW_DATABASE_PASSWORD"),
		"FNW_DATABASE_DBNAME":       os.Getenv("FNW_DATABASE_DBNAME"),
		"FNW_DATABASE_SSLMODE":      os.Getenv("FNW_DATABASE_SSLMODE"),
		"FNW_LOG_LEVEL":             os.Getenv("FNW_LOG_LEVEL"),
		"FNW_ALLOCATOR_MAX_RETRIES": os.Getenv("FNW_ALLOCATOR_MAX_RETRIES"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fluffnwoof-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "fluffnwoof", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 3, cfg.Allocator.MaxRetries)
	})

	t.Run("loads values from environment variables with FNW prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("FNW_APP_NAME", "test-app")
		os.Setenv("FNW_APP_PORT", "9000")
		os.Setenv("FNW_DATABASE_HOST", "testdb.local")
		os.Setenv("FNW_DATABASE_PORT", "5433")
		os.Setenv("FNW_DATABASE_PASSWORD", "testpass")
		os.Setenv("FNW_LOG_LEVEL", "debug")
		os.Setenv("FNW_ALLOCATOR_MAX_RETRIES", "5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 5, cfg.Allocator.MaxRetries)
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("FNW_APP_ENV", "production")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("FNW_DATABASE_PASSWORD", "secret")
		_, err = Load()
		assert.Error(t, err, "sslmode disable must be rejected")

		os.Setenv("FNW_DATABASE_SSLMODE", "require")
		_, err = Load()
		assert.NoError(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "vet",
		Password: "p@ss/word",
		DBName:   "clinic",
		SSLMode:  "require",
	}

	dsn := d.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.local:5433")
	assert.Contains(t, dsn, "/clinic")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word", "password must be escaped")
}
