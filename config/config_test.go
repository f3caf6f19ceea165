package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "forkful", cfg.DBName)
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "test.db")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "test.db", cfg.DBName)
	assert.Equal(t, "9000", cfg.ServerPort)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret\n"), 0o644))
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestValidateConfigRejectsBadDriver(t *testing.T) {
	err := config.ValidateConfig(&config.Config{DBDriver: "mysql", DBName: "forkful"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestValidateConfigProductionRequirements(t *testing.T) {
	t.Setenv("ENV", "production")

	err := config.ValidateConfig(&config.Config{DBDriver: "postgres", DBName: "forkful"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	err = config.ValidateConfig(&config.Config{
		DBDriver:   "postgres",
		DBName:     "forkful",
		DBPassword: "secret",
		JWTSecret:  "secret",
	})
	assert.NoError(t, err)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, config.Development, config.GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, config.Production, config.GetEnvironment())
	assert.True(t, config.IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, config.Test, config.GetEnvironment())
}
