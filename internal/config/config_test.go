package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "/", cfg.UnauthorizedPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, ":9090", cfg.HTTPAddress())
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "memory")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err = Load()
	assert.Error(t, err)
}
