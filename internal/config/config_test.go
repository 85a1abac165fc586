package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENVIRONMENT", "ADDR", "PORT", "DATABASE_URL", "APP_BASE_URL", "REG_TOKEN_HOURS", "PASSWORD_SCHEME", "SMTP_PORT", "SMTP_FROM", "MAIL_TIMEOUT", "EXPOSE_ERRORS", "SEED_DEFAULT_USERS"} {
		t.Setenv(k, "")
	}
	cfg, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Addr)
	assert.Equal(t, "file:employee_portal.sqlite", cfg.DatabaseURL)
	assert.Equal(t, "http://localhost:5173", cfg.AppBaseURL)
	assert.Equal(t, 24*time.Hour, cfg.RegTokenTTL)
	assert.Equal(t, 8, cfg.PasswordMinLength)
	assert.Equal(t, PasswordSchemePlaintext, cfg.PasswordScheme)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "no-reply@company.com", cfg.SMTP.From)
	assert.Equal(t, 15*time.Second, cfg.MailTimeout)
	assert.Equal(t, "dev", cfg.Environment)
	assert.True(t, cfg.ExposeErrors)
	assert.True(t, cfg.SeedDefaultUsers)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("REG_TOKEN_HOURS", "2")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := load(map[string]string{
		"REG_TOKEN_HOURS": "48",
		"APP_BASE_URL":    "https://portal.company.com/",
		"SMTP_HOST":       "smtp.company.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.RegTokenTTL)
	assert.Equal(t, "https://portal.company.com", cfg.AppBaseURL)
	assert.Equal(t, "smtp.company.com", cfg.SMTP.Host)
	assert.False(t, cfg.ExposeErrors)
}

func TestLoadPortShorthand(t *testing.T) {
	t.Setenv("PORT", "5050")
	t.Setenv("ADDR", "")
	cfg, err := load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":5050", cfg.Addr)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAIL_TIMEOUT", "soon")
	t.Setenv("SMTP_PORT", "abc")
	cfg, err := load(nil)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.MailTimeout)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadRejectsUnknownPasswordScheme(t *testing.T) {
	t.Setenv("PASSWORD_SCHEME", "md5")
	_, err := load(nil)
	assert.Error(t, err)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ADDR: \":9090\"\nSEED_DEFAULT_USERS: \"false\"\n"), 0o600))
	t.Setenv("ADDR", "")
	t.Setenv("SEED_DEFAULT_USERS", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.SeedDefaultUsers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
