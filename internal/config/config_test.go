package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9000
  base_url: https://newsletter.ignite.com
database:
  url: postgres://localhost/newsletter
email:
  provider: ses
  from_email: digest@ignite.com
  from_name: Ignite Digest
  ses:
    region: us-west-2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	assert.Equal(t, "https://newsletter.ignite.com", cfg.Server.BaseURL)
	assert.Equal(t, "postgres://localhost/newsletter", cfg.Database.URL)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "us-west-2", cfg.Email.SES.Region)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  url: postgres://localhost/from_file
`)

	t.Setenv("DATABASE_URL", "postgres://localhost/from_env")
	t.Setenv("PORT", "7070")
	t.Setenv("EMAIL_PROVIDER", "http")
	t.Setenv("MAIL_API_BASE_URL", "http://localhost:9999")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/from_env", cfg.Database.URL)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Email.Provider)
	assert.Equal(t, "http://localhost:9999", cfg.Email.HTTP.BaseURL)
}

func TestEnvInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
