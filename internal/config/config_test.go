package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
app:
  name: "zippyhand-api"
database:
  path: "data/test.db"
admin:
  username: "admin"
  password: "s3cret"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Admin.SessionTTLHours)
	assert.Equal(t, float64(1), cfg.Booking.RateLimitRPS)
	assert.Equal(t, 5, cfg.Booking.RateLimitBurst)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_ADMIN_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, `
database:
  path: "data/test.db"
admin:
  username: "admin"
  password: "${TEST_ADMIN_PASSWORD}"
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Admin.Password)
}

func TestLoad_MissingDatabasePath(t *testing.T) {
	_, err := Load(writeConfig(t, `
admin:
  username: "admin"
  password: "s3cret"
`))
	assert.Error(t, err)
}

func TestLoad_MissingAdminCredentials(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  path: "data/test.db"
`))
	assert.Error(t, err)
}

func TestLoad_PlaceholderPassword(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  path: "data/test.db"
admin:
  username: "admin"
  password: "CHANGE_ME"
`))
	assert.Error(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("does/not/exist.yaml")
	assert.Error(t, err)
}
