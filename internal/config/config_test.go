package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultEnv, cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, defaultStaticDir, cfg.StaticDir)
	assert.Contains(t, cfg.DSN, "tcp(127.0.0.1:3306)/quillspace")
	assert.Contains(t, cfg.DSN, "parseTime=True")
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
env: production
database:
  host: db.internal
  name: blog
allowed_origins:
  - example.com
  - "*.example.com"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Contains(t, cfg.DSN, "tcp(db.internal:3306)/blog")
	assert.Equal(t, []string{"example.com", "*.example.com"}, cfg.AllowedOrigins)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QS_DSN", "user:pass@tcp(remote:3306)/db")
	t.Setenv("QS_ENV", "production")
	t.Setenv("QS_JWT_SECRET", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "user:pass@tcp(remote:3306)/db", cfg.DSN)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "from-env", cfg.JWTSecret)
}
