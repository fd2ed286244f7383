package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/elhem/internal/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "fs", cfg.Store.Driver)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "friendly", cfg.Assistant.BotPersonality)
	assert.Equal(t, "1.0.0", cfg.Assistant.Version)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /var/lib/elhem
store:
  driver: sqlite
server:
  listen: ":8080"
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/elhem", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")

	opts := cfg.StoreOptions()
	assert.Equal(t, store.DriverSQLite, opts.Driver)
	assert.Equal(t, filepath.Join("/var/lib/elhem", "elhem.db"), opts.SQLitePath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "store: [\n"},
		{"unknown driver", "store:\n  driver: mongo\n"},
		{"postgres without dsn", "store:\n  driver: postgres\n"},
		{"s3 without bucket", "store:\n  driver: s3\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ELHEM_STORE_DRIVER", "s3")
	t.Setenv("ELHEM_S3_BUCKET", "elhem-data")
	t.Setenv("ELHEM_S3_PATH_STYLE", "true")
	t.Setenv("ELHEM_S3_ACCESS_KEY_ID", "AKID")
	t.Setenv("ELHEM_S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)

	opts := cfg.StoreOptions()
	assert.Equal(t, store.DriverS3, opts.Driver)
	assert.Equal(t, "elhem-data", opts.S3.Bucket)
	assert.True(t, opts.S3.PathStyle)
	assert.Equal(t, "AKID", opts.S3.AccessKeyID)
	assert.Equal(t, "secret", opts.S3.SecretAccessKey)
}

func TestLoad_EnvBadBool(t *testing.T) {
	t.Setenv("ELHEM_S3_PATH_STYLE", "maybe")
	_, err := Load("")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Store.Driver = "memory"
	cfg.Server.Listen = ":4000"

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.Error(t, Save(path, nil))
	cfg.Log.Level = "loud"
	assert.Error(t, Save(path, cfg))
}
