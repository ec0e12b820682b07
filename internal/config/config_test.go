package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	want := Defaults()
	want.Driver = DriverMemory
	want.CacheTTL = 250 * time.Millisecond
	want.SeedFile = "/srv/seed.yaml"
	want.Port = 9090
	require.NoError(t, Save(want))

	_, err := os.Stat(filepath.Join(tmp, ".config", "rentapp", "config.yaml"))
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFileParsesDurations(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "driver: memory\ncache_ttl: 2s\nretention: 168h\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.CacheTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchInterval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RENTAPP_DRIVER", "postgres")
	t.Setenv("RENTAPP_POSTGRES_DSN", "postgres://localhost/rentapp")
	t.Setenv("RENTAPP_CACHE_TTL", "1s")
	t.Setenv("RENTAPP_DEV", "true")
	t.Setenv("RENTAPP_PORT", "7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://localhost/rentapp", cfg.PostgresDSN)
	assert.Equal(t, time.Second, cfg.CacheTTL)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 7000, cfg.Port)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"RENTAPP_DRIVER": "redis"}},
		{"postgres without dsn", map[string]string{"RENTAPP_DRIVER": "postgres"}},
		{"bad duration", map[string]string{"RENTAPP_RETENTION": "a month"}},
		{"bad port", map[string]string{"RENTAPP_PORT": "eighty"}},
		{"bad bool", map[string]string{"RENTAPP_DEV": "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: [sqlite"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T, c Config)
		wantErr    bool
	}{
		{key: "driver", value: "memory", check: func(t *testing.T, c Config) { assert.Equal(t, DriverMemory, c.Driver) }},
		{key: "port", value: "9000", check: func(t *testing.T, c Config) { assert.Equal(t, 9000, c.Port) }},
		{key: "dev_mode", value: "true", check: func(t *testing.T, c Config) { assert.True(t, c.DevMode) }},
		{key: "retention", value: "72h", check: func(t *testing.T, c Config) { assert.Equal(t, 72*time.Hour, c.Retention) }},
		{key: "port", value: "eighty", wantErr: true},
		{key: "cache_ttl", value: "soon", wantErr: true},
		{key: "colour", value: "blue", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Defaults()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestReadFileIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9100\n"), 0o600))
	t.Setenv("RENTAPP_PORT", "7000")

	cfg, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, loaded.Port)
}
