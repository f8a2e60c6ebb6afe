package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threeprimes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Witnesses, cfg.Witnesses)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "memory", cfg.Jobs.Store)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, `
witnesses: 40
output: triple.txt
log:
  level: debug
  format: json
search:
  timeout: 5s
jobs:
  store: redis
  ttl: 2m
redis:
  addr: cache:6379
  db: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Witnesses)
	assert.Equal(t, "triple.txt", cfg.Output)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Jobs.TTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	// untouched keys keep defaults
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "witnesses: 40\n")
	t.Setenv("THREEPRIMES_WITNESSES", "25")
	t.Setenv("THREEPRIMES_HTTP_ADDR", ":9090")
	t.Setenv("THREEPRIMES_SEARCH_TIMEOUT", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Witnesses)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.Search.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero witnesses": "witnesses: 0\n",
		"too many":       "witnesses: 1000\n",
		"bad level":      "log:\n  level: loud\n",
		"bad store":      "jobs:\n  store: disk\n",
		"redis no addr":  "jobs:\n  store: redis\nredis:\n  addr: \"\"\n",
		"bad yaml":       "witnesses: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_DocumentedContract(t *testing.T) {
	cfg := Default()
	cfg.Redis.Addr = ""
	cfg.Search.Timeout = 0
	cfg.Jobs.TTL = 0
	cfg.Jobs.Timeout = 0
	require.NoError(t, cfg.Validate(), "redis is ignored with the memory store and zero durations disable limits")
	assert.False(t, cfg.Redis.Enabled)

	cfg.Jobs.Store = "redis"
	assert.Error(t, cfg.Validate())
	assert.True(t, cfg.Redis.Enabled)

	cfg.Search.Timeout = -time.Second
	cfg.Jobs.Store = "memory"
	assert.Error(t, cfg.Validate())
}
