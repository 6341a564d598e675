package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	l := NewLoaderWith(viper.New())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 1, cfg.Decode.Shrink)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(50), cfg.Server.MaxUploadMB)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmtxscan.yaml")
	content := []byte(`
log_level: debug
decode:
  max_count: 2
  timeout_ms: 250
output:
  format: json
server:
  port: 9090
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	l := NewLoaderWith(viper.New())
	l.SetConfigFile(path)

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Decode.MaxCount)
	assert.Equal(t, 250, cfg.Decode.TimeoutMS)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched values keep their defaults.
	assert.Equal(t, 1, cfg.Decode.Shrink)
}

func TestLoadInvalidFileFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmtxscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o600))

	l := NewLoaderWith(viper.New())
	l.SetConfigFile(path)

	_, err := l.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
