package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"negative timeout", func(c *Config) { c.Decode.TimeoutMS = -1 }, "invalid timeout"},
		{"negative shrink", func(c *Config) { c.Decode.Shrink = -2 }, "invalid shrink"},
		{"negative max count", func(c *Config) { c.Decode.MaxCount = -1 }, "invalid max count"},
		{"edge bounds inverted", func(c *Config) { c.Decode.MinEdge = 50; c.Decode.MaxEdge = 10 }, "invalid edge bounds"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"negative upload", func(c *Config) { c.Server.MaxUploadMB = -1 }, "invalid max upload"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := &Config{}
			c.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestDecodeConfigOptions(t *testing.T) {
	d := DecodeConfig{
		TimeoutMS:   500,
		GapSize:     2,
		Shrink:      2,
		Deviation:   10,
		Threshold:   5,
		MinEdge:     10,
		MaxEdge:     200,
		Corrections: 3,
		MaxCount:    1,
	}
	opts := d.Options()
	assert.Equal(t, 500*time.Millisecond, opts.Timeout)
	assert.Equal(t, 2, opts.GapSize)
	assert.Equal(t, 2, opts.Shrink)
	assert.Equal(t, 10, opts.Deviation)
	assert.Equal(t, 5, opts.Threshold)
	assert.Equal(t, 10, opts.MinEdge)
	assert.Equal(t, 200, opts.MaxEdge)
	assert.Equal(t, 3, opts.Corrections)
	assert.Equal(t, 1, opts.MaxCount)
}
