package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursancew/godmtx/dmtx"
)

// Config represents the complete configuration for the dmtxscan application.
// It includes settings for all commands (scan, pdf, serve) and supports
// loading from configuration files, environment variables, and command-line
// flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Decoder configuration forwarded to libdmtx
	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// DecodeConfig contains the libdmtx decoder settings.
type DecodeConfig struct {
	TimeoutMS   int `mapstructure:"timeout_ms" yaml:"timeout_ms" json:"timeout_ms"`
	GapSize     int `mapstructure:"gap_size" yaml:"gap_size" json:"gap_size"`
	Shrink      int `mapstructure:"shrink" yaml:"shrink" json:"shrink"`
	SymbolSize  int `mapstructure:"symbol_size" yaml:"symbol_size" json:"symbol_size"`
	Deviation   int `mapstructure:"deviation" yaml:"deviation" json:"deviation"`
	Threshold   int `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	MinEdge     int `mapstructure:"min_edge" yaml:"min_edge" json:"min_edge"`
	MaxEdge     int `mapstructure:"max_edge" yaml:"max_edge" json:"max_edge"`
	Corrections int `mapstructure:"corrections" yaml:"corrections" json:"corrections"`
	MaxCount    int `mapstructure:"max_count" yaml:"max_count" json:"max_count"`
}

// Options converts the decoder settings into dmtx.Options.
func (d DecodeConfig) Options() dmtx.Options {
	return dmtx.Options{
		Timeout:     time.Duration(d.TimeoutMS) * time.Millisecond,
		GapSize:     d.GapSize,
		Shrink:      d.Shrink,
		SymbolSize:  d.SymbolSize,
		Deviation:   d.Deviation,
		Threshold:   d.Threshold,
		MinEdge:     d.MinEdge,
		MaxEdge:     d.MaxEdge,
		Corrections: d.Corrections,
		MaxCount:    d.MaxCount,
	}
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// ValidFormats lists the accepted output formats.
var ValidFormats = []string{"text", "json", "csv", "yaml"}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.Output.Format != "" {
		valid := false
		for _, f := range ValidFormats {
			if c.Output.Format == f {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)",
				c.Output.Format, strings.Join(ValidFormats, ", "))
		}
	}

	if c.Decode.TimeoutMS < 0 {
		return fmt.Errorf("invalid timeout: %d ms (must not be negative)", c.Decode.TimeoutMS)
	}
	if c.Decode.Shrink < 0 {
		return fmt.Errorf("invalid shrink factor: %d (must not be negative)", c.Decode.Shrink)
	}
	if c.Decode.MaxCount < 0 {
		return fmt.Errorf("invalid max count: %d (must not be negative)", c.Decode.MaxCount)
	}
	if c.Decode.MinEdge > 0 && c.Decode.MaxEdge > 0 && c.Decode.MinEdge > c.Decode.MaxEdge {
		return fmt.Errorf("invalid edge bounds: min %d exceeds max %d", c.Decode.MinEdge, c.Decode.MaxEdge)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("invalid max upload size: %d MB", c.Server.MaxUploadMB)
	}
	return nil
}
