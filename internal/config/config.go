// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	FPS        float64 `yaml:"fps"`         // 0 uses the scene rate
	AnimIndent int     `yaml:"anim_indent"` // spaces, 0 is compact
	RigIndent  int     `yaml:"rig_indent"`
	GLTFBinary bool    `yaml:"gltf_binary"` // for outputs that are neither .glb nor .gltf
}

// SceneConfig locates the scene description.
type SceneConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			FPS:        0,
			AnimIndent: 4,
			RigIndent:  0,
			GLTFBinary: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Export.FPS < 0 {
		return fmt.Errorf("%w: export.fps %v", ErrInvalid, c.Export.FPS)
	}
	if c.Export.AnimIndent < 0 || c.Export.RigIndent < 0 {
		return fmt.Errorf("%w: negative indent", ErrInvalid)
	}
	return nil
}

// SampleRate returns the configured rate, or sceneFPS when none is set.
func (c *Config) SampleRate(sceneFPS float64) float64 {
	if c.Export.FPS > 0 {
		return c.Export.FPS
	}
	return sceneFPS
}
