// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/rendercast/pkg/timeline"
)

// Config represents the full configuration for a render run.
type Config struct {
	// Input/Output
	CompositionPath string `yaml:"composition"`
	OutputPath      string `yaml:"output"`

	// Pipeline
	MaxBufferSize     int `yaml:"max_buffer_size"`
	NotifierTimeoutMs int `yaml:"notifier_timeout_ms"`

	// Encoder
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		MaxBufferSize:     5,
		NotifierTimeoutMs: 5000,
		LogLevel:          "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadComposition loads a composition description from a YAML file,
// applying defaults for omitted timeline and encoding fields.
func LoadComposition(path string) (*timeline.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read composition: %w", err)
	}

	comp := &timeline.Composition{
		Timeline: timeline.TimelineConfig{
			FPS:    30,
			Width:  1280,
			Height: 720,
		},
		Encoding: timeline.EncodingConfig{
			Quality:     timeline.QualityMedium,
			FrameFormat: timeline.FormatRawRGBA,
		},
	}
	if err := yaml.Unmarshal(data, comp); err != nil {
		return nil, fmt.Errorf("parse composition: %w", err)
	}
	return comp, nil
}
