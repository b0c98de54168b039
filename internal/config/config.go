// Package config provides unified configuration loading for the
// extractor. Supports YAML files, environment variables, and
// programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for an extraction run.
type Config struct {
	Rasterizer RasterizerConfig `yaml:"rasterizer"`
	OCR        OCRConfig        `yaml:"ocr"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Debug      DebugConfig      `yaml:"debug"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RasterizerConfig holds PDF rasterization settings.
type RasterizerConfig struct {
	// DPI is the render resolution. 300 works for clean scans; escalate
	// to 400-600 for poor-quality source material.
	DPI int `yaml:"dpi"`
}

// OCRConfig holds recognition engine settings.
type OCRConfig struct {
	Languages []string `yaml:"languages"`
	// TessdataPrefix optionally points Tesseract at trained data.
	TessdataPrefix string `yaml:"tessdata_prefix"`
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	// Workers caps concurrent page recognitions. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// MinImageWidth is the upscale threshold for the preprocessor.
	MinImageWidth int `yaml:"min_image_width"`
}

// NormalizerConfig holds text cleanup settings. The correction tables
// are empirically tuned and therefore configuration, not code.
type NormalizerConfig struct {
	// WordCorrections maps misrecognized label words to their fixes
	// (e.g. "Nanre" -> "Name"). Empty means use the built-in table.
	WordCorrections map[string]string `yaml:"word_corrections"`
}

// DebugConfig holds debug bundle settings.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rasterizer: RasterizerConfig{DPI: 300},
		OCR:        OCRConfig{Languages: []string{"eng"}},
		Pipeline:   PipelineConfig{Workers: 0, MinImageWidth: 1500},
		Debug:      DebugConfig{Enabled: true, Dir: "ocr_debug_output"},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads configuration from the given YAML file, falling back to
// defaults for anything unset, then applies environment overrides.
// An empty path loads defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides maps ROLLSCAN_* environment variables onto the
// config. Environment wins over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ROLLSCAN_DPI"); v != "" {
		if dpi, err := strconv.Atoi(v); err == nil {
			c.Rasterizer.DPI = dpi
		}
	}
	if v := os.Getenv("ROLLSCAN_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			c.Pipeline.Workers = w
		}
	}
	if v := os.Getenv("ROLLSCAN_LANGUAGES"); v != "" {
		c.OCR.Languages = strings.Split(v, ",")
	}
	if v := os.Getenv("ROLLSCAN_DEBUG_DIR"); v != "" {
		c.Debug.Dir = v
		c.Debug.Enabled = true
	}
	if v := os.Getenv("ROLLSCAN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TESSDATA_PREFIX"); v != "" && c.OCR.TessdataPrefix == "" {
		c.OCR.TessdataPrefix = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Rasterizer.DPI < 72 || c.Rasterizer.DPI > 1200 {
		return fmt.Errorf("rasterizer dpi must be between 72 and 1200, got %d", c.Rasterizer.DPI)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline workers must not be negative, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.MinImageWidth < 0 {
		return fmt.Errorf("min image width must not be negative, got %d", c.Pipeline.MinImageWidth)
	}
	if c.Debug.Enabled && strings.TrimSpace(c.Debug.Dir) == "" {
		return fmt.Errorf("debug dir must be set when debug output is enabled")
	}
	return nil
}
