// Package config loads parecer settings from a YAML file and PARECER_*
// environment variables.
package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-parecer/pkg/backup"
	"github.com/goliatone/go-parecer/pkg/draft"
	"github.com/goliatone/go-parecer/pkg/imaging"
	"github.com/goliatone/go-parecer/pkg/render"
	"github.com/goliatone/go-parecer/pkg/report"
)

// Config is the effective configuration of the CLI.
type Config struct {
	Paths   PathsConfig   `koanf:"paths" yaml:"paths"`
	Render  RenderConfig  `koanf:"render" yaml:"render"`
	Report  ReportConfig  `koanf:"report" yaml:"report"`
	Images  ImagesConfig  `koanf:"images" yaml:"images"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`
}

// PathsConfig locates the files the CLI reads and writes.
type PathsConfig struct {
	Draft  string `koanf:"draft" yaml:"draft"`
	Backup string `koanf:"backup" yaml:"backup"`
	OutDir string `koanf:"out_dir" yaml:"out_dir"`
}

// RenderConfig controls document generation.
type RenderConfig struct {
	Formats        []string `koanf:"formats" yaml:"formats"`
	DefaultCity    string   `koanf:"default_city" yaml:"default_city"`
	RequiredFields []string `koanf:"required_fields" yaml:"required_fields"`
}

// ReportConfig controls record editing.
type ReportConfig struct {
	DeselectPolicy string `koanf:"deselect_policy" yaml:"deselect_policy"`
}

// ImagesConfig controls image preparation.
type ImagesConfig struct {
	Quality      int `koanf:"quality" yaml:"quality"`
	MaxDimension int `koanf:"max_dimension" yaml:"max_dimension"`
}

// LoggingConfig selects the log level and encoder.
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Draft:  draft.DefaultPath,
			Backup: backup.DefaultFileName,
			OutDir: ".",
		},
		Render: RenderConfig{
			Formats:        []string{"docx", "pdf"},
			DefaultCity:    render.DefaultCity,
			RequiredFields: []string{string(report.FieldCAR)},
		},
		Report: ReportConfig{
			DeselectPolicy: "keep",
		},
		Images: ImagesConfig{
			Quality:      imaging.DefaultQuality,
			MaxDimension: 2000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var knownFormats = map[string]struct{}{"docx": {}, "pdf": {}, "html": {}}

// Validate checks the configuration for values the CLI cannot use.
func (c *Config) Validate() error {
	if len(c.Render.Formats) == 0 {
		return fmt.Errorf("config: render.formats must not be empty")
	}
	for _, format := range c.Render.Formats {
		if _, ok := knownFormats[strings.ToLower(strings.TrimSpace(format))]; !ok {
			return fmt.Errorf("config: render.formats: unknown format %q", format)
		}
	}
	if _, err := c.RequiredFields(); err != nil {
		return err
	}
	if _, err := c.DeselectPolicy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return fmt.Errorf("config: images.quality must be between 1 and 100, got %d", c.Images.Quality)
	}
	if c.Images.MaxDimension < 0 {
		return fmt.Errorf("config: images.max_dimension must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("config: logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

// RequiredFields resolves render.required_fields to record fields.
func (c *Config) RequiredFields() ([]report.Field, error) {
	out := make([]report.Field, 0, len(c.Render.RequiredFields))
	for _, name := range c.Render.RequiredFields {
		if strings.TrimSpace(name) == "" {
			continue
		}
		field, err := report.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("config: render.required_fields: %w", err)
		}
		out = append(out, field)
	}
	return out, nil
}

// DeselectPolicy resolves report.deselect_policy.
func (c *Config) DeselectPolicy() (report.DeselectPolicy, error) {
	return report.ParseDeselectPolicy(c.Report.DeselectPolicy)
}

// ImageOptions converts the images section for imaging.Prepare.
func (c *Config) ImageOptions() imaging.Options {
	return imaging.Options{
		Quality:      c.Images.Quality,
		MaxDimension: c.Images.MaxDimension,
	}
}

// YAML dumps the configuration in the file format Load reads.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode yaml: %w", err)
	}
	return data, nil
}
