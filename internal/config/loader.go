package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFile is read from the working directory when no file is given.
	DefaultFile = "parecer.yaml"
	// EnvPrefix marks the environment variables that override the file.
	EnvPrefix = "PARECER_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load reads configuration from path, then overrides with environment
// variables.
//
// Precedence, highest first:
//  1. PARECER_SECTION_FIELD environment variables
//  2. the YAML file
//  3. Default()
//
// An empty path reads DefaultFile if it exists. An explicit path must exist.
//
// Environment variables split on the first underscore after the prefix:
//
//	PARECER_RENDER_DEFAULT_CITY -> render.default_city
//	PARECER_PATHS_OUT_DIR       -> paths.out_dir
//	PARECER_RENDER_FORMATS=pdf,html
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	content, err := readConfigFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var loaded Config
	if err := k.Unmarshal("", &loaded); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg := applyDefaults(&loaded, k)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config: %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config: %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return content, nil
}

// envKey maps PARECER_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// listKeys take comma separated values from the environment.
var listKeys = map[string]struct{}{
	"render.formats":         {},
	"render.required_fields": {},
}

func envValue(name, value string) (string, any) {
	key := envKey(name)
	if _, ok := listKeys[key]; ok {
		return key, trimAll(strings.Split(value, ","))
	}
	return key, value
}

// applyDefaults fills every key the file and environment left unset.
// Lists count as set when their key is present, so an empty
// required_fields list disables the check.
func applyDefaults(loaded *Config, k *koanf.Koanf) *Config {
	cfg := Default()

	if loaded.Paths.Draft != "" {
		cfg.Paths.Draft = loaded.Paths.Draft
	}
	if loaded.Paths.Backup != "" {
		cfg.Paths.Backup = loaded.Paths.Backup
	}
	if loaded.Paths.OutDir != "" {
		cfg.Paths.OutDir = loaded.Paths.OutDir
	}

	if k.Exists("render.formats") {
		cfg.Render.Formats = trimAll(loaded.Render.Formats)
	}
	if loaded.Render.DefaultCity != "" {
		cfg.Render.DefaultCity = loaded.Render.DefaultCity
	}
	if k.Exists("render.required_fields") {
		cfg.Render.RequiredFields = trimAll(loaded.Render.RequiredFields)
	}

	if loaded.Report.DeselectPolicy != "" {
		cfg.Report.DeselectPolicy = loaded.Report.DeselectPolicy
	}

	if loaded.Images.Quality != 0 {
		cfg.Images.Quality = loaded.Images.Quality
	}
	if k.Exists("images.max_dimension") {
		cfg.Images.MaxDimension = loaded.Images.MaxDimension
	}

	if loaded.Logging.Level != "" {
		cfg.Logging.Level = loaded.Logging.Level
	}
	if loaded.Logging.Format != "" {
		cfg.Logging.Format = loaded.Logging.Format
	}
	return cfg
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
