// Package config loads bannerkit settings from defaults, an optional YAML
// file, a .env file, the environment and command-line overrides, in that
// order of increasing precedence.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/bannerkit/internal/apperr"
)

// EnvPrefix marks the environment variables read by bannerkit.
const EnvPrefix = "BANNERKIT_"

// envMappings lists environment variables whose config path cannot be
// derived from the name.
var envMappings = map[string]string{
	"OPENAI_API_KEY":       "vision.api_key",
	"OPENAI_BASE_URL":      "vision.base_url",
	"BANNERKIT_IMAGES_DIR": "images_dir",
}

type LoadOptions struct {
	// File is an optional YAML config file. Missing files are an error.
	File string
	// EnvFile is loaded into the process environment if it exists.
	EnvFile string
	// Overrides are dotted keys set last, typically from CLI flags.
	Overrides map[string]any
}

type rawMap map[string]any

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("config: raw map provider does not support ReadBytes")
}

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

// Load builds and validates the configuration.
func Load(_ context.Context, opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if opts.File != "" {
		data, err := readYAML(opts.File)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawMap(data), nil); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", opts.File, err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Config("load %s: %v", opts.EnvFile, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set override %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, apperr.Config("decode: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints and reports the first failures as
// an ErrConfig.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return apperr.Config("%s", strings.Join(msgs, "; "))
		}
		return apperr.Config("%v", err)
	}
	return nil
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Config("read %s: %v", path, err)
	}
	out := make(map[string]any)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, apperr.Config("parse %s: %v", path, err)
	}
	return out, nil
}

// transformEnv maps BANNERKIT_SECTION_FIELD_NAME to section.field_name.
// Variables outside the prefix and the explicit mappings are ignored.
func transformEnv(key, value string) (string, any) {
	if path, ok := envMappings[key]; ok {
		return path, value
	}
	if !strings.HasPrefix(key, EnvPrefix) {
		return "", nil
	}
	rest := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, found := strings.Cut(rest, "_")
	if !found || section == "" || field == "" {
		return "", nil
	}
	return section + "." + field, value
}
