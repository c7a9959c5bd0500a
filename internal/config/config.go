// Package config loads the settings of the touchpath CLI.
//
// Layers, later wins:
//
//	Default() → YAML file → .env → TOUCHPATH_* environment → command-line flags
//
// Flags are applied by the CLI itself; Validate runs last.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "TOUCHPATH_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full CLI configuration.
type Config struct {
	Input              string        `yaml:"input" env:"INPUT"`
	Sheet              string        `yaml:"sheet" env:"SHEET"`
	Header             bool          `yaml:"header" env:"HEADER"`
	Methods            []string      `yaml:"methods" env:"METHODS" envSeparator:"," validate:"required,unique,dive,oneof=first_touch last_touch linear shapley markov"`
	MarkovOrder        int           `yaml:"markov_order" env:"MARKOV_ORDER" validate:"min=1,max=4"`
	Workers            int           `yaml:"workers" env:"WORKERS" validate:"min=1,max=256"`
	Proportions        bool          `yaml:"proportions" env:"PROPORTIONS"`
	ChronologicalPaths bool          `yaml:"chronological_paths" env:"CHRONOLOGICAL_PATHS"`
	Shapley            ShapleyConfig `yaml:"shapley" envPrefix:"SHAPLEY_"`
	Format             string        `yaml:"format" env:"FORMAT" validate:"oneof=ascii markdown json"`
	LogLevel           string        `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat          string        `yaml:"log_format" env:"LOG_FORMAT" validate:"oneof=text json"`
	MetricsFile        string        `yaml:"metrics_file" env:"METRICS_FILE"`
}

// ShapleyConfig tunes the Shapley model.
type ShapleyConfig struct {
	MaxChannels int   `yaml:"max_channels" env:"MAX_CHANNELS" validate:"min=1,max=20"`
	Samples     int   `yaml:"samples" env:"SAMPLES" validate:"min=0"`
	Seed        int64 `yaml:"seed" env:"SEED"`
	Inherit     bool  `yaml:"inherit" env:"INHERIT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Header:      true,
		Methods:     []string{"first_touch", "last_touch", "linear", "shapley", "markov"},
		MarkovOrder: 1,
		Workers:     1,
		Shapley: ShapleyConfig{
			MaxChannels: 10,
		},
		Format:    "ascii",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when empty), the given .env files (".env" if none, ignored when missing)
// and the environment. The result is not validated.
func Load(path string, dotenv ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return cfg, err
		}
	}
	if err := loadDotenv(dotenv); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ApplyFile overlays the YAML file at path. Unknown keys are rejected.
func (c *Config) ApplyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(c); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overlays TOUCHPATH_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}

	return nil
}

// Validate checks every field constraint and reports all violations at once,
// named by their YAML keys.
func (c Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s (got %v)", field, fe.Tag(), fe.Value()))
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
