// Package config reads the startup configuration from the environment.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "FAIRYPLAY"

// Configuration is read once at startup.
type Configuration struct {
	Variant      string `envconfig:"VARIANT" validate:"max=32"`
	StartFEN     string `envconfig:"START_FEN"`
	VariantsFile string `envconfig:"VARIANTS_FILE"`
	DataDir      string `envconfig:"DATA_DIR"`
	PromoteTo    string `envconfig:"PROMOTE_TO" default:"q" validate:"oneof=q r b n"`
	Sound        bool   `envconfig:"SOUND" default:"true"`

	Engine struct {
		Path    string   `envconfig:"PATH"`
		Args    []string `envconfig:"ARGS"`
		Hash    int      `envconfig:"HASH" default:"64" validate:"min=1,max=4096"`
		MultiPV int      `envconfig:"MULTIPV" default:"1" validate:"min=1,max=8"`
		Depth   int      `envconfig:"DEPTH" default:"18" validate:"min=1,max=60"`
	}
}

// Load reads FAIRYPLAY_* variables and validates the result.
func Load() (*Configuration, error) {
	var cfg Configuration
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Promotion returns the configured promotion letter.
func (c *Configuration) Promotion() rune {
	if c.PromoteTo == "" {
		return 'q'
	}
	return rune(c.PromoteTo[0])
}
