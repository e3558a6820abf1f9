// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// TemplatePaths are files or directories of template definitions. The
	// Go handlers they reference must be compiled in.
	TemplatePaths []string `yaml:"template_paths" validate:"required,min=1,dive,required"`
	ProjectsDir   string   `yaml:"projects_dir" validate:"required"`

	LogFormat string `yaml:"log_format" validate:"oneof=text json"`
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// ConverterCacheSize bounds the converter lookup cache. 0 uses the
	// resolver's default.
	ConverterCacheSize int `yaml:"converter_cache_size" validate:"gte=0"`
	// ManagedBuild is the managed-build setting of new configurations.
	ManagedBuild bool `yaml:"managed_build"`
}

// DefaultConfig returns the settings used when neither a config file nor a
// flag says otherwise.
func DefaultConfig() Config {
	return Config{
		TemplatePaths: []string{"modules"},
		ProjectsDir:   "projects",
		LogFormat:     "text",
		LogLevel:      "info",
		ManagedBuild:  true,
	}
}

// NewConfig validates cfg and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadConfigFile overlays the YAML file at path onto base. A missing file
// leaves base unchanged. Unknown keys are rejected.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("read config file: %w", err)
	}

	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
