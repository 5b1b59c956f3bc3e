// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings is the typed view of the config file.
type Settings struct {
	// Dir is the cache base directory. Empty means the cache default.
	Dir     string `yaml:"dir"`
	Output  string `yaml:"output" validate:"omitempty,oneof=text json yaml raw"`
	Color   bool   `yaml:"color"`
	Titles  bool   `yaml:"titles"`
	Padding int    `yaml:"padding" validate:"gte=0,lte=16"`

	Cache struct {
		// Clean is the age, in hours, past which entry files are purged at
		// startup. 0 disables it.
		Clean int `yaml:"clean" validate:"gte=0"`
	} `yaml:"cache"`

	Colors struct {
		Title string `yaml:"title" validate:"omitempty,hexcolor"`
		Even  string `yaml:"even" validate:"omitempty,hexcolor"`
		Odd   string `yaml:"odd" validate:"omitempty,hexcolor"`
	} `yaml:"colors"`

	Set struct {
		TTL int64 `yaml:"ttl"`
	} `yaml:"set"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSettings decodes and validates the config file. With no config file it
// returns zero Settings and no error.
func LoadSettings() (Settings, error) {
	var s Settings

	path, err := getConfigPath()
	if err != nil {
		if p, ok := os.LookupEnv("KVCACHE_CFG"); ok && p != "" {
			return s, err
		}
		return s, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return s, nil
}

// Validate checks field constraints.
func (s Settings) Validate() error {
	return validate.Struct(s)
}
