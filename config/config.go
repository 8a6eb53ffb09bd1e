//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Benner.
//
// Benner is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Benner is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Benner. If not, see https://www.gnu.org/licenses/.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package config loads the job configuration from defaults, an optional YAML
// file and BENNER_* environment variables, in that order of precedence.

// Defaults for the source document and the stored object.
const (
	DefaultSourceURL = "http://echo.jpl.nasa.gov/~lance/delta_v/delta_v.rendezvous.html"
	DefaultObjectKey = "benner_deltav.csv"
	DefaultUserAgent = "Benner-HTTPFetcher/1.0"
	DefaultLogLevel  = "info"

	// EnvConfigFile names the YAML file to load when no path is passed explicitly.
	EnvConfigFile = "BENNER_CONFIG"
)

// ConfigError wraps structured error information for configuration loading.
type ConfigError struct {
	Op  string // "read_file", "parse_file", "parse_env", "validate"
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// S3Config configures the object-storage client.
type S3Config struct {
	Region    string `yaml:"region"`
	Profile   string `yaml:"profile"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	PathStyle bool   `yaml:"path_style"`
}

// Config is the complete job configuration.
type Config struct {
	SourceURL      string            `yaml:"source_url" validate:"required,url"`
	ObjectKey      string            `yaml:"object_key" validate:"required"`
	CSVUseCRLF     bool              `yaml:"csv_crlf"`
	HTTPTimeout    time.Duration     `yaml:"http_timeout" validate:"min=0"`
	HTTPHeaders    map[string]string `yaml:"http_headers"`
	UserAgent      string            `yaml:"user_agent"`
	LogLevel       string            `yaml:"log_level" validate:"oneof=debug info warn error"`
	PushgatewayURL string            `yaml:"pushgateway_url" validate:"omitempty,url"`
	S3             S3Config          `yaml:"s3"`
}

// Default returns the configuration used when nothing overrides it.
// HTTPTimeout is zero: the download waits as long as the caller's context allows.
func Default() *Config {
	return &Config{
		SourceURL: DefaultSourceURL,
		ObjectKey: DefaultObjectKey,
		UserAgent: DefaultUserAgent,
		LogLevel:  DefaultLogLevel,
	}
}

// Load builds the configuration. path may be empty, in which case the file
// named by BENNER_CONFIG is used if set. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Op: "read_file", Err: err}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Op: "parse_file", Err: fmt.Errorf("%s: %w", path, err)}
	}
	return nil
}

// loadEnv applies BENNER_* variables. lookup is os.LookupEnv outside tests.
func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if val, ok := lookup(name); ok && val != "" {
			*dst = val
		}
	}
	boolean := func(name string, dst *bool) {
		if val, ok := lookup(name); ok && val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	str("BENNER_SOURCE_URL", &c.SourceURL)
	str("BENNER_OBJECT_KEY", &c.ObjectKey)
	boolean("BENNER_CSV_CRLF", &c.CSVUseCRLF)
	str("BENNER_USER_AGENT", &c.UserAgent)
	str("BENNER_PUSHGATEWAY_URL", &c.PushgatewayURL)
	str("BENNER_S3_REGION", &c.S3.Region)
	str("BENNER_S3_PROFILE", &c.S3.Profile)
	str("BENNER_S3_ENDPOINT", &c.S3.Endpoint)
	boolean("BENNER_S3_PATH_STYLE", &c.S3.PathStyle)

	if val, ok := lookup("BENNER_LOG_LEVEL"); ok && val != "" {
		c.LogLevel = strings.ToLower(val)
	}

	if val, ok := lookup("BENNER_HTTP_TIMEOUT"); ok && val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("BENNER_HTTP_TIMEOUT: %w", err))
		} else {
			c.HTTPTimeout = d
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Op: "parse_env", Err: errors.Join(errs...)}
	}
	return nil
}
