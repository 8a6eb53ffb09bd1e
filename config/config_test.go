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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, NewValidator().Validate(cfg))
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, "benner_deltav.csv", cfg.ObjectKey)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.False(t, cfg.CSVUseCRLF)
}

func TestLoadEnv(t *testing.T) {
	cfg := Default()
	err := cfg.loadEnv(envMap(map[string]string{
		"BENNER_SOURCE_URL":    "https://example.com/table.html",
		"BENNER_OBJECT_KEY":    "dv.csv",
		"BENNER_CSV_CRLF":      "true",
		"BENNER_HTTP_TIMEOUT":  "30s",
		"BENNER_LOG_LEVEL":     "DEBUG",
		"BENNER_S3_REGION":     "eu-west-1",
		"BENNER_S3_ENDPOINT":   "http://localhost:9000",
		"BENNER_S3_PATH_STYLE": "1",
		"BENNER_USER_AGENT":    "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/table.html", cfg.SourceURL)
	assert.Equal(t, "dv.csv", cfg.ObjectKey)
	assert.True(t, cfg.CSVUseCRLF)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000", PathStyle: true}, cfg.S3)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent, "empty values do not override")
}

func TestLoadEnv_ParseErrors(t *testing.T) {
	cfg := Default()
	err := cfg.loadEnv(envMap(map[string]string{
		"BENNER_CSV_CRLF":     "maybe",
		"BENNER_HTTP_TIMEOUT": "soon",
	}))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "parse_env", cfgErr.Op)
	assert.Contains(t, err.Error(), "BENNER_CSV_CRLF")
	assert.Contains(t, err.Error(), "BENNER_HTTP_TIMEOUT")
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "benner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
object_key: from-file.csv
csv_crlf: true
http_timeout: 5s
http_headers:
  Accept: text/html
s3:
  region: us-west-2
  path_style: true
`), 0o600))

	t.Setenv("BENNER_OBJECT_KEY", "from-env.csv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.ObjectKey)
	assert.True(t, cfg.CSVUseCRLF)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, map[string]string{"Accept": "text/html"}, cfg.HTTPHeaders)
	assert.Equal(t, "us-west-2", cfg.S3.Region)
	assert.True(t, cfg.S3.PathStyle)
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_FileErrors(t *testing.T) {
	var cfgErr *ConfigError

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "read_file", cfgErr.Op)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("s3: [not, a, map"), 0o600))
	_, err = Load(path)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "parse_file", cfgErr.Op)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.SourceURL = "not a url"
	cfg.ObjectKey = ""
	cfg.LogLevel = "loud"
	cfg.HTTPTimeout = -time.Second
	cfg.S3.Endpoint = "::"

	err := NewValidator().Validate(cfg)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "validate", cfgErr.Op)

	msg := err.Error()
	assert.Contains(t, msg, "source_url must be a valid URL")
	assert.Contains(t, msg, "object_key is required")
	assert.Contains(t, msg, "log_level must be one of: debug info warn error")
	assert.Contains(t, msg, "http_timeout must be at least 0")
	assert.Contains(t, msg, "s3.endpoint must be a valid URL")
}
