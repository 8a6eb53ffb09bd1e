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

package job

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aaronlmathis/benner/config"
	"github.com/aaronlmathis/benner/readers"
)

func TestStoreOptions(t *testing.T) {
	assert.Empty(t, StoreOptions(config.S3Config{}))

	options := StoreOptions(config.S3Config{
		Region:    "us-west-2",
		Profile:   "dev",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})
	assert.Len(t, options, 4)
}

func TestNewHandlerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ObjectKey = "exports/deltav.csv"
	cfg.CSVUseCRLF = true
	cfg.HTTPTimeout = 30 * time.Second

	h := NewHandlerFromConfig(cfg, WithLogger(zap.NewNop()))
	assert.Equal(t, "exports/deltav.csv", h.opts.ObjectKey)
	assert.True(t, h.opts.UseCRLF)
	require.NotNil(t, h.newStore)

	fetcher, ok := h.fetcher.(*readers.HTTPFetcher)
	require.True(t, ok)
	assert.Equal(t, config.DefaultSourceURL, fetcher.URL())
}

func TestNewHandlerFromConfig_OptionsOverride(t *testing.T) {
	h := NewHandlerFromConfig(config.Default(), WithObjectKey("override.csv"))
	assert.Equal(t, "override.csv", h.opts.ObjectKey)
}

func TestNewHandlerFromConfig_FetchSendsConfiguredHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(table))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.SourceURL = server.URL
	cfg.HTTPHeaders = map[string]string{"Accept": "text/html", "Connection": "close"}
	cfg.UserAgent = "benner-test/1.0"

	h := NewHandlerFromConfig(cfg)
	body, err := h.fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, table, string(body))
	assert.Equal(t, "text/html", got.Get("Accept"))
	assert.Equal(t, "benner-test/1.0", got.Get("User-Agent"))
}
