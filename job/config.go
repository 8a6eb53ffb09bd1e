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

	"github.com/aaronlmathis/benner/config"
	"github.com/aaronlmathis/benner/readers"
	"github.com/aaronlmathis/benner/storage"
)

// StoreOptions translates the S3 section of the configuration into store options.
func StoreOptions(cfg config.S3Config) []storage.StoreOptionS3 {
	var options []storage.StoreOptionS3
	if cfg.Region != "" {
		options = append(options, storage.WithS3Region(cfg.Region))
	}
	if cfg.Profile != "" {
		options = append(options, storage.WithS3Profile(cfg.Profile))
	}
	if cfg.Endpoint != "" {
		options = append(options, storage.WithS3Endpoint(cfg.Endpoint))
	}
	if cfg.PathStyle {
		options = append(options, storage.WithS3PathStyle(true))
	}
	return options
}

// NewS3StoreFunc returns a StoreFunc that builds an S3 store from cfg on each call.
func NewS3StoreFunc(cfg config.S3Config) StoreFunc {
	options := StoreOptions(cfg)
	return func(ctx context.Context) (storage.ObjectStore, error) {
		return storage.NewS3Store(ctx, options...)
	}
}

// NewHandlerFromConfig wires a Handler to S3 and an HTTP fetcher as described
// by cfg. Later options override the configuration.
func NewHandlerFromConfig(cfg *config.Config, options ...HandlerOption) *Handler {
	fetchOptions := []readers.FetcherOptionHTTP{readers.WithHTTPTimeout(cfg.HTTPTimeout)}
	if len(cfg.HTTPHeaders) > 0 {
		fetchOptions = append(fetchOptions, readers.WithHTTPHeaders(cfg.HTTPHeaders))
	}
	if cfg.UserAgent != "" {
		fetchOptions = append(fetchOptions, readers.WithHTTPUserAgent(cfg.UserAgent))
	}
	fetcher := readers.NewHTTPFetcher(cfg.SourceURL, fetchOptions...)
	options = append([]HandlerOption{
		WithObjectKey(cfg.ObjectKey),
		WithCRLF(cfg.CSVUseCRLF),
	}, options...)
	return NewHandler(NewS3StoreFunc(cfg.S3), fetcher, options...)
}
