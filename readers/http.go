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

package readers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// This file implements the single-shot HTTP download of the source document.
// There is no retry, pagination or content-type check: one GET, one body.

// HTTPReaderError provides structured error information for HTTP fetches.
type HTTPReaderError struct {
	Op         string // "create_request", "request", "status_check", "read_response"
	StatusCode int    // HTTP status code if applicable
	URL        string // URL being fetched
	Err        error  // Underlying error
}

func (e *HTTPReaderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("http reader %s [%d] %s: %v", e.Op, e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("http reader %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *HTTPReaderError) Unwrap() error {
	return e.Err
}

// HTTPFetcherStats holds statistics about the last fetch.
type HTTPFetcherStats struct {
	RequestCount int64
	BytesRead    int64
	ResponseTime time.Duration
	StatusCode   int
}

// HTTPFetcherOptions configures the HTTP fetcher.
type HTTPFetcherOptions struct {
	Headers      map[string]string
	Timeout      time.Duration // zero means no timeout
	UserAgent    string
	CustomClient *http.Client
}

// FetcherOptionHTTP is a functional option for HTTPFetcherOptions.
type FetcherOptionHTTP func(*HTTPFetcherOptions)

func WithHTTPHeaders(headers map[string]string) FetcherOptionHTTP {
	return func(opts *HTTPFetcherOptions) {
		if opts.Headers == nil {
			opts.Headers = make(map[string]string)
		}
		for k, v := range headers {
			opts.Headers[k] = v
		}
	}
}

func WithHTTPTimeout(timeout time.Duration) FetcherOptionHTTP {
	return func(opts *HTTPFetcherOptions) {
		opts.Timeout = timeout
	}
}

func WithHTTPUserAgent(userAgent string) FetcherOptionHTTP {
	return func(opts *HTTPFetcherOptions) {
		opts.UserAgent = userAgent
	}
}

func WithHTTPClient(client *http.Client) FetcherOptionHTTP {
	return func(opts *HTTPFetcherOptions) {
		opts.CustomClient = client
	}
}

// HTTPFetcher downloads a whole document from a fixed URL.
type HTTPFetcher struct {
	url    string
	client *http.Client
	opts   *HTTPFetcherOptions
	stats  HTTPFetcherStats
}

// NewHTTPFetcher creates a fetcher for url.
func NewHTTPFetcher(url string, options ...FetcherOptionHTTP) *HTTPFetcher {
	opts := &HTTPFetcherOptions{
		Headers:   make(map[string]string),
		UserAgent: "Benner-HTTPFetcher/1.0",
	}
	for _, option := range options {
		option(opts)
	}

	client := opts.CustomClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPFetcher{
		url:    url,
		client: client,
		opts:   opts,
	}
}

// URL returns the address the fetcher downloads.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// Fetch performs the GET and returns the full response body. Any status outside
// 2xx is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &HTTPReaderError{Op: "create_request", URL: f.url, Err: err}
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	for k, v := range f.opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &HTTPReaderError{Op: "request", URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	f.stats.RequestCount++
	f.stats.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPReaderError{
			Op:         "status_check",
			URL:        f.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPReaderError{Op: "read_response", URL: f.url, Err: err}
	}

	f.stats.ResponseTime = time.Since(start)
	f.stats.BytesRead = int64(len(data))
	return data, nil
}

// Stats returns statistics about the last fetch.
func (f *HTTPFetcher) Stats() HTTPFetcherStats {
	return f.stats
}
