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
	"time"

	"go.uber.org/zap"

	"github.com/aaronlmathis/benner/core"
	"github.com/aaronlmathis/benner/deltav"
	"github.com/aaronlmathis/benner/metrics"
	"github.com/aaronlmathis/benner/readers"
	"github.com/aaronlmathis/benner/storage"
)

// Package job runs one delta-v export: check the bucket, download the table,
// parse it to CSV and upload the result.
//
// Client construction, the bucket check and the upload are fatal: the error is
// logged and returned. The download and the parse are soft: the error is
// logged and the input event is returned unchanged with a nil error, and
// nothing is uploaded.

// DefaultObjectKey is the key the CSV is stored under.
const DefaultObjectKey = "benner_deltav.csv"

// Fetcher downloads the source document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// StoreFunc returns the object store for one run.
type StoreFunc func(ctx context.Context) (storage.ObjectStore, error)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	ObjectKey string
	UseCRLF   bool
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// HandlerOption is a functional option for HandlerOptions.
type HandlerOption func(*HandlerOptions)

// WithObjectKey sets the key of the uploaded CSV.
func WithObjectKey(key string) HandlerOption {
	return func(opts *HandlerOptions) {
		opts.ObjectKey = key
	}
}

// WithCRLF terminates CSV rows with \r\n.
func WithCRLF(useCRLF bool) HandlerOption {
	return func(opts *HandlerOptions) {
		opts.UseCRLF = useCRLF
	}
}

func WithLogger(logger *zap.Logger) HandlerOption {
	return func(opts *HandlerOptions) {
		opts.Logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(opts *HandlerOptions) {
		opts.Metrics = m
	}
}

// Handler runs the export for incoming events.
type Handler struct {
	newStore StoreFunc
	fetcher  Fetcher
	opts     HandlerOptions
	log      *zap.Logger
}

// NewHandler creates a Handler. newStore is called once per event.
func NewHandler(newStore StoreFunc, fetcher Fetcher, options ...HandlerOption) *Handler {
	opts := HandlerOptions{
		ObjectKey: DefaultObjectKey,
	}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{
		newStore: newStore,
		fetcher:  fetcher,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Handle runs one export for event. On success the returned event is a copy
// of event with "benner" set to the object key.
func (h *Handler) Handle(ctx context.Context, event core.Event) (core.Event, error) {
	start := time.Now()

	bucket, err := event.Bucket()
	if err != nil {
		h.log.Error("Invalid event", zap.Error(err))
		h.observeRun(metrics.OutcomeFailed, start)
		return nil, err
	}
	log := h.log.With(zap.String("bucket", bucket))

	log.Info("Getting S3")
	store, err := h.newStore(ctx)
	if err != nil {
		log.Error("Can't get an S3 client", zap.Error(err))
		h.observeRun(metrics.OutcomeFailed, start)
		return nil, err
	}

	log.Info("Heading bucket")
	if err := store.HeadBucket(ctx, bucket); err != nil {
		log.Error("Can't head bucket", zap.Error(err))
		h.observeRun(metrics.OutcomeFailed, start)
		return nil, err
	}

	log.Info("Downloading benner file")
	body, err := h.fetcher.Fetch(ctx)
	if err != nil {
		log.Error("Download of benner file failed", zap.Error(err))
		h.observeRun(metrics.OutcomeSkipped, start)
		return event, nil
	}

	log.Info("Splitting lines", zap.Int("bytes", len(body)))
	lines := readers.SplitLines(body)

	log.Info("Parsing to CSV", zap.Int("lines", len(lines)))
	data, stats, err := deltav.ParseToCSV(ctx, lines,
		deltav.WithCRLF(h.opts.UseCRLF),
		deltav.WithLogger(log),
	)
	if err != nil {
		log.Error("Parsing to CSV failed", zap.Error(err))
		h.observeRun(metrics.OutcomeSkipped, start)
		return event, nil
	}
	log.Debug("Parsed table",
		zap.Int64("rows", stats.RowsWritten),
		zap.Int64("discarded", stats.LinesDiscarded),
	)
	if h.opts.Metrics != nil {
		h.opts.Metrics.ObserveParse(stats.RowsWritten, stats.LinesDiscarded)
	}

	key := h.opts.ObjectKey
	log.Info("Putting CSV on S3", zap.String("key", key))
	if err := store.PutObject(ctx, bucket, key, data); err != nil {
		log.Error("Put object failed", zap.String("key", key), zap.Error(err))
		h.observeRun(metrics.OutcomeFailed, start)
		return nil, err
	}

	updated := event.With(core.EventKeyBenner, key)
	log.Info("Done", zap.Any("event", updated))
	h.observeRun(metrics.OutcomeUploaded, start)
	return updated, nil
}

func (h *Handler) observeRun(outcome string, start time.Time) {
	if h.opts.Metrics == nil {
		return
	}
	h.opts.Metrics.ObserveRun(outcome, time.Since(start))
}
