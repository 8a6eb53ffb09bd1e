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

package deltav

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/aaronlmathis/benner"
	"github.com/aaronlmathis/benner/core"
	"github.com/aaronlmathis/benner/filter"
	"github.com/aaronlmathis/benner/readers"
	"github.com/aaronlmathis/benner/transform"
	"github.com/aaronlmathis/benner/writers"
)

// Package deltav parses the Benner delta-v rendezvous table into CSV.
//
// The table is fixed-width text: three header lines, then one line per body
// with rank, percentile, an optional "(number) name", a two-part designation
// and five decimal columns. Lines that do not fit that shape are dropped.

// HeaderLines is the number of leading lines that are never parsed.
const HeaderLines = 3

// Fields are the CSV columns, in output order.
var Fields = []string{"pdes", "dv", "H", "a", "e", "i"}

// RowPattern matches one data line from its start. Named groups: rank,
// percentile, name, pdes1, pdes2, deltav, h, a, e, i.
var RowPattern = regexp.MustCompile(
	`^\s*(?P<rank>\d+)` +
		`\s+(?P<percentile>\d+\.\d+)` +
		`\s+(?P<name>\(\d+\)(\s+[-\w ]+)?)?` +
		`\s+(?P<pdes1>\d+)` +
		`\s+(?P<pdes2>[-\w]+)` +
		`\s+(?P<deltav>\d+\.\d+)` +
		`\s+(?P<h>\d+\.\d+)` +
		`\s+(?P<a>\d+\.\d+)` +
		`\s+(?P<e>\d+\.\d+)` +
		`\s+(?P<i>\d+\.\d+)`)

// ParseStats reports what a parse did with the lines after the header.
type ParseStats struct {
	LinesRead      int64 // lines after the header
	RowsWritten    int64 // CSV data rows
	LinesDiscarded int64 // lines that did not match RowPattern
}

// csvBatchSize is the number of rows buffered before they are encoded.
const csvBatchSize = 512

// Options configures ParseToCSV.
type Options struct {
	UseCRLF bool
	Logger  *zap.Logger
}

// Option is a functional option for ParseToCSV.
type Option func(*Options)

// WithCRLF terminates CSV rows with \r\n instead of \n.
func WithCRLF(useCRLF bool) Option {
	return func(o *Options) { o.UseCRLF = useCRLF }
}

// WithLogger logs discarded and rejected lines at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// ParseToCSV converts the lines of a downloaded table into CSV bytes with a
// header row of Fields. The first HeaderLines lines are skipped. Values are the
// matched text, unchanged. A line that is not valid UTF-8 fails the whole parse
// and no bytes are returned.
func ParseToCSV(ctx context.Context, lines [][]byte, options ...Option) ([]byte, ParseStats, error) {
	opts := Options{}
	for _, opt := range options {
		opt(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var buf bytes.Buffer
	sink, err := writers.NewCSVWriter(&buf,
		writers.WithHeaders(Fields),
		writers.WithUseCRLF(opts.UseCRLF),
		writers.WithCSVBatchSize(csvBatchSize),
	)
	if err != nil {
		return nil, ParseStats{}, err
	}

	match := filter.And(
		filter.NotNull(readers.LineField),
		filter.MatchesRegexp(readers.LineField, RowPattern),
	)
	strategy := core.CollectErrors

	pipeline, err := benner.NewPipeline().
		From(readers.NewLineReader(lines, readers.WithSkipLines(HeaderLines))).
		Where(func(ctx context.Context, record core.Record) (bool, error) {
			include, err := match.ShouldInclude(ctx, record)
			if err == nil && !include {
				lineNo, _ := record[readers.LineNumberField].(int)
				logger.Debug("Discarding line", zap.Int("line_no", lineNo))
			}
			return include, err
		}).
		Transform(transform.ExtractNamed(readers.LineField, RowPattern)).
		Transform(transform.Join("pdes", " ", "pdes1", "pdes2")).
		Transform(transform.TrimSpace("pdes")).
		Transform(transform.Rename(map[string]string{"deltav": "dv", "h": "H"})).
		Transform(transform.Select(Fields...)).
		To(sink).
		WithErrorStrategy(strategy).
		WithErrorHandler(core.ErrorHandlerFunc(rejectTable(logger))).
		Build()
	if err != nil {
		return nil, ParseStats{}, err
	}

	logger.Debug("Parsing table",
		zap.Int("lines", len(lines)),
		zap.Stringer("strategy", strategy),
	)
	pstats, err := pipeline.Execute(ctx)
	stats := ParseStats{
		LinesRead:      pstats.RecordsRead,
		RowsWritten:    pstats.RecordsWritten,
		LinesDiscarded: pstats.RecordsDropped,
	}
	if err != nil {
		return nil, stats, fmt.Errorf("parse delta-v table: %w", err)
	}
	return buf.Bytes(), stats, nil
}

// rejectTable logs a record error and stops the parse.
func rejectTable(logger *zap.Logger) func(context.Context, core.Record, error) error {
	return func(ctx context.Context, record core.Record, err error) error {
		logger.Debug("Rejecting table", zap.Error(err))
		return err
	}
}
