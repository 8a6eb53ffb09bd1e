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

package writers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/aaronlmathis/benner/core"
)

// CSVWriterError wraps CSV-specific write errors with context.
type CSVWriterError struct {
	Op  string
	Err error
}

func (e *CSVWriterError) Error() string {
	return fmt.Sprintf("csv writer %s: %v", e.Op, e.Err)
}

func (e *CSVWriterError) Unwrap() error {
	return e.Err
}

// CSVWriterStats holds CSV write statistics.
type CSVWriterStats struct {
	RecordsWritten  int64
	FlushCount      int64
	FlushDuration   time.Duration
	LastFlushTime   time.Time
	NullValueCounts map[string]int64
}

// CSVWriterOptions configures CSV output.
type CSVWriterOptions struct {
	UseCRLF   bool
	Headers   []string
	BatchSize int // records buffered before encoding, 0 buffers until Flush
}

// WriterOptionCSV is a functional option.
type WriterOptionCSV func(*CSVWriterOptions)

// WithHeaders fixes the column order. Record fields outside the list are ignored.
func WithHeaders(headers []string) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.Headers = append([]string(nil), headers...)
	}
}

func WithCSVBatchSize(size int) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.BatchSize = size
	}
}

func WithUseCRLF(useCRLF bool) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.UseCRLF = useCRLF
	}
}

// CSVWriter implements core.DataSink for CSV output with stats and batching.
//
// With explicit headers the header row is written even when no record ever
// arrives, so an empty table still yields a valid CSV document.
type CSVWriter struct {
	writer      *csv.Writer
	closer      io.Closer
	options     CSVWriterOptions
	headers     []string
	recordBuf   []core.Record
	stats       CSVWriterStats
	wroteHeader bool
	errorState  bool
	closed      bool
	mu          sync.Mutex
}

// NewCSVWriter creates a new CSV writer. w is closed by Close when it
// implements io.Closer.
func NewCSVWriter(w io.Writer, opts ...WriterOptionCSV) (*CSVWriter, error) {
	options := CSVWriterOptions{}

	for _, opt := range opts {
		opt(&options)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = options.UseCRLF

	var closer io.Closer
	if c, ok := w.(io.Closer); ok {
		closer = c
	}

	return &CSVWriter{
		writer:    cw,
		closer:    closer,
		options:   options,
		headers:   append([]string(nil), options.Headers...),
		recordBuf: make([]core.Record, 0, max(options.BatchSize, 1)),
		stats:     CSVWriterStats{NullValueCounts: make(map[string]int64)},
	}, nil
}

// Write implements the core.DataSink interface.
func (c *CSVWriter) Write(ctx context.Context, record core.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.errorState {
		return &CSVWriterError{Op: "write", Err: fmt.Errorf("writer is in error state")}
	}

	for k, v := range record {
		if v == nil {
			c.stats.NullValueCounts[k]++
		}
	}

	if len(c.headers) == 0 {
		for key := range record {
			c.headers = append(c.headers, key)
		}
		sort.Strings(c.headers)
	}
	if err := c.writeHeaderUnsafe(); err != nil {
		return err
	}

	c.recordBuf = append(c.recordBuf, record)
	c.stats.RecordsWritten++

	if c.options.BatchSize > 0 && len(c.recordBuf) >= c.options.BatchSize {
		if err := c.flushBufferUnsafe(); err != nil {
			c.errorState = true
			return &CSVWriterError{Op: "flush_batch", Err: err}
		}
	}

	return nil
}

// Flush implements the core.DataSink interface.
func (c *CSVWriter) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	if err := c.writeHeaderUnsafe(); err != nil {
		return err
	}
	if err := c.flushBufferUnsafe(); err != nil {
		return &CSVWriterError{Op: "flush", Err: err}
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return &CSVWriterError{Op: "flush_writer", Err: err}
	}
	return nil
}

// Close implements the core.DataSink interface. Closing twice is a no-op.
func (c *CSVWriter) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// writeHeaderUnsafe emits the header row once, when known (must hold mutex).
func (c *CSVWriter) writeHeaderUnsafe() error {
	if c.wroteHeader || len(c.headers) == 0 {
		return nil
	}
	if err := c.writer.Write(c.headers); err != nil {
		c.errorState = true
		return &CSVWriterError{Op: "write_header", Err: err}
	}
	c.wroteHeader = true
	return nil
}

// flushBufferUnsafe writes buffered records to CSV (must hold mutex).
func (c *CSVWriter) flushBufferUnsafe() error {
	if len(c.recordBuf) == 0 {
		return nil
	}

	start := time.Now()

	for _, record := range c.recordBuf {
		row := make([]string, len(c.headers))
		for i, key := range c.headers {
			row[i] = formatValue(record[key])
		}
		if err := c.writer.Write(row); err != nil {
			return &CSVWriterError{
				Op:  "write_row",
				Err: fmt.Errorf("failed to write CSV row: %w", err),
			}
		}
	}

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return &CSVWriterError{
			Op:  "csv_flush",
			Err: fmt.Errorf("CSV writer flush error: %w", err),
		}
	}

	c.stats.FlushCount++
	c.stats.LastFlushTime = time.Now()
	c.stats.FlushDuration += time.Since(start)
	c.recordBuf = c.recordBuf[:0]

	return nil
}

// Stats returns write statistics.
func (c *CSVWriter) Stats() CSVWriterStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	statsCopy := c.stats
	statsCopy.NullValueCounts = make(map[string]int64, len(c.stats.NullValueCounts))
	for k, v := range c.stats.NullValueCounts {
		statsCopy.NullValueCounts[k] = v
	}
	return statsCopy
}

// formatValue renders a field. Strings are written verbatim so matched text
// such as "0.0670" keeps its exact digits.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
