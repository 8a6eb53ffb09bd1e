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
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/aaronlmathis/benner/core"
)

// Field names of the records produced by LineReader.
const (
	LineField       = "line"
	LineNumberField = "line_no"
)

// LineReaderError wraps structured error information for the line reader.
type LineReaderError struct {
	Op   string
	Line int // 1-based line number, 0 when not tied to a line
	Err  error
}

func (e *LineReaderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line reader %s (line %d): %v", e.Op, e.Line, e.Err)
	}
	return fmt.Sprintf("line reader %s: %v", e.Op, e.Err)
}

func (e *LineReaderError) Unwrap() error {
	return e.Err
}

// SplitLines splits data on \n, \r\n and \r boundaries. Terminators are not
// included and a trailing terminator does not produce an empty final line.
func SplitLines(data []byte) [][]byte {
	lines := make([][]byte, 0, bytes.Count(data, []byte{'\n'})+1)
	start := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			lines = append(lines, data[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, data[start:i])
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

// LineReaderOptions configures the line reader.
type LineReaderOptions struct {
	SkipLines int // leading lines dropped before any record is produced
}

// ReaderOptionLine allows functional customization of LineReader.
type ReaderOptionLine func(*LineReaderOptions)

// WithSkipLines drops the first n lines unconditionally.
func WithSkipLines(n int) ReaderOptionLine {
	return func(o *LineReaderOptions) { o.SkipLines = n }
}

// LineReaderStats holds counters for the line reader.
type LineReaderStats struct {
	LinesSkipped int64
	LinesRead    int64
}

// LineReader implements core.DataSource over pre-split lines. Each record has a
// LineField string and a LineNumberField holding the 1-based line number.
type LineReader struct {
	lines [][]byte
	pos   int
	stats LineReaderStats
	opts  LineReaderOptions
}

// NewLineReader creates a LineReader over lines.
func NewLineReader(lines [][]byte, options ...ReaderOptionLine) *LineReader {
	opts := LineReaderOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	return &LineReader{lines: lines, opts: opts}
}

// Read implements the core.DataSource interface. A line that is not valid UTF-8
// is returned as an error.
func (r *LineReader) Read(ctx context.Context) (core.Record, error) {
	select {
	case <-ctx.Done():
		return nil, &LineReaderError{Op: "read", Err: ctx.Err()}
	default:
	}

	for r.pos < r.opts.SkipLines && r.pos < len(r.lines) {
		r.pos++
		r.stats.LinesSkipped++
	}

	if r.pos >= len(r.lines) {
		return nil, io.EOF
	}

	raw := r.lines[r.pos]
	r.pos++
	if !utf8.Valid(raw) {
		return nil, &LineReaderError{Op: "decode", Line: r.pos, Err: fmt.Errorf("invalid utf-8")}
	}

	r.stats.LinesRead++
	return core.Record{
		LineField:       string(raw),
		LineNumberField: r.pos,
	}, nil
}

// Close implements the core.DataSource interface.
func (r *LineReader) Close() error {
	return nil
}

// Stats returns line reader counters.
func (r *LineReader) Stats() LineReaderStats {
	return r.stats
}
