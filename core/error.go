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

package core

import "context"

// ErrorHandler decides what happens to a record that failed inside a pipeline.
// Returning a non-nil error stops the pipeline; returning nil continues with the next record.
type ErrorHandler interface {
	HandleError(ctx context.Context, record Record, err error) error
}

// ErrorStrategy defines how a pipeline reacts to per-record errors.
type ErrorStrategy int

const (
	// FailFast stops processing on the first error encountered.
	FailFast ErrorStrategy = iota
	// CollectErrors hands every error to the ErrorHandler, which decides
	// whether processing continues. Without a handler errors are skipped.
	CollectErrors
)

// String returns the strategy name used in log fields.
func (s ErrorStrategy) String() string {
	switch s {
	case FailFast:
		return "fail_fast"
	case CollectErrors:
		return "collect_errors"
	default:
		return "unknown"
	}
}

// ErrorHandlerFunc is a function adapter for the ErrorHandler interface.
type ErrorHandlerFunc func(ctx context.Context, record Record, err error) error

// HandleError implements the ErrorHandler interface for ErrorHandlerFunc.
func (f ErrorHandlerFunc) HandleError(ctx context.Context, record Record, err error) error {
	return f(ctx, record, err)
}
