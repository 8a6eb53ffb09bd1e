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

package filter

import (
	"context"
	"regexp"

	"github.com/aaronlmathis/benner/core"
)

// Package filter provides composable record filters for pipelines.
// All functions return core.Filter implementations.

// NotNull excludes records where the field is missing, nil or an empty string.
func NotNull(field string) core.Filter {
	return core.FilterFunc(func(ctx context.Context, record core.Record) (bool, error) {
		value, exists := record[field]
		if !exists || value == nil {
			return false, nil
		}
		if str, ok := value.(string); ok && str == "" {
			return false, nil
		}
		return true, nil
	})
}

// MatchesRegexp includes records whose string field matches re. Non-string
// and missing fields never match.
func MatchesRegexp(field string, re *regexp.Regexp) core.Filter {
	return core.FilterFunc(func(ctx context.Context, record core.Record) (bool, error) {
		str, ok := record[field].(string)
		if !ok {
			return false, nil
		}
		return re.MatchString(str), nil
	})
}

// And creates a filter that requires all provided filters to pass
func And(filters ...core.Filter) core.Filter {
	return core.FilterFunc(func(ctx context.Context, record core.Record) (bool, error) {
		for _, filter := range filters {
			include, err := filter.ShouldInclude(ctx, record)
			if err != nil {
				return false, err
			}
			if !include {
				return false, nil
			}
		}
		return true, nil
	})
}
