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

package transform

import (
	"context"
	"regexp"
	"strings"

	"github.com/aaronlmathis/benner/core"
)

// Package transform provides composable record transformations for pipelines.
//
// Every function returns a core.Transformer that leaves its input record
// untouched and returns a new one.

// Select keeps only the listed fields. Fields not present in the input are omitted.
func Select(fields ...string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(fields))
		for _, field := range fields {
			if value, exists := record[field]; exists {
				result[field] = value
			}
		}
		return result, nil
	})
}

// Rename renames fields according to mapping (old name to new name).
func Rename(mapping map[string]string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for key, value := range record {
			if newKey, exists := mapping[key]; exists {
				result[newKey] = value
			} else {
				result[key] = value
			}
		}
		return result, nil
	})
}

// TrimSpace trims surrounding whitespace from the listed string fields.
func TrimSpace(fields ...string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := copyRecord(record)
		for _, field := range fields {
			if str, ok := record[field].(string); ok {
				result[field] = strings.TrimSpace(str)
			}
		}
		return result, nil
	})
}

// Join writes the listed string fields, joined by sep, into target. Missing or
// non-string fields contribute an empty string.
func Join(target, sep string, fields ...string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		parts := make([]string, len(fields))
		for i, field := range fields {
			parts[i], _ = record[field].(string)
		}
		result := copyRecord(record)
		result[target] = strings.Join(parts, sep)
		return result, nil
	})
}

// ExtractNamed matches re against a string field and replaces the record with
// one field per named capture group, holding the captured text. A group that
// did not participate in the match yields "". When the field does not match,
// the transformer returns an empty record, which drops it from the pipeline.
func ExtractNamed(field string, re *regexp.Regexp) core.Transformer {
	names := re.SubexpNames()
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		str, ok := record[field].(string)
		if !ok {
			return core.Record{}, nil
		}
		match := re.FindStringSubmatch(str)
		if match == nil {
			return core.Record{}, nil
		}
		result := make(core.Record, len(names))
		for i, name := range names {
			if i == 0 || name == "" {
				continue
			}
			result[name] = match[i]
		}
		return result, nil
	})
}

func copyRecord(record core.Record) core.Record {
	result := make(core.Record, len(record))
	for k, v := range record {
		result[k] = v
	}
	return result
}
