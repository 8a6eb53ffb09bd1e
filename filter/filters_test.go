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
	"errors"
	"regexp"
	"testing"

	"github.com/aaronlmathis/benner/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotNull(t *testing.T) {
	f := NotNull("line")
	ctx := context.Background()

	tests := []struct {
		name   string
		record core.Record
		want   bool
	}{
		{"present", core.Record{"line": "x"}, true},
		{"empty string", core.Record{"line": ""}, false},
		{"nil", core.Record{"line": nil}, false},
		{"missing", core.Record{}, false},
		{"non-string", core.Record{"line": 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldInclude(ctx, tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesRegexp(t *testing.T) {
	f := MatchesRegexp("line", regexp.MustCompile(`^\s*\d+\s+\d+\.\d+`))
	ctx := context.Background()

	got, err := f.ShouldInclude(ctx, core.Record{"line": "   12  0.34  rest"})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = f.ShouldInclude(ctx, core.Record{"line": "Rank  Percentile"})
	require.NoError(t, err)
	assert.False(t, got)

	got, err = f.ShouldInclude(ctx, core.Record{"line": 12})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestAnd(t *testing.T) {
	ctx := context.Background()
	hasLine := NotNull("line")
	letters := MatchesRegexp("line", regexp.MustCompile(`^[a-z]+$`))

	both := And(hasLine, letters)
	got, err := both.ShouldInclude(ctx, core.Record{"line": "abc"})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = both.ShouldInclude(ctx, core.Record{"line": "123"})
	require.NoError(t, err)
	assert.False(t, got)

	got, err = both.ShouldInclude(ctx, core.Record{})
	require.NoError(t, err)
	assert.False(t, got)

	boom := errors.New("boom")
	failing := core.FilterFunc(func(context.Context, core.Record) (bool, error) { return false, boom })
	_, err = And(hasLine, failing).ShouldInclude(ctx, core.Record{"line": "x"})
	assert.ErrorIs(t, err, boom)
}
