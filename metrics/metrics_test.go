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

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun(OutcomeSkipped, time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeSkipped)))
	assert.Zero(t, testutil.ToFloat64(m.LastSuccess))

	m.ObserveRun(OutcomeUploaded, 2*time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeUploaded)))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess), float64(0))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestObserveParse(t *testing.T) {
	m := New()
	m.ObserveParse(5, 2)
	m.ObserveParse(1, 0)

	assert.Equal(t, float64(6), testutil.ToFloat64(m.RowsWritten))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.LinesDiscarded))
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New()
	m.ObserveParse(3, 1)
	require.NoError(t, m.Push(server.URL))

	assert.Equal(t, "/metrics/job/benner", gotPath)
	assert.True(t, strings.Contains(gotBody, "benner_rows_written_total"), "pushed body carries the job metrics")
}

func TestPush_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Error(t, New().Push(server.URL))
}
