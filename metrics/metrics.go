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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes recorded in benner_runs_total.
const (
	OutcomeUploaded = "uploaded"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// JobName is the Pushgateway job label.
const JobName = "benner"

// Metrics holds the per-process collectors of the job on their own registry,
// so a run can be pushed without the Go runtime collectors.
type Metrics struct {
	Registry *prometheus.Registry

	RowsWritten    prometheus.Counter
	LinesDiscarded prometheus.Counter
	Runs           *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	LastSuccess    prometheus.Gauge
}

// New creates and registers the job collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "benner_rows_written_total",
			Help: "Total number of delta-v rows written to CSV",
		}),
		LinesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "benner_lines_discarded_total",
			Help: "Total number of table lines that did not match the row pattern",
		}),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benner_runs_total",
				Help: "Total number of job runs by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "benner_run_duration_seconds",
			Help:    "Duration of job runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s .. 64s
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "benner_last_success_timestamp_seconds",
			Help: "Unix time of the last run that uploaded a CSV",
		}),
	}

	m.Registry.MustRegister(m.RowsWritten, m.LinesDiscarded, m.Runs, m.RunDuration, m.LastSuccess)
	return m
}

// ObserveRun records the outcome and duration of one run.
func (m *Metrics) ObserveRun(outcome string, took time.Duration) {
	m.Runs.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(took.Seconds())
	if outcome == OutcomeUploaded {
		m.LastSuccess.SetToCurrentTime()
	}
}

// ObserveParse records the rows written and lines discarded by one parse.
func (m *Metrics) ObserveParse(rows, discarded int64) {
	m.RowsWritten.Add(float64(rows))
	m.LinesDiscarded.Add(float64(discarded))
}

// Push sends the registry to a Pushgateway under JobName.
func (m *Metrics) Push(url string) error {
	return push.New(url, JobName).Gatherer(m.Registry).Push()
}
