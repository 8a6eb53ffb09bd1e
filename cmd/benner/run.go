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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaronlmathis/benner/config"
	"github.com/aaronlmathis/benner/core"
	"github.com/aaronlmathis/benner/job"
)

var (
	bucket    string
	tableName string

	// newHandler builds the handler for a run.
	newHandler = func(cfg *config.Config, options ...job.HandlerOption) *job.Handler {
		return job.NewHandlerFromConfig(cfg, options...)
	}
)

// runCmd runs one export
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one export and print the resulting event",
	Long: `Builds the event {"tableName": ..., "bucket": ...}, runs the export once
and prints the returned event as JSON. A successful upload adds "benner".

Example:
  benner run --bucket asteroid-files --table-name asteroids`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	runCmd.Flags().StringVar(&bucket, "bucket", "asteroid-files", "Destination bucket")
	runCmd.Flags().StringVar(&tableName, "table-name", "asteroids", "Table name carried in the event")
}

func runExport(cmd *cobra.Command, args []string) error {
	event := core.Event{
		core.EventKeyTableName: tableName,
		core.EventKeyBucket:    bucket,
	}

	handler := newHandler(cfg, job.WithLogger(logger), job.WithMetrics(stats))
	out, err := handler.Handle(cmd.Context(), event)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
