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
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aaronlmathis/benner/config"
	"github.com/aaronlmathis/benner/job"
	"github.com/aaronlmathis/benner/readers"
	"github.com/aaronlmathis/benner/storage"
)

var (
	inspectBucket string
	inspectKey    string

	// openStore returns the store inspect reads from.
	openStore = func(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
		return storage.NewS3Store(ctx, job.StoreOptions(cfg.S3)...)
	}
)

// inspectCmd reports on a stored export
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the header and row count of a stored export",
	Long: `Downloads the CSV written by "benner run" and prints its location, header
and number of data rows.

Example:
  benner inspect --bucket asteroid-files`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectBucket, "bucket", "asteroid-files", "Bucket holding the export")
	inspectCmd.Flags().StringVar(&inspectKey, "key", "", "Object key (default: object_key from config)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := inspectKey
	if key == "" {
		key = cfg.ObjectKey
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Debug("Getting object", zap.String("bucket", inspectBucket), zap.String("key", key))
	data, err := store.GetObject(ctx, inspectBucket, key)
	if err != nil {
		return err
	}

	reader, err := readers.NewCSVReader(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("read export header: %w", err)
	}
	defer reader.Close()

	rows := 0
	for {
		_, err := reader.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read export row %d: %w", rows+1, err)
		}
		rows++
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "object: s3://%s/%s\n", inspectBucket, key)
	fmt.Fprintf(out, "bytes:  %d\n", len(data))
	fmt.Fprintf(out, "header: %s\n", strings.Join(reader.Headers(), ","))
	fmt.Fprintf(out, "rows:   %d\n", rows)
	return nil
}
