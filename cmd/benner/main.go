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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aaronlmathis/benner/config"
	"github.com/aaronlmathis/benner/logging"
	"github.com/aaronlmathis/benner/metrics"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
	stats  *metrics.Metrics
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "benner",
	Short: "Export the Benner delta-v rendezvous table to S3 as CSV",
	Long: `benner downloads the JPL delta-v rendezvous table, parses every
data row into pdes,dv,H,a,e,i and stores the result as CSV in an S3 bucket.

Configuration is read from --config (or BENNER_CONFIG) and BENNER_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		stats = metrics.New()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set BENNER_CONFIG)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}

// runRoot executes the command line and then pushes metrics and syncs the
// logger, whether or not the command failed.
func runRoot(ctx context.Context) error {
	cfg, logger, stats = nil, nil, nil
	defer finish()
	return rootCmd.ExecuteContext(ctx)
}

func finish() {
	if cfg != nil && cfg.PushgatewayURL != "" && stats != nil {
		if err := stats.Push(cfg.PushgatewayURL); err != nil {
			logger.Warn("Failed to push metrics", zap.String("url", cfg.PushgatewayURL), zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func main() {
	if err := runRoot(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
