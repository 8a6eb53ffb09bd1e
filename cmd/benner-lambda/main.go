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

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/aaronlmathis/benner/config"
	"github.com/aaronlmathis/benner/core"
	"github.com/aaronlmathis/benner/job"
	"github.com/aaronlmathis/benner/logging"
	"github.com/aaronlmathis/benner/metrics"
)

// benner-lambda runs the delta-v export as an AWS Lambda function. The
// invocation payload is the job event, e.g.
//
//	{"tableName": "asteroids", "bucket": "asteroid-files"}
//
// and the response is the same event with "benner" set to the object key.

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "benner-lambda: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "benner-lambda: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()
	handler := job.NewHandlerFromConfig(cfg, job.WithLogger(logger), job.WithMetrics(m))

	lambda.Start(invoke(handler, m, cfg, logger))
}

// invoke adapts handler to the Lambda runtime. Metrics are pushed after every
// event, including failed ones, and the handler's error is returned as is.
func invoke(handler *job.Handler, m *metrics.Metrics, cfg *config.Config, logger *zap.Logger) func(context.Context, core.Event) (core.Event, error) {
	return func(ctx context.Context, event core.Event) (core.Event, error) {
		out, err := handler.Handle(ctx, event)
		if cfg.PushgatewayURL != "" {
			if pushErr := m.Push(cfg.PushgatewayURL); pushErr != nil {
				logger.Warn("Failed to push metrics", zap.String("url", cfg.PushgatewayURL), zap.Error(pushErr))
			}
		}
		return out, err
	}
}
