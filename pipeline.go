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

package benner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aaronlmathis/benner/core"
)

// Package benner provides the record pipeline that turns the Benner delta-v
// rendezvous table into CSV.
//
// A pipeline reads records from a core.DataSource, runs them through an ordered
// list of stages (transformers and filters, applied in the order they were added)
// and writes the survivors to a core.DataSink:
//
//   p, err := benner.NewPipeline().
//       From(lineReader).
//       Filter(filter.MatchesRegexp("line", pattern)).
//       Transform(transform.ExtractNamed("line", pattern)).
//       To(csvWriter).
//       Build()
//   if err != nil { return err }
//   stats, err := p.Execute(ctx)

// PipelineBuilder provides a fluent API for constructing pipelines.
type PipelineBuilder struct {
	pipeline *Pipeline
}

// NewPipeline creates a new PipelineBuilder with the FailFast strategy.
func NewPipeline() *PipelineBuilder {
	return &PipelineBuilder{
		pipeline: &Pipeline{
			stages:   make([]stage, 0),
			strategy: core.FailFast,
		},
	}
}

// From sets the DataSource for the pipeline.
func (pb *PipelineBuilder) From(source core.DataSource) *PipelineBuilder {
	pb.pipeline.source = source
	return pb
}

// Transform appends a Transformer stage.
func (pb *PipelineBuilder) Transform(transformer core.Transformer) *PipelineBuilder {
	pb.pipeline.stages = append(pb.pipeline.stages, stage{transformer: transformer})
	return pb
}

// Filter appends a Filter stage.
func (pb *PipelineBuilder) Filter(filter core.Filter) *PipelineBuilder {
	pb.pipeline.stages = append(pb.pipeline.stages, stage{filter: filter})
	return pb
}

// Where appends a filtering stage built from a plain function.
func (pb *PipelineBuilder) Where(fn func(ctx context.Context, record core.Record) (bool, error)) *PipelineBuilder {
	return pb.Filter(core.FilterFunc(fn))
}

// To sets the DataSink for the pipeline.
func (pb *PipelineBuilder) To(sink core.DataSink) *PipelineBuilder {
	pb.pipeline.sink = sink
	return pb
}

// WithErrorStrategy sets the error handling strategy for the pipeline.
func (pb *PipelineBuilder) WithErrorStrategy(strategy core.ErrorStrategy) *PipelineBuilder {
	pb.pipeline.strategy = strategy
	return pb
}

// WithErrorHandler sets a custom error handler for the pipeline.
func (pb *PipelineBuilder) WithErrorHandler(handler core.ErrorHandler) *PipelineBuilder {
	pb.pipeline.errorHandler = handler
	return pb
}

// Build validates and returns the Pipeline.
func (pb *PipelineBuilder) Build() (*Pipeline, error) {
	if pb.pipeline.source == nil {
		return nil, fmt.Errorf("pipeline requires a data source")
	}
	if pb.pipeline.sink == nil {
		return nil, fmt.Errorf("pipeline requires a data sink")
	}
	return pb.pipeline, nil
}

// stage is either a transformer or a filter.
type stage struct {
	transformer core.Transformer
	filter      core.Filter
}

// PipelineStats counts what happened to records during Execute.
type PipelineStats struct {
	RecordsRead    int64 // records returned by the source
	RecordsDropped int64 // records emptied by a transformer or rejected by a filter
	RecordsWritten int64 // records accepted by the sink
	Errors         int64 // errors seen, whether or not they stopped the run
}

// Pipeline is a single-pass record pipeline from one source to one sink.
type Pipeline struct {
	stages       []stage
	source       core.DataSource
	sink         core.DataSink
	strategy     core.ErrorStrategy
	errorHandler core.ErrorHandler
}

// Execute runs every record from the source through the stages into the sink.
//
// The source is closed and the sink flushed and closed on return. A flush or
// close failure of the sink is reported when processing itself succeeded, since
// a sink that could not flush holds incomplete output.
func (p *Pipeline) Execute(ctx context.Context) (stats PipelineStats, err error) {
	defer func() {
		p.source.Close()
		flushErr := p.sink.Flush()
		closeErr := p.sink.Close()
		if err == nil {
			err = errors.Join(flushErr, closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		record, err := p.source.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Errors++
			if err := p.handleError(ctx, record, err); err != nil {
				return stats, err
			}
			continue
		}
		stats.RecordsRead++

		if len(record) == 0 {
			stats.RecordsDropped++
			continue
		}

		out, keep, err := p.applyStages(ctx, record)
		if err != nil {
			stats.Errors++
			if err := p.handleError(ctx, record, err); err != nil {
				return stats, err
			}
			continue
		}
		if !keep {
			stats.RecordsDropped++
			continue
		}

		if err := p.sink.Write(ctx, out); err != nil {
			stats.Errors++
			if err := p.handleError(ctx, out, err); err != nil {
				return stats, err
			}
			continue
		}
		stats.RecordsWritten++
	}

	return stats, nil
}

// applyStages runs the stages in order. keep is false when a filter rejects the
// record or a transformer empties it.
func (p *Pipeline) applyStages(ctx context.Context, record core.Record) (core.Record, bool, error) {
	current := record
	for _, s := range p.stages {
		if s.filter != nil {
			include, err := s.filter.ShouldInclude(ctx, current)
			if err != nil {
				return nil, false, err
			}
			if !include {
				return nil, false, nil
			}
			continue
		}

		transformed, err := s.transformer.Transform(ctx, current)
		if err != nil {
			return nil, false, err
		}
		if len(transformed) == 0 {
			return nil, false, nil
		}
		current = transformed
	}
	return current, true, nil
}

// handleError applies the configured strategy and handler to a record error.
func (p *Pipeline) handleError(ctx context.Context, record core.Record, err error) error {
	switch p.strategy {
	case core.FailFast:
		return err
	case core.CollectErrors:
		if p.errorHandler != nil {
			return p.errorHandler.HandleError(ctx, record, err)
		}
		return nil
	default:
		return err
	}
}
