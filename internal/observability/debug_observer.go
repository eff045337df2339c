// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DebugObserver provides detailed step-by-step debugging
type DebugObserver struct {
	*StandardObserver
	steps *slog.Logger

	mu    sync.Mutex
	depth int
}

// NewDebugObserver creates a debug observer with step-by-step logging.
// Steps are written as human-readable text records, operations as JSON.
func NewDebugObserver(writer io.Writer) *DebugObserver {
	d := &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
		steps:            slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	d.StandardObserver.DebugObserver = d
	return d
}

// StartStep begins a processing step; the returned function ends it
func (d *DebugObserver) StartStep(component, step, source string) func(success bool, details string) {
	start := time.Now()

	d.mu.Lock()
	depth := d.depth
	d.depth++
	d.mu.Unlock()

	d.steps.Debug("step started", "component", component, "step", step, "source", source, "depth", depth)

	return func(success bool, details string) {
		d.mu.Lock()
		d.depth--
		d.mu.Unlock()

		level := slog.LevelDebug
		msg := "step completed"
		if !success {
			level = slog.LevelWarn
			msg = "step failed"
		}
		d.steps.Log(context.Background(), level, msg,
			"component", component,
			"step", step,
			"duration_ms", time.Since(start).Milliseconds(),
			"depth", depth,
			"details", details,
		)
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	d.steps.Debug(detail, "component", component)
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value any) {
	d.steps.Debug("metric", "component", component, "metric", metric, "value", value)
}
