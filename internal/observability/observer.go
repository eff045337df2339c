// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// StandardObserver records component operations as structured log records.
// Records carry counts and timings only; analyzed text is never logged.
type StandardObserver struct {
	level         ObservabilityLevel
	logger        *slog.Logger
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates an observer writing JSON records to writer.
// At ObservabilityOff only warnings and errors are written.
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		writer = io.Discard
	}
	return &StandardObserver{
		level:  level,
		logger: slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slogLevel(level)})),
	}
}

// NewNopObserver returns an observer that drops everything
func NewNopObserver() *StandardObserver {
	return NewStandardObserver(ObservabilityOff, nil)
}

func slogLevel(level ObservabilityLevel) slog.Level {
	switch level {
	case ObservabilityDebug:
		return slog.LevelDebug
	case ObservabilityMetrics:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Level returns the configured observability level
func (o *StandardObserver) Level() ObservabilityLevel {
	return o.level
}

// Logger exposes the underlying structured logger
func (o *StandardObserver) Logger() *slog.Logger {
	return o.logger
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, source string) func(success bool, metadata map[string]any) {
	start := time.Now()

	return func(success bool, metadata map[string]any) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Source:     source,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data. Failed operations are logged at Warn.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	level := slog.LevelInfo
	if o.level == ObservabilityDebug {
		level = slog.LevelDebug
	}
	if !data.Success {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("component", data.Component),
		slog.String("operation", data.Operation),
		slog.Bool("success", data.Success),
		slog.Int64("duration_ms", data.DurationMs),
	}
	if data.Source != "" {
		attrs = append(attrs, slog.String("source", data.Source))
	}
	if data.Error != "" {
		attrs = append(attrs, slog.String("error", data.Error))
	}
	if data.ContentLength > 0 {
		attrs = append(attrs, slog.Int("content_length", data.ContentLength))
	}
	if data.SpanCount > 0 {
		attrs = append(attrs, slog.Int("span_count", data.SpanCount))
	}
	for k, v := range data.Metadata {
		attrs = append(attrs, slog.Any(k, v))
	}

	o.logger.LogAttrs(context.Background(), level, data.Component+" "+data.Operation, attrs...)
}

// Warn logs a degraded-but-continuing condition
func (o *StandardObserver) Warn(component, msg string, args ...any) {
	o.logger.Warn(msg, append([]any{"component", component}, args...)...)
}

// Error logs an internal defect that was contained
func (o *StandardObserver) Error(component, msg string, args ...any) {
	o.logger.Error(msg, append([]any{"component", component}, args...)...)
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component     string
	Operation     string
	Source        string
	DurationMs    int64
	Success       bool
	Error         string
	ContentLength int
	SpanCount     int
	Metadata      map[string]any
}
