// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"namescan/internal/dedup"
	"namescan/internal/detector"
	"namescan/internal/observability"
	"namescan/internal/recognizers/tabular"
)

// Options controls which spans the engine reports
type Options struct {
	// Entities restricts output to these kinds; empty means all
	Entities []detector.EntityKind

	// MinScore drops merged spans scoring below it
	MinScore float64

	// Strict panics on a span that violates the offset invariant
	// instead of dropping it
	Strict bool
}

// Engine runs an ordered set of recognizers over a text and merges
// their spans. An Engine is safe for concurrent use when its
// recognizers are.
type Engine struct {
	recognizers []detector.Recognizer
	options     Options
	observer    *observability.StandardObserver
}

// NewEngine creates an engine over recognizers, consulted in the given order
func NewEngine(recognizers []detector.Recognizer, options Options, observer *observability.StandardObserver) *Engine {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &Engine{
		recognizers: recognizers,
		options:     options,
		observer:    observer,
	}
}

// Recognizers returns the composed recognizers in order
func (e *Engine) Recognizers() []detector.Recognizer {
	return e.recognizers
}

// RecognizerReport describes one recognizer's contribution to an analysis
type RecognizerReport struct {
	Name       detector.RecognizerID `json:"name" yaml:"name"`
	Skipped    bool                  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	RawSpans   int                   `json:"raw_spans" yaml:"raw_spans"`
	Dropped    int                   `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	DurationMs int64                 `json:"duration_ms" yaml:"duration_ms"`
	Error      string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the detailed outcome of one analysis
type Report struct {
	TextLength  int                `json:"text_length" yaml:"text_length"`
	Trivial     bool               `json:"trivial,omitempty" yaml:"trivial,omitempty"`
	Tabular     tabular.Inspection `json:"tabular" yaml:"tabular"`
	Recognizers []RecognizerReport `json:"recognizers" yaml:"recognizers"`
	RawSpans    int                `json:"raw_spans" yaml:"raw_spans"`
	Spans       []detector.Span    `json:"spans" yaml:"spans"`
}

var trivialText = regexp.MustCompile(`^[a-z]{1,5}$`)

// isTrivial reports text too short or too plain to hold a name
func isTrivial(text string) bool {
	trimmed := strings.TrimSpace(text)
	return len(trimmed) < 3 || trivialText.MatchString(trimmed)
}

// Analyze returns the merged spans found in text. Recognizer failures are
// logged and the recognizer is skipped; an error is returned only when ctx
// is done.
func (e *Engine) Analyze(ctx context.Context, text string) ([]detector.Span, error) {
	report, err := e.run(ctx, text)
	if err != nil {
		return nil, err
	}
	return report.Spans, nil
}

// Explain runs the same analysis as Analyze and reports how each stage
// contributed to the result.
func (e *Engine) Explain(ctx context.Context, text string) (*Report, error) {
	report, err := e.run(ctx, text)
	if err != nil {
		return nil, err
	}
	report.Tabular = tabular.Inspect(text)
	return report, nil
}

func (e *Engine) run(ctx context.Context, text string) (*Report, error) {
	finishTiming := e.observer.StartTiming("engine", "analyze", "")
	report := &Report{
		TextLength:  len(text),
		Recognizers: make([]RecognizerReport, len(e.recognizers)),
	}

	if isTrivial(text) {
		report.Trivial = true
		for i, r := range e.recognizers {
			report.Recognizers[i] = RecognizerReport{Name: r.Name(), Skipped: true}
		}
		finishTiming(true, map[string]any{"trivial": true})
		return report, nil
	}

	results := make([][]detector.Span, len(e.recognizers))
	invalid := make([]error, len(e.recognizers))

	var g errgroup.Group
	for i, r := range e.recognizers {
		report.Recognizers[i].Name = r.Name()
		if !detector.Supports(r, e.options.Entities) {
			report.Recognizers[i].Skipped = true
			continue
		}
		g.Go(func() error {
			results[i], report.Recognizers[i], invalid[i] = e.recognize(ctx, r, text)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(invalid...); err != nil && e.options.Strict {
		panic(err)
	}

	if err := ctx.Err(); err != nil {
		finishTiming(false, map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	var all []detector.Span
	for _, spans := range results {
		all = append(all, spans...)
	}
	report.RawSpans = len(all)

	merged := e.merge(all)
	report.Spans = make([]detector.Span, 0, len(merged))
	for _, s := range merged {
		if s.Score >= e.options.MinScore {
			report.Spans = append(report.Spans, s)
		}
	}

	finishTiming(true, map[string]any{
		"content_length": len(text),
		"raw_spans":      report.RawSpans,
		"span_count":     len(report.Spans),
	})
	return report, nil
}

// recognize runs one recognizer and screens its spans for the offset
// invariant and the entity filter. Offset violations are returned so that
// strict mode can fail on the calling goroutine.
func (e *Engine) recognize(ctx context.Context, r detector.Recognizer, text string) ([]detector.Span, RecognizerReport, error) {
	rr := RecognizerReport{Name: r.Name()}
	start := time.Now()

	var endStep func(bool, string)
	if e.observer.DebugObserver != nil {
		endStep = e.observer.DebugObserver.StartStep("engine", "recognize", string(r.Name()))
	}

	spans, err := r.Analyze(ctx, text)
	rr.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		rr.Error = err.Error()
		if ctx.Err() == nil {
			e.observer.Warn("engine", "recognizer failed, continuing without it", "recognizer", string(r.Name()), "error", err)
		}
		if endStep != nil {
			endStep(false, err.Error())
		}
		return nil, rr, nil
	}
	rr.RawSpans = len(spans)

	var invalid []error
	kept := make([]detector.Span, 0, len(spans))
	for _, s := range spans {
		if err := detector.CheckSpan(text, s); err != nil {
			e.observer.Error("engine", "dropping span with invalid offsets", "recognizer", string(r.Name()), "error", err)
			invalid = append(invalid, err)
			rr.Dropped++
			continue
		}
		if !e.wants(s.Entity) {
			rr.Dropped++
			continue
		}
		kept = append(kept, s)
	}

	if endStep != nil {
		endStep(true, fmt.Sprintf("%d spans", len(kept)))
	}
	return kept, rr, errors.Join(invalid...)
}

func (e *Engine) merge(spans []detector.Span) []detector.Span {
	if e.observer.DebugObserver == nil {
		return dedup.Merge(spans)
	}
	endStep := e.observer.DebugObserver.StartStep("engine", "merge", "")
	merged := dedup.Merge(spans)
	e.observer.DebugObserver.LogMetric("engine", "merged_spans", len(merged))
	endStep(true, fmt.Sprintf("%d of %d spans kept", len(merged), len(spans)))
	return merged
}

func (e *Engine) wants(kind detector.EntityKind) bool {
	if len(e.options.Entities) == 0 {
		return true
	}
	for _, k := range e.options.Entities {
		if k == kind {
			return true
		}
	}
	return false
}
