// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"namescan/internal/detector"
	"namescan/internal/preprocessors"
)

// StdinName is the display name of input read from a reader
const StdinName = "stdin"

// ScanConfig describes one input to scan
type ScanConfig struct {
	// FilePath is read through the preprocessors; "" or "-" reads Input
	FilePath string
	Input    io.Reader

	// Explain keeps a per-chunk Report
	Explain bool

	// Workers bounds how many chunks are analyzed at once; 0 means GOMAXPROCS
	Workers int
}

// ChunkResult is the analysis of one extracted chunk
type ChunkResult struct {
	Page   int
	Text   string
	Spans  []detector.Span
	Report *Report
}

// ScanResult is the analysis of one input
type ScanResult struct {
	Filename      string
	ProcessorType string
	Chunks        []ChunkResult
}

// SpanCount returns the number of spans across all chunks
func (r *ScanResult) SpanCount() int {
	n := 0
	for _, c := range r.Chunks {
		n += len(c.Spans)
	}
	return n
}

// Scanner extracts text from inputs and analyzes every chunk with an Engine
type Scanner struct {
	engine  *Engine
	manager *preprocessors.PreprocessorManager
}

// NewScanner creates a scanner; a nil manager uses the default preprocessors
func NewScanner(engine *Engine, manager *preprocessors.PreprocessorManager) *Scanner {
	if manager == nil {
		manager = preprocessors.NewDefaultManager(engine.observer)
	}
	return &Scanner{engine: engine, manager: manager}
}

// ScanFile extracts the input named by scanConfig and analyzes its chunks.
// Chunk offsets are relative to the chunk text.
func (s *Scanner) ScanFile(ctx context.Context, scanConfig ScanConfig) (*ScanResult, error) {
	content, err := s.extract(scanConfig)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Filename:      content.Filename,
		ProcessorType: content.ProcessorType,
		Chunks:        make([]ChunkResult, len(content.Chunks)),
	}

	workers := scanConfig.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range content.Chunks {
		g.Go(func() error {
			cr := ChunkResult{Page: chunk.Page, Text: chunk.Text}
			if scanConfig.Explain {
				report, err := s.engine.Explain(gctx, chunk.Text)
				if err != nil {
					return err
				}
				cr.Report = report
				cr.Spans = report.Spans
			} else {
				spans, err := s.engine.Analyze(gctx, chunk.Text)
				if err != nil {
					return err
				}
				cr.Spans = spans
			}
			result.Chunks[i] = cr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", content.Filename, err)
	}

	return result, nil
}

func (s *Scanner) extract(scanConfig ScanConfig) (*preprocessors.ProcessedContent, error) {
	if scanConfig.FilePath == "" || scanConfig.FilePath == "-" {
		if scanConfig.Input == nil {
			return nil, fmt.Errorf("no input file and no reader given")
		}
		return preprocessors.NewPlainTextPreprocessor(nil).ProcessReader(StdinName, scanConfig.Input)
	}
	return s.manager.ProcessFile(scanConfig.FilePath)
}
