// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"namescan/internal/observability"
)

// ErrUnsupportedFile is returned when no preprocessor accepts a file
var ErrUnsupportedFile = errors.New("unsupported file type")

// Chunk is one independently analyzed piece of a document, such as a PDF page
type Chunk struct {
	// Page is 1-based; 0 means the document is a single chunk
	Page int
	Text string
}

// ProcessedContent represents content that has been processed by a preprocessor
type ProcessedContent struct {
	OriginalPath string
	Filename     string

	Chunks []Chunk

	Format        string
	PageCount     int
	CharCount     int
	LineCount     int
	ProcessorType string
}

// Text joins all chunks with newlines
func (pc *ProcessedContent) Text() string {
	parts := make([]string, len(pc.Chunks))
	for i, c := range pc.Chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}

func (pc *ProcessedContent) countStats() {
	pc.CharCount = 0
	pc.LineCount = 0
	for _, c := range pc.Chunks {
		pc.CharCount += len(c.Text)
		pc.LineCount += strings.Count(c.Text, "\n") + 1
	}
}

// Preprocessor interface defines methods for preprocessing files
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(filePath string) (*ProcessedContent, error)

	// GetName returns the name of this preprocessor
	GetName() string

	// GetSupportedExtensions returns the file extensions this preprocessor supports
	GetSupportedExtensions() []string
}

// PreprocessorManager manages all available preprocessors
type PreprocessorManager struct {
	preprocessors []Preprocessor
	limits        *ResourceLimits
	observer      *observability.StandardObserver
}

// NewPreprocessorManager creates a manager with no preprocessors registered
func NewPreprocessorManager(observer *observability.StandardObserver) *PreprocessorManager {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &PreprocessorManager{
		limits:   DefaultResourceLimits(),
		observer: observer,
	}
}

// NewDefaultManager creates a manager with the PDF, DOCX and plain text
// preprocessors registered, in that order
func NewDefaultManager(observer *observability.StandardObserver) *PreprocessorManager {
	pm := NewPreprocessorManager(observer)
	pm.RegisterPreprocessor(NewPDFPreprocessor(pm.limits))
	pm.RegisterPreprocessor(NewDocxPreprocessor(pm.limits))
	pm.RegisterPreprocessor(NewPlainTextPreprocessor(pm.limits))
	return pm
}

// RegisterPreprocessor adds a preprocessor to the manager
func (pm *PreprocessorManager) RegisterPreprocessor(p Preprocessor) {
	pm.preprocessors = append(pm.preprocessors, p)
}

// GetPreprocessor returns the appropriate preprocessor for a file, or nil if none found
func (pm *PreprocessorManager) GetPreprocessor(filePath string) Preprocessor {
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// GetAvailablePreprocessors returns all registered preprocessors
func (pm *PreprocessorManager) GetAvailablePreprocessors() []Preprocessor {
	return pm.preprocessors
}

// ProcessFile extracts the text chunks of filePath with the first
// preprocessor that accepts it
func (pm *PreprocessorManager) ProcessFile(filePath string) (*ProcessedContent, error) {
	finishTiming := pm.observer.StartTiming("preprocessors", "process_file", filePath)

	p := pm.GetPreprocessor(filePath)
	if p == nil {
		err := fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(filePath))
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	if err := pm.limits.ValidateFileSize(filePath); err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	var finishStep func(bool, string)
	if pm.observer.DebugObserver != nil {
		finishStep = pm.observer.DebugObserver.StartStep("preprocessors", p.GetName(), filePath)
	}

	result, err := p.Process(filePath)
	if err != nil {
		if finishStep != nil {
			finishStep(false, err.Error())
		}
		finishTiming(false, map[string]interface{}{"error": err.Error(), "processor": p.GetName()})
		return nil, err
	}

	if finishStep != nil {
		finishStep(true, fmt.Sprintf("%d chunks, %d chars", len(result.Chunks), result.CharCount))
	}
	finishTiming(true, map[string]interface{}{
		"processor":  p.GetName(),
		"chunks":     len(result.Chunks),
		"char_count": result.CharCount,
	})
	return result, nil
}
