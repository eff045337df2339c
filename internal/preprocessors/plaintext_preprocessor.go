// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// PlainTextPreprocessor reads text files as a single chunk
type PlainTextPreprocessor struct {
	limits *ResourceLimits
}

// NewPlainTextPreprocessor creates a new plain text preprocessor
func NewPlainTextPreprocessor(limits *ResourceLimits) *PlainTextPreprocessor {
	if limits == nil {
		limits = DefaultResourceLimits()
	}
	return &PlainTextPreprocessor{limits: limits}
}

// GetName returns the name of this preprocessor
func (ptp *PlainTextPreprocessor) GetName() string {
	return "plaintext"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ptp *PlainTextPreprocessor) GetSupportedExtensions() []string {
	return []string{
		".txt", ".text", ".log", ".md", ".markdown", ".rst",
		".csv", ".tsv", ".tab", ".psv",
		".json", ".jsonl", ".ndjson", ".yaml", ".yml", ".xml", ".html", ".htm",
		".eml", ".msg", ".vcf",
	}
}

// CanProcess accepts known text extensions, and files without an
// extension whose leading bytes look like text
func (ptp *PlainTextPreprocessor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supportedExt := range ptp.GetSupportedExtensions() {
		if ext == supportedExt {
			return true
		}
	}
	if ext == "" {
		return ptp.isTextFile(filePath)
	}
	return false
}

// Process reads the file into one chunk
func (ptp *PlainTextPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, err := ptp.normalize(data)
	if err != nil {
		return nil, err
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Chunks:        []Chunk{{Text: content}},
		Format:        "Plain Text",
		PageCount:     1,
		ProcessorType: ptp.GetName(),
	}
	result.countStats()
	return result, nil
}

// ProcessReader reads r, typically stdin, as a single text chunk
func (ptp *PlainTextPreprocessor) ProcessReader(name string, r io.Reader) (*ProcessedContent, error) {
	data, err := io.ReadAll(io.LimitReader(r, ptp.limits.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > ptp.limits.MaxFileSize {
		return nil, fmt.Errorf("input too large (max %d bytes)", ptp.limits.MaxFileSize)
	}

	content, err := ptp.normalize(data)
	if err != nil {
		return nil, err
	}

	result := &ProcessedContent{
		OriginalPath:  name,
		Filename:      name,
		Chunks:        []Chunk{{Text: content}},
		Format:        "Plain Text",
		PageCount:     1,
		ProcessorType: ptp.GetName(),
	}
	result.countStats()
	return result, nil
}

// normalize drops invalid UTF-8 and enforces the line limit. Offsets are
// reported against the normalized text.
func (ptp *PlainTextPreprocessor) normalize(data []byte) (string, error) {
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}

	if lineCount := strings.Count(content, "\n") + 1; lineCount > ptp.limits.MaxLines {
		return "", fmt.Errorf("file has too many lines: %d (max: %d)", lineCount, ptp.limits.MaxLines)
	}
	return content, nil
}

// isTextFile performs a quick check to determine if a file contains text
func (ptp *PlainTextPreprocessor) isTextFile(filePath string) bool {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return false
	}
	defer file.Close()

	// Read first 512 bytes to check for binary content
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return false
	}
	buffer = buffer[:n]

	printableCount := 0
	for _, b := range buffer {
		if b == 0 {
			return false
		}
		if (b >= 32 && b <= 126) || b == 9 || b == 10 || b == 13 || b >= 0x80 {
			printableCount++
		}
	}

	// Consider it text if more than 95% of bytes are printable
	return float64(printableCount)/float64(len(buffer)) > 0.95
}
