// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxPreprocessor extracts Word documents as a single chunk. Tables are
// rendered one row per line with tab-separated cells.
type DocxPreprocessor struct {
	limits *ResourceLimits
}

// NewDocxPreprocessor creates a new DOCX preprocessor
func NewDocxPreprocessor(limits *ResourceLimits) *DocxPreprocessor {
	if limits == nil {
		limits = DefaultResourceLimits()
	}
	return &DocxPreprocessor{limits: limits}
}

func (dp *DocxPreprocessor) GetName() string {
	return "docx"
}

func (dp *DocxPreprocessor) GetSupportedExtensions() []string {
	return []string{".docx"}
}

func (dp *DocxPreprocessor) CanProcess(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".docx")
}

func (dp *DocxPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	f, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph:
			if text := paragraphText(o); strings.TrimSpace(text) != "" {
				lines = append(lines, text)
			}
		case *docx.Table:
			lines = append(lines, tableLines(o)...)
		}
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Chunks:        []Chunk{{Text: strings.Join(lines, "\n")}},
		Format:        "DOCX",
		PageCount:     1,
		ProcessorType: dp.GetName(),
	}
	result.countStats()
	return result, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}

func tableLines(tbl *docx.Table) []string {
	var lines []string
	for _, row := range tbl.TableRows {
		cells := make([]string, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			var parts []string
			for _, p := range cell.Paragraphs {
				if text := strings.TrimSpace(paragraphText(p)); text != "" {
					parts = append(parts, text)
				}
			}
			// Tabs inside a cell would split it into two columns
			cells = append(cells, strings.ReplaceAll(strings.Join(parts, " "), "\t", " "))
		}
		if strings.TrimSpace(strings.Join(cells, "")) != "" {
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return lines
}
