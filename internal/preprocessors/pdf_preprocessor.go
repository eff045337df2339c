// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFPreprocessor extracts one chunk per PDF page
type PDFPreprocessor struct {
	limits *ResourceLimits
}

// NewPDFPreprocessor creates a new PDF preprocessor
func NewPDFPreprocessor(limits *ResourceLimits) *PDFPreprocessor {
	if limits == nil {
		limits = DefaultResourceLimits()
	}
	return &PDFPreprocessor{limits: limits}
}

func (pp *PDFPreprocessor) GetName() string {
	return "pdf"
}

func (pp *PDFPreprocessor) GetSupportedExtensions() []string {
	return []string{".pdf"}
}

func (pp *PDFPreprocessor) CanProcess(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".pdf")
}

// Process extracts the text of every page up to the page limit. Pages
// that fail to extract are skipped; the call fails only when none succeed.
func (pp *PDFPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := min(r.NumPage(), pp.limits.MaxPages)

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Format:        "PDF",
		PageCount:     r.NumPage(),
		ProcessorType: pp.GetName(),
	}

	var lastErr error
	for i := 1; i <= pageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := extractPageText(p)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		result.Chunks = append(result.Chunks, Chunk{Page: i, Text: text})
	}

	if len(result.Chunks) == 0 && lastErr != nil {
		return nil, fmt.Errorf("error extracting PDF text: %w", lastErr)
	}

	result.countStats()
	return result, nil
}

// extractPageText rebuilds the page row by row, so table rows keep their
// cells on one line
func extractPageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// PDF Y grows upwards, so higher rows come first
	sort.SliceStable(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) > averageY(sortedRows[j].Content)
	})

	var buf strings.Builder
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, e := range elements {
		total += e.Y
	}
	return total / float64(len(elements))
}

// reconstructRowText joins the glyph runs of a row left to right. A gap of
// more than 20% of the font size becomes a space; a gap wider than the font
// size becomes a column gap of two spaces.
func reconstructRowText(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf strings.Builder
	for i, element := range sorted {
		buf.WriteString(element.S)
		if i == len(sorted)-1 {
			break
		}

		gap := sorted[i+1].X - (element.X + element.W)
		fontSize := element.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		switch {
		case gap > fontSize:
			buf.WriteString("  ")
		case gap > fontSize*0.2:
			buf.WriteString(" ")
		}
	}
	return buf.String()
}
