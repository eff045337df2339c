// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"namescan/internal/formatters"
	"namescan/internal/formatters/shared"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	headers := []string{"Filename", "Page", "Start", "End", "Entity", "Score", "Source", "Line Number", "Text"}
	if options.Verbose {
		headers = append(headers, "Pattern")
	}

	var builder strings.Builder
	w := csv.NewWriter(&builder)
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, s := range shared.ConvertResults(results, options).Results {
		row := []string{
			s.Filename,
			strconv.Itoa(s.Page),
			strconv.Itoa(s.Start),
			strconv.Itoa(s.End),
			s.EntityType,
			strconv.FormatFloat(s.Score, 'f', 2, 64),
			s.Source,
			strconv.Itoa(s.LineNumber),
			s.Text,
		}
		if options.Verbose {
			row = append(row, s.Pattern)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(builder.String(), "\n"), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
