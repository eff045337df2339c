// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"namescan/internal/detector"
	"namescan/internal/formatters"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Results []JSONSpan `json:"results" yaml:"results"`
}

// JSONSpan represents a single span in JSON/YAML format
type JSONSpan struct {
	Filename   string  `json:"filename,omitempty" yaml:"filename,omitempty"`
	Page       int     `json:"page,omitempty" yaml:"page,omitempty"`
	Start      int     `json:"start" yaml:"start"`
	End        int     `json:"end" yaml:"end"`
	EntityType string  `json:"entity_type" yaml:"entity_type"`
	Score      float64 `json:"score" yaml:"score"`
	Source     string  `json:"source" yaml:"source"`
	Pattern    string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Text       string  `json:"text" yaml:"text"`
	LineNumber int     `json:"line_number" yaml:"line_number"`
	FullLine   string  `json:"full_line,omitempty" yaml:"full_line,omitempty"`
	BeforeText string  `json:"before_text,omitempty" yaml:"before_text,omitempty"`
	AfterText  string  `json:"after_text,omitempty" yaml:"after_text,omitempty"`
}

// ConvertResults flattens results into the JSON/YAML response shape.
// Context fields are filled only in verbose mode and carry no matched text
// unless ShowMatch is set.
func ConvertResults(results []formatters.Result, options formatters.FormatterOptions) JSONResponse {
	extractor := detector.NewContextExtractor()
	spans := make([]JSONSpan, 0, formatters.SpanCount(results))

	for _, r := range results {
		for _, span := range r.Spans {
			info := extractor.ExtractContext(r.Text, span)
			js := JSONSpan{
				Filename:   r.Filename,
				Page:       r.Page,
				Start:      span.Start,
				End:        span.End,
				EntityType: string(span.Entity),
				Score:      span.Score,
				Source:     string(span.Source),
				Pattern:    span.Pattern,
				Text:       formatters.MatchText(r, span, options),
				LineNumber: info.LineNumber,
			}
			if options.Verbose && options.ShowMatch {
				js.FullLine = info.FullLine
				js.BeforeText = info.BeforeText
				js.AfterText = info.AfterText
			}
			spans = append(spans, js)
		}
	}

	return JSONResponse{Results: spans}
}
