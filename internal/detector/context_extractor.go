// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
)

// ContextInfo stores the text surrounding a span
type ContextInfo struct {
	BeforeText string
	AfterText  string

	// Line containing the span start
	FullLine   string
	LineNumber int
}

// ContextExtractor pulls the surrounding text of a span out of the analyzed text
type ContextExtractor struct {
	// Number of characters before and after the span to keep
	ContextChars int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		ContextChars: 30,
	}
}

// WithContextChars sets the number of context characters
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	ce.ContextChars = chars
	return ce
}

// ExtractContext returns the context around span. The result is empty for
// spans that do not fit text.
func (ce *ContextExtractor) ExtractContext(text string, span Span) ContextInfo {
	if CheckSpan(text, span) != nil {
		return ContextInfo{}
	}

	lineStart := strings.LastIndexByte(text[:span.Start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[span.Start:], '\n'); i >= 0 {
		lineEnd = span.Start + i
	}

	before := max(lineStart, span.Start-ce.ContextChars)
	after := min(lineEnd, span.End+ce.ContextChars)
	if after < span.End {
		after = span.End
	}

	return ContextInfo{
		BeforeText: strings.ToValidUTF8(text[before:span.Start], ""),
		AfterText:  strings.ToValidUTF8(text[span.End:after], ""),
		FullLine:   text[lineStart:lineEnd],
		LineNumber: strings.Count(text[:span.Start], "\n") + 1,
	}
}
