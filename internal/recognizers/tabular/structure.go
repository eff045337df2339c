// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"regexp"
	"strings"
)

// SeparatorKind is the column delimiter inferred for a block of text
type SeparatorKind int

const (
	SeparatorNone SeparatorKind = iota
	SeparatorTab
	SeparatorComma
	SeparatorSpaces
)

func (s SeparatorKind) String() string {
	switch s {
	case SeparatorTab:
		return "tab"
	case SeparatorComma:
		return "comma"
	case SeparatorSpaces:
		return "spaces"
	default:
		return "none"
	}
}

// MarshalText renders the separator by name in JSON and YAML output
func (s SeparatorKind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NoColumn marks a structure without an identified name column
const NoColumn = -1

// TableStructure describes how to pull names out of tabular text.
// It is derived per input and never cached.
type TableStructure struct {
	Separator SeparatorKind `json:"separator" yaml:"separator"`

	// NameColumn is the zero-based column holding names, or NoColumn
	NameColumn int `json:"name_column" yaml:"name_column"`

	// ColumnBoundaries holds the start offsets of the multi-space runs
	// between columns; only set for SeparatorSpaces
	ColumnBoundaries []int `json:"column_boundaries,omitempty" yaml:"column_boundaries,omitempty"`

	// DataStartLine is the index of the first line holding records
	DataStartLine int `json:"data_start_line" yaml:"data_start_line"`
}

// HasNameColumn reports whether a name column was identified
func (s TableStructure) HasNameColumn() bool {
	return s.NameColumn != NoColumn
}

const (
	headerScanLines  = 3
	patternScanLines = 6
)

// Package-level tables, read-only after init.
var (
	headerTerms = []string{
		"name", "ssn", "social security", "credit card", "first", "last",
		"customer", "email", "phone", "address", "visa", "mc", "amex",
	}

	ssnPattern      = regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)
	cardPattern     = regexp.MustCompile(`\d{4}[-/ ]?\d{4}[-/ ]?\d{4}[-/ ]?\d{4}`)
	columnGap       = regexp.MustCompile(`\s{2,}|\t`)
	spaceRunPattern = regexp.MustCompile(`\s{2,}`)
)

// Detect reports whether text looks like tabular data.
//
// Within the first three lines a header term counts as an indicator and
// marks a header line; a line with more than one column gap counts as
// another. Within the first six lines, lines holding an SSN- or card-shaped
// number are counted, and so are record lines that hold such a number
// next to a column gap.
func Detect(text string) bool {
	tabular, _ := detect(text)
	return tabular
}

// detect also reports whether a record line was the only evidence. Such
// input has no header to place a name column from.
func detect(text string) (tabular, recordOnly bool) {
	lines := strings.Split(text, "\n")

	indicators := 0
	headerLineFound := false
	for _, line := range lines[:min(headerScanLines, len(lines))] {
		if containsHeaderTerm(strings.ToLower(line)) {
			headerLineFound = true
			indicators++
		}
		if len(columnGap.FindAllStringIndex(line, -1)) > 1 {
			indicators++
		}
	}

	patternCount := 0
	recordLines := 0
	for _, line := range lines[:min(patternScanLines, len(lines))] {
		if _, ok := findIdentifier(line); !ok {
			continue
		}
		patternCount++
		if columnGap.MatchString(line) {
			recordLines++
		}
	}

	if indicators >= 2 || patternCount >= 2 || headerLineFound {
		return true, false
	}
	return recordLines >= 1, recordLines >= 1
}

// InferStructure derives separator, name column and data start from the
// first three non-empty lines. Later lines override the separator and
// column boundaries found on earlier ones.
func InferStructure(lines []string) TableStructure {
	structure := TableStructure{
		Separator:     SeparatorNone,
		NameColumn:    NoColumn,
		DataStartLine: NoColumn,
	}

	seen := 0
	for i, line := range lines {
		if seen == headerScanLines {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		seen++

		lower := strings.ToLower(line)

		// Without a header the first record starts at line zero
		if seen == 1 && !containsHeaderTerm(lower) {
			structure.DataStartLine = 0
		}

		runs := spaceRunPattern.FindAllStringIndex(line, -1)
		switch {
		case strings.Count(line, "\t") > 1:
			structure.Separator = SeparatorTab
		case strings.Count(line, ",") > 1:
			structure.Separator = SeparatorComma
		case len(runs) >= 1:
			structure.Separator = SeparatorSpaces
			structure.ColumnBoundaries = make([]int, len(runs))
			for j, run := range runs {
				structure.ColumnBoundaries[j] = run[0]
			}
		}

		if strings.Contains(lower, "first") && strings.Contains(lower, "last") && strings.Contains(lower, "name") {
			structure.NameColumn = 0
			structure.DataStartLine = i + 1
		} else if strings.Contains(lower, "name") {
			if col := nameColumnIn(lower, structure); col != NoColumn {
				structure.NameColumn = col
				structure.DataStartLine = i + 1
			}
		}
	}

	// First-column convention
	if structure.Separator != SeparatorNone && structure.NameColumn == NoColumn {
		structure.NameColumn = 0
	}
	if structure.DataStartLine == NoColumn {
		structure.DataStartLine = 1
	}

	return structure
}

// nameColumnIn returns the index of the header segment mentioning "name"
func nameColumnIn(lower string, structure TableStructure) int {
	switch structure.Separator {
	case SeparatorSpaces:
		last := 0
		for j, pos := range structure.ColumnBoundaries {
			if strings.Contains(clampSlice(lower, last, pos), "name") {
				return j
			}
			last = pos
		}
		if strings.Contains(clampSlice(lower, last, len(lower)), "name") {
			return len(structure.ColumnBoundaries)
		}
	case SeparatorTab, SeparatorComma:
		for j, col := range strings.Split(lower, structure.delimiter()) {
			if strings.Contains(col, "name") {
				return j
			}
		}
	}
	return NoColumn
}

func (s TableStructure) delimiter() string {
	if s.Separator == SeparatorTab {
		return "\t"
	}
	return ","
}

func containsHeaderTerm(lower string) bool {
	for _, term := range headerTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// findIdentifier locates an SSN-shaped number, or failing that a card-shaped one
func findIdentifier(line string) ([]int, bool) {
	if loc := ssnPattern.FindStringIndex(line); loc != nil {
		return loc, true
	}
	if loc := cardPattern.FindStringIndex(line); loc != nil {
		return loc, true
	}
	return nil, false
}

// clampSlice returns s[from:to] with both bounds clamped into s
func clampSlice(s string, from, to int) string {
	from = max(0, min(from, len(s)))
	to = max(from, min(to, len(s)))
	return s[from:to]
}
