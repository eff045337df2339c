// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenPattern = regexp.MustCompile(`\S+`)

// ExtractColumn returns the trimmed value of the name column of line
func ExtractColumn(line string, structure TableStructure) (string, bool) {
	value, _, ok := locateColumn(line, structure)
	return value, ok
}

// locateColumn returns the trimmed name cell of line and its byte offset
// within line. Boundaries beyond the line end are clamped.
func locateColumn(line string, structure TableStructure) (string, int, bool) {
	if !structure.HasNameColumn() {
		return "", 0, false
	}
	col := structure.NameColumn

	var from, to int
	switch structure.Separator {
	case SeparatorSpaces:
		bounds := structure.ColumnBoundaries
		switch {
		case len(bounds) == 0:
			from, to = 0, len(line)
		case col == 0:
			from, to = 0, bounds[0]
		case col < len(bounds):
			from, to = bounds[col-1], bounds[col]
		default:
			from, to = bounds[len(bounds)-1], len(line)
		}
		from = max(0, min(from, len(line)))
		to = max(from, min(to, len(line)))

	case SeparatorTab, SeparatorComma:
		delim := structure.delimiter()
		cells := strings.Split(line, delim)
		if col >= len(cells) {
			return "", 0, false
		}
		for _, cell := range cells[:col] {
			from += len(cell) + len(delim)
		}
		to = from + len(cells[col])

	default:
		return "", 0, false
	}

	return trimCell(line[from:to], from)
}

func trimCell(cell string, offset int) (string, int, bool) {
	trimmed := strings.TrimLeftFunc(cell, unicode.IsSpace)
	offset += len(cell) - len(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return "", 0, false
	}
	return trimmed, offset, true
}

// candidateBeforeIdentifier takes the text in front of the first SSN- or
// card-shaped number on line. More than three words keeps only the last two.
func candidateBeforeIdentifier(line string) (string, int, bool) {
	loc, ok := findIdentifier(line)
	if !ok {
		return "", 0, false
	}
	prefix := line[:loc[0]]

	tokens := tokenPattern.FindAllStringIndex(prefix, -1)
	if len(tokens) == 0 {
		return "", 0, false
	}
	first := tokens[0]
	if len(tokens) > 3 {
		first = tokens[len(tokens)-2]
	}
	last := tokens[len(tokens)-1]
	return prefix[first[0]:last[1]], first[0], true
}
