// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"context"
	"fmt"
	"strings"

	"namescan/internal/detector"
	"namescan/internal/recognizers/personname"
)

// RecognizerName identifies spans produced by the tabular recognizer
const RecognizerName detector.RecognizerID = "tabular_name"

const (
	tabularScore   = 0.85
	tabularPattern = "tabular_data"
)

// AnchorMode selects how an extracted cell is mapped back to text offsets
type AnchorMode int

const (
	// AnchorLine places the span at the cell's own position in its line
	AnchorLine AnchorMode = iota
	// AnchorFirstOccurrence places the span at the first occurrence of
	// the cell text anywhere in the input
	AnchorFirstOccurrence
)

// ParseAnchorMode converts a configuration value into an AnchorMode
func ParseAnchorMode(s string) (AnchorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line":
		return AnchorLine, nil
	case "first_occurrence":
		return AnchorFirstOccurrence, nil
	default:
		return AnchorLine, fmt.Errorf("unknown tabular anchor mode %q (want line or first_occurrence)", s)
	}
}

// Inspection is the tabular view of one input, used by explain reports
type Inspection struct {
	IsTabular bool           `json:"is_tabular" yaml:"is_tabular"`
	Structure TableStructure `json:"structure" yaml:"structure"`
}

// Inspect runs detection and, for tabular input, structure inference
func Inspect(text string) Inspection {
	tabular, recordOnly := detect(text)
	if !tabular {
		return Inspection{Structure: TableStructure{NameColumn: NoColumn}}
	}
	structure := InferStructure(strings.Split(text, "\n"))
	if recordOnly {
		// Names are taken from in front of the identifier instead
		structure.NameColumn = NoColumn
	}
	return Inspection{IsTabular: true, Structure: structure}
}

// Recognizer reports names found in the name column of tabular text.
type Recognizer struct {
	anchor AnchorMode
}

// NewRecognizer creates a tabular recognizer with line anchoring
func NewRecognizer() *Recognizer {
	return &Recognizer{anchor: AnchorLine}
}

// WithAnchor sets the offset anchoring mode
func (r *Recognizer) WithAnchor(mode AnchorMode) *Recognizer {
	r.anchor = mode
	return r
}

func (r *Recognizer) Name() detector.RecognizerID {
	return RecognizerName
}

func (r *Recognizer) SupportedEntities() []detector.EntityKind {
	return []detector.EntityKind{detector.EntityPerson}
}

// Analyze implements detector.Recognizer. Non-tabular text yields no spans.
func (r *Recognizer) Analyze(_ context.Context, text string) ([]detector.Span, error) {
	inspection := Inspect(text)
	if !inspection.IsTabular {
		return nil, nil
	}
	structure := inspection.Structure

	var spans []detector.Span
	lineStart := 0
	for i, line := range strings.Split(text, "\n") {
		offset := lineStart
		lineStart += len(line) + 1

		if i < structure.DataStartLine || strings.TrimSpace(line) == "" {
			continue
		}

		var (
			candidate string
			at        int
			ok        bool
		)
		if structure.HasNameColumn() {
			candidate, at, ok = locateColumn(line, structure)
		} else {
			candidate, at, ok = candidateBeforeIdentifier(line)
		}
		if !ok || !personname.LooksLikeName(candidate) {
			continue
		}

		start := offset + at
		if r.anchor == AnchorFirstOccurrence {
			start = strings.Index(text, candidate)
		}

		spans = append(spans, detector.Span{
			Start:   start,
			End:     start + len(candidate),
			Entity:  detector.EntityPerson,
			Score:   tabularScore,
			Source:  RecognizerName,
			Pattern: tabularPattern,
		})
	}

	return spans, nil
}
