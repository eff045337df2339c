// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"regexp"
)

// NamePattern is a compiled name-shape rule with its score and label
type NamePattern struct {
	Pattern     *regexp.Regexp
	Name        string
	Description string
	Score       float64
}

// PatternMatch is a validated match produced by a NamePattern
type PatternMatch struct {
	Start int
	End   int
	Score float64
	Label string
}

// PatternManager applies the ordered name-shape families
type PatternManager struct {
	patterns []NamePattern
}

// defaultPatterns is compiled once and never mutated, so a single
// PatternManager value may be shared across goroutines.
var defaultPatterns = compileAllPatterns()

// NewPatternManager returns a manager over the shared compiled patterns
func NewPatternManager() *PatternManager {
	return &PatternManager{patterns: defaultPatterns}
}

func compileAllPatterns() []NamePattern {
	patternDefinitions := []struct {
		name        string
		pattern     string
		description string
		score       float64
	}{
		{
			name:        "standard_name",
			pattern:     `\b[A-Z][a-zA-Z'\-]+\s+[A-Z][a-zA-Z'\-]+\b`,
			description: "First Last",
			score:       0.75,
		},
		{
			name:        "middle_initial",
			pattern:     `\b[A-Z][a-zA-Z'\-]+\s+[A-Z]\.?\s+[A-Z][a-zA-Z'\-]+\b`,
			description: "First M. Last",
			score:       0.85,
		},
		{
			name:        "titled_name",
			pattern:     `\b(?:Mr\.|Mrs\.|Ms\.|Dr\.|Prof\.)\s+[A-Z][a-zA-Z'\-]+(?:\s+[A-Z][a-zA-Z'\-]+)+\b`,
			description: "Title First Last (Mr./Mrs./Ms./Dr./Prof.)",
			score:       0.85,
		},
		{
			name:        "last_first_format",
			pattern:     `\b[A-Z][a-zA-Z'\-]+,\s*[A-Z][a-zA-Z'\-]+\b`,
			description: "Last, First",
			score:       0.8,
		},
		{
			name:        "all_caps_name",
			pattern:     `\b[A-Z]{2,}(?:\s+[A-Z]{2,})+\b`,
			description: "FIRST LAST",
			score:       0.7,
		},
		{
			name:        "apostrophe_name",
			pattern:     `\b[A-Z][a-zA-Z\-]+'[A-Z]?[a-zA-Z\-]+\b`,
			description: "O'Connor",
			score:       0.8,
		},
		{
			name:        "hyphenated_name",
			pattern:     `\b[A-Z][a-zA-Z]+-[A-Z][a-zA-Z]+\b`,
			description: "Smith-Jones",
			score:       0.8,
		},
		{
			name:        "relaxed_name",
			pattern:     `\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}\b`,
			description: "Two or three capitalized words",
			score:       0.6,
		},
	}

	patterns := make([]NamePattern, len(patternDefinitions))
	for i, def := range patternDefinitions {
		patterns[i] = NamePattern{
			Pattern:     regexp.MustCompile(def.pattern),
			Name:        def.name,
			Description: def.description,
			Score:       def.score,
		}
	}
	return patterns
}

// GetPatterns returns all compiled patterns in registration order
func (pm *PatternManager) GetPatterns() []NamePattern {
	return pm.patterns
}

// FindCandidates runs every family over text and keeps the matches that
// LooksLikeName accepts. A match nested inside (or equal to) an accepted one
// is dropped; a match that strictly encloses accepted ones replaces them.
// Overlaps that do not nest are all kept.
func (pm *PatternManager) FindCandidates(text string) []PatternMatch {
	var accepted []PatternMatch

	for _, pattern := range pm.patterns {
		for _, loc := range pattern.Pattern.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if !LooksLikeName(text[start:end]) {
				continue
			}

			nested := false
			for _, prev := range accepted {
				if start >= prev.Start && end <= prev.End {
					nested = true
					break
				}
			}
			if nested {
				continue
			}

			kept := accepted[:0]
			for _, prev := range accepted {
				if prev.Start >= start && prev.End <= end {
					continue
				}
				kept = append(kept, prev)
			}
			accepted = append(kept, PatternMatch{
				Start: start,
				End:   end,
				Score: pattern.Score,
				Label: pattern.Name,
			})
		}
	}

	return accepted
}
