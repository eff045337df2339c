// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package literal

import (
	"context"
	"regexp"
	"strings"

	"namescan/internal/detector"
)

// RecognizerName identifies spans produced by the literal recognizer
const RecognizerName detector.RecognizerID = "literal_name"

// DefaultScore is assigned to literal hits unless configured otherwise
const DefaultScore = 0.9

type namePattern struct {
	name    string
	pattern *regexp.Regexp
}

// Recognizer finds caller-supplied names as whole words.
type Recognizer struct {
	names []namePattern
	score float64
}

// NewRecognizer compiles one word-bounded pattern per distinct non-empty
// name. Names are matched literally; regex metacharacters have no meaning.
func NewRecognizer(names []string, score float64) *Recognizer {
	if score <= 0 || score > 1 {
		score = DefaultScore
	}

	r := &Recognizer{score: score}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		r.names = append(r.names, namePattern{
			name:    name,
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	return r
}

// Names returns the configured names in registration order
func (r *Recognizer) Names() []string {
	out := make([]string, len(r.names))
	for i, n := range r.names {
		out[i] = n.name
	}
	return out
}

func (r *Recognizer) Name() detector.RecognizerID {
	return RecognizerName
}

func (r *Recognizer) SupportedEntities() []detector.EntityKind {
	return []detector.EntityKind{detector.EntityPerson}
}

// Analyze implements detector.Recognizer. It never fails.
func (r *Recognizer) Analyze(_ context.Context, text string) ([]detector.Span, error) {
	var spans []detector.Span
	for _, n := range r.names {
		for _, loc := range n.pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, detector.Span{
				Start:   loc[0],
				End:     loc[1],
				Entity:  detector.EntityPerson,
				Score:   r.score,
				Source:  RecognizerName,
				Pattern: "literal:" + n.name,
			})
		}
	}
	return spans, nil
}
