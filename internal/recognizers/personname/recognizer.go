// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"context"

	"namescan/internal/detector"
)

// RecognizerName identifies spans produced by the pattern recognizer
const RecognizerName detector.RecognizerID = "pattern_name"

// Recognizer reports name-shaped substrings of free text as PERSON spans.
type Recognizer struct {
	patternManager *PatternManager
}

// NewRecognizer creates a pattern recognizer over the default families
func NewRecognizer() *Recognizer {
	return &Recognizer{patternManager: NewPatternManager()}
}

func (r *Recognizer) Name() detector.RecognizerID {
	return RecognizerName
}

func (r *Recognizer) SupportedEntities() []detector.EntityKind {
	return []detector.EntityKind{detector.EntityPerson}
}

// Analyze implements detector.Recognizer. It never fails.
func (r *Recognizer) Analyze(_ context.Context, text string) ([]detector.Span, error) {
	matches := r.patternManager.FindCandidates(text)
	spans := make([]detector.Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, detector.Span{
			Start:   m.Start,
			End:     m.End,
			Entity:  detector.EntityPerson,
			Score:   m.Score,
			Source:  RecognizerName,
			Pattern: m.Label,
		})
	}
	return spans, nil
}
