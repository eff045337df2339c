// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EntityKind tags what a span denotes. Kinds other than Person are carried
// through merging untouched; merging only compares spans of equal kind.
type EntityKind string

const (
	EntityPerson EntityKind = "PERSON"
	EntityOther  EntityKind = "OTHER"
)

// ParseEntityKind normalizes an entity name such as "person" or "PER".
func ParseEntityKind(name string) EntityKind {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PERSON", "PER", "PERSON_NAME":
		return EntityPerson
	case "":
		return ""
	default:
		return EntityKind(strings.ToUpper(strings.TrimSpace(name)))
	}
}

// RecognizerID names the recognizer that produced a span
type RecognizerID string

// Span is a half-open [Start, End) byte range in the analyzed text.
// Spans are values; nothing downstream mutates one in place.
type Span struct {
	Start   int          `json:"start" yaml:"start"`
	End     int          `json:"end" yaml:"end"`
	Entity  EntityKind   `json:"entity_type" yaml:"entity_type"`
	Score   float64      `json:"score" yaml:"score"`
	Source  RecognizerID `json:"source" yaml:"source"`
	Pattern string       `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Len returns the span width in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether o lies inside s (inclusive bounds).
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

// Text returns the covered substring, or "" if the span does not fit text.
func (s Span) Text(text string) string {
	if CheckSpan(text, s) != nil {
		return ""
	}
	return text[s.Start:s.End]
}

// ErrInvalidSpan marks a span that violates 0 <= start < end <= len(text).
var ErrInvalidSpan = errors.New("invalid span offsets")

// CheckSpan verifies the offset invariant of s against text.
func CheckSpan(text string, s Span) error {
	if s.Start < 0 || s.Start >= s.End || s.End > len(text) {
		return fmt.Errorf("%w: [%d,%d) over text of length %d from %s", ErrInvalidSpan, s.Start, s.End, len(text), s.Source)
	}
	return nil
}

// Recognizer detects spans in text. Implementations must be safe for
// concurrent use; the built-in ones hold only read-only tables.
type Recognizer interface {
	// Name returns the recognizer identifier stamped on produced spans
	Name() RecognizerID

	// SupportedEntities lists the entity kinds the recognizer can produce
	SupportedEntities() []EntityKind

	// Analyze returns the spans found in text
	Analyze(ctx context.Context, text string) ([]Span, error)
}

// Supports reports whether r can produce any of the requested kinds.
// An empty request matches every recognizer.
func Supports(r Recognizer, wanted []EntityKind) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, have := range r.SupportedEntities() {
		for _, w := range wanted {
			if have == w {
				return true
			}
		}
	}
	return false
}
