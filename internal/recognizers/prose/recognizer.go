// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package prose runs the in-process statistical entity tagger from
// github.com/jdkato/prose/v2 as a recognizer.
package prose

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"

	"namescan/internal/detector"
)

// RecognizerName identifies spans produced by the prose tagger
const RecognizerName detector.RecognizerID = "prose_ner"

// The tagger reports no confidence; every entity gets this score.
const proseScore = 0.7

// Recognizer tags PERSON entities with prose's averaged perceptron model.
type Recognizer struct{}

// NewRecognizer creates a prose recognizer
func NewRecognizer() *Recognizer {
	return &Recognizer{}
}

func (r *Recognizer) Name() detector.RecognizerID {
	return RecognizerName
}

func (r *Recognizer) SupportedEntities() []detector.EntityKind {
	return []detector.EntityKind{detector.EntityPerson}
}

// Analyze implements detector.Recognizer
func (r *Recognizer) Analyze(ctx context.Context, text string) ([]detector.Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose: tag document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			names = append(names, ent.Text)
		}
	}

	var spans []detector.Span
	for _, loc := range locate(text, names) {
		spans = append(spans, detector.Span{
			Start:   loc[0],
			End:     loc[1],
			Entity:  detector.EntityPerson,
			Score:   proseScore,
			Source:  RecognizerName,
			Pattern: "prose",
		})
	}
	return spans, nil
}

// locate maps entity texts, in document order, back to byte offsets.
// Entity text is rebuilt from tokens, so whitespace between tokens is
// matched loosely. An entity that cannot be found is skipped.
func locate(text string, entities []string) [][2]int {
	var out [][2]int
	cursor := 0
	for _, ent := range entities {
		tokens := strings.Fields(ent)
		if len(tokens) == 0 {
			continue
		}
		quoted := make([]string, len(tokens))
		for i, tok := range tokens {
			quoted[i] = regexp.QuoteMeta(tok)
		}
		re, err := regexp.Compile(strings.Join(quoted, `\s*`))
		if err != nil {
			continue
		}

		loc := re.FindStringIndex(text[cursor:])
		if loc == nil {
			continue
		}
		out = append(out, [2]int{cursor + loc[0], cursor + loc[1]})
		cursor += loc[1]
	}
	return out
}
