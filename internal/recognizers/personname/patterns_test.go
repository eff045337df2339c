// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescan/internal/detector"
)

func TestPatternManager_FamilyOrder(t *testing.T) {
	var names []string
	for _, p := range NewPatternManager().GetPatterns() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"standard_name", "middle_initial", "titled_name", "last_first_format",
		"all_caps_name", "apostrophe_name", "hyphenated_name", "relaxed_name",
	}, names)
}

func TestFindCandidates(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []PatternMatch
	}{
		{
			name: "titled name replaces nested plain name",
			text: "Dr. Jane Smith went home",
			want: []PatternMatch{{Start: 0, End: 14, Score: 0.85, Label: "titled_name"}},
		},
		{
			name: "surname first",
			text: "Smith, John paid",
			want: []PatternMatch{{Start: 0, End: 11, Score: 0.8, Label: "last_first_format"}},
		},
		{
			name: "hyphenated",
			text: "Mary-Kate called",
			want: []PatternMatch{{Start: 0, End: 9, Score: 0.8, Label: "hyphenated_name"}},
		},
		{
			name: "apostrophe",
			text: "we met Dell'Acqua yesterday",
			want: []PatternMatch{{Start: 7, End: 17, Score: 0.8, Label: "apostrophe_name"}},
		},
		{
			name: "equal span keeps earlier family",
			text: "JOHN SMITH",
			want: []PatternMatch{{Start: 0, End: 10, Score: 0.75, Label: "standard_name"}},
		},
		{
			name: "middle initial",
			text: "signed by John Q. Public",
			want: []PatternMatch{{Start: 10, End: 24, Score: 0.85, Label: "middle_initial"}},
		},
		{
			name: "validator rejects sentence start",
			text: "The Status",
			want: nil,
		},
		{
			name: "no capitals",
			text: "nothing to see here",
			want: nil,
		},
	}

	pm := NewPatternManager()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pm.FindCandidates(tc.text))
		})
	}
}

func TestFindCandidates_NoNestingInOutput(t *testing.T) {
	text := "Prof. Alan Turing met Mary Ann Lee and SMITH, JOHN at Grace Hopper's lab"
	matches := NewPatternManager().FindCandidates(text)
	require.NotEmpty(t, matches)

	for i, a := range matches {
		for j, b := range matches {
			if i == j {
				continue
			}
			assert.False(t, a.Start >= b.Start && a.End <= b.End,
				"match %q nested in %q", text[a.Start:a.End], text[b.Start:b.End])
		}
	}
}

func TestRecognizer_Analyze(t *testing.T) {
	r := NewRecognizer()
	spans, err := r.Analyze(context.Background(), "Dr. Jane Smith went home")
	require.NoError(t, err)
	require.Len(t, spans, 1)

	assert.Equal(t, detector.Span{
		Start:   0,
		End:     14,
		Entity:  detector.EntityPerson,
		Score:   0.85,
		Source:  RecognizerName,
		Pattern: "titled_name",
	}, spans[0])
	assert.Equal(t, []detector.EntityKind{detector.EntityPerson}, r.SupportedEntities())
}

func TestRecognizer_HelpListsEveryFamily(t *testing.T) {
	info := NewRecognizer().GetRecognizerInfo()
	assert.Equal(t, "pattern_name", info.Name)
	assert.Len(t, info.ScoreFactors, 8)
}
