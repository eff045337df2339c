// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package literal

import "namescan/internal/help"

// GetRecognizerInfo returns standardized information about the literal recognizer
func (r *Recognizer) GetRecognizerInfo() help.RecognizerInfo {
	return help.RecognizerInfo{
		Name:             string(RecognizerName),
		ShortDescription: "Matches a caller-supplied list of names as whole words",
		DetailedDescription: `The literal recognizer reports every whole-word occurrence of each configured name.
Names are matched exactly as written (case-sensitive) and are not checked against the
name heuristics, so it also covers single-word names and unusual spellings.`,
		Patterns: []string{"Exact configured names bounded by word boundaries"},
		ScoreFactors: []help.ScoreFactor{
			{Name: "literal", Description: "Configured name found verbatim", Score: r.score},
		},
		ConfigurationInfo: `recognizers:
  literal:
    names: ["Ann Lee", "Bo Chen"]
    score: 0.9`,
		Examples: []string{
			"namescan -names \"Ann Lee,Bo Chen\" notes.txt",
		},
	}
}
