// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package prose

import "namescan/internal/help"

// GetRecognizerInfo returns standardized information about the prose recognizer
func (r *Recognizer) GetRecognizerInfo() help.RecognizerInfo {
	return help.RecognizerInfo{
		Name:             string(RecognizerName),
		ShortDescription: "In-process statistical PERSON tagger (prose)",
		DetailedDescription: `Runs the prose averaged-perceptron entity tagger over the text and reports
PERSON entities. The tagger gives no confidence, so every span scores 0.70.
It needs no external service but is slower than the pattern recognizers.`,
		ScoreFactors: []help.ScoreFactor{
			{Name: "prose", Description: "PERSON entity from the statistical tagger", Score: proseScore},
		},
		ConfigurationInfo: `recognizers:
  prose:
    enabled: true`,
		Examples: []string{
			"namescan -prose memo.txt",
		},
	}
}
