// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import "namescan/internal/help"

// GetRecognizerInfo returns standardized information about the pattern recognizer
func (r *Recognizer) GetRecognizerInfo() help.RecognizerInfo {
	info := help.RecognizerInfo{
		Name:             string(RecognizerName),
		ShortDescription: "Finds name-shaped substrings in free text with eight pattern families",
		DetailedDescription: `The pattern recognizer runs eight name-shape families over the whole text. Every raw match must pass the name heuristics:

- 4 to 40 characters after trimming
- not a stop-list word (weekdays, months, card brands, generic nouns)
- a single token must contain an uppercase letter
- no digits or symbols such as @ # $ % ( ) / = +
- does not start with "the", "and", "but", "for", "with" or "from"
- at least half of the words start with an uppercase letter

A match nested inside an earlier accepted match is dropped, and a match that encloses earlier ones replaces them. Partial overlaps are left for the merge step.`,
		ConfigurationInfo: `recognizers:
  patterns:
    enabled: true`,
		Examples: []string{
			"echo 'Dr. Jane Smith went home' | namescan -show-match",
			"namescan -entities PERSON letter.txt",
		},
	}

	for _, p := range defaultPatterns {
		info.Patterns = append(info.Patterns, p.Name+": "+p.Description)
		info.ScoreFactors = append(info.ScoreFactors, help.ScoreFactor{
			Name:        p.Name,
			Description: p.Description,
			Score:       p.Score,
		})
	}
	return info
}
