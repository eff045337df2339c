// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tabular

import "namescan/internal/help"

// GetRecognizerInfo returns standardized information about the tabular recognizer
func (r *Recognizer) GetRecognizerInfo() help.RecognizerInfo {
	return help.RecognizerInfo{
		Name:             string(RecognizerName),
		ShortDescription: "Extracts names from the name column of table-like text",
		DetailedDescription: `The tabular recognizer first decides whether the input looks like a table.
Header terms (name, ssn, first, last, customer, email, phone, address, visa, mc, amex),
repeated column gaps, and SSN- or card-shaped numbers all count toward that decision.

For tabular input it infers the separator (tab, comma or runs of spaces) and the
column whose header mentions "name". Each record line below the header contributes
the value of that column. Without a name column it takes the words in front of the
first SSN- or card-shaped number on the line.

Every extracted value must pass the same name heuristics as the pattern recognizer.`,
		Patterns: []string{
			"Tab, comma or space separated tables with a name header",
			"Record lines of the form <name> <SSN or card number>",
		},
		ScoreFactors: []help.ScoreFactor{
			{Name: tabularPattern, Description: "Name taken from a table cell", Score: tabularScore},
		},
		ConfigurationInfo: `recognizers:
  tabular:
    enabled: true
    anchor: line    # or first_occurrence`,
		Examples: []string{
			"namescan -show-match customers.csv",
			"printf 'Name    SSN\\nJohn Doe    123-45-6789\\n' | namescan -format json",
		},
	}
}
