// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minNameLength = 4
	maxNameLength = 40

	// At least half of the tokens must start with an uppercase letter
	minCapitalRatio = 0.5
)

// Package-level tables, read-only after init.
var (
	// stopWords are compared against the whole lowercased candidate, never as substrings
	stopWords = func() map[string]struct{} {
		words := []string{
			"test", "example", "demo", "sample", "user", "customer", "client",
			"hello", "world", "system", "program", "data", "file", "server",
			"please", "thank", "thanks", "help", "support", "service",
			"update", "status", "report", "document", "project",
			"appears", "volume", "volumes", "amount", "total", "number",
			"first", "last", "name", "address", "email", "phone",
			"monday", "tuesday", "wednesday", "thursday", "friday",
			"january", "february", "march", "april", "may", "june", "july",
			"august", "september", "october", "november", "december",
			"credit", "card", "visa", "mc", "amex", "mastercard",
		}
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			m[w] = struct{}{}
		}
		return m
	}()

	disallowedChars = regexp.MustCompile(`[0-9@#$%^&*()\[\]{}<>?/\\|=+]`)

	leadingFunctionWords = []string{"the ", "and ", "but ", "for ", "with ", "from "}
)

// LooksLikeName reports whether candidate plausibly denotes a personal name.
// Every heuristic must pass; the checks short-circuit on the first failure.
func LooksLikeName(candidate string) bool {
	text := strings.TrimSpace(candidate)

	n := utf8.RuneCountInString(text)
	if n < minNameLength || n > maxNameLength {
		return false
	}

	lower := strings.ToLower(text)
	if _, stop := stopWords[lower]; stop {
		return false
	}

	if !strings.Contains(text, " ") && !strings.ContainsFunc(text, unicode.IsUpper) {
		return false
	}

	if disallowedChars.MatchString(text) {
		return false
	}

	for _, prefix := range leadingFunctionWords {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	return capitalRatio(text) >= minCapitalRatio
}

// IsStopWord reports whether word is on the non-name stop-list
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

func capitalRatio(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	capitalized := 0
	for _, tok := range tokens {
		first, _ := utf8.DecodeRuneInString(tok)
		if unicode.IsUpper(first) {
			capitalized++
		}
	}
	return float64(capitalized) / float64(len(tokens))
}
