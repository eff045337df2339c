// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dedup merges the span lists of several recognizers.
//
// Only containment is resolved: when one span of a kind lies inside another
// span of the same kind, a single span survives. Partial overlaps are kept
// as they are.
package dedup

import (
	"sort"

	"namescan/internal/detector"
)

// Merge returns the deduplicated spans. The input slice is not modified.
//
// Spans are visited by start ascending and, for equal starts, end
// descending; survivors keep that visiting order. A span inside (or equal
// to) a kept span of the same kind is dropped. A span enclosing a kept one
// replaces it only when its score is strictly greater. Comparison stops at
// the first containment relation found.
func Merge(spans []detector.Span) []detector.Span {
	if len(spans) == 0 {
		return nil
	}

	ordered := make([]detector.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start < ordered[j].Start
		}
		return ordered[i].End > ordered[j].End
	})

	kept := make([]detector.Span, 0, len(ordered))
	for _, s := range ordered {
		idx := firstContainment(kept, s)
		if idx < 0 {
			kept = append(kept, s)
			continue
		}
		if !kept[idx].Contains(s) && s.Score > kept[idx].Score {
			kept[idx] = s
		}
	}

	return kept
}

func firstContainment(kept []detector.Span, s detector.Span) int {
	for i, k := range kept {
		if k.Entity != s.Entity {
			continue
		}
		if k.Contains(s) || s.Contains(k) {
			return i
		}
	}
	return -1
}
