// Package sampler extracts a compact, representative text sample from a
// full manuscript for model analysis, keeping token spend bounded.
package sampler

import (
	"strings"
)

// separator delimits the sampled regions so a reader, human or model, can
// tell they are discontiguous.
const separator = "\n\n---\n\n"

// relative positions of the sampled regions across the document. The edges
// carry the strongest genre and tone signal, the middle anchors pacing.
var positions = []float64{0.0, 0.25, 0.5, 0.75, 1.0}

// Sampler picks WordBudget words spread across five document locations.
type Sampler struct {
	// WordBudget is the total words across all regions.
	WordBudget int
}

// New returns a Sampler with the given total word budget. Non-positive
// budgets take the default of 1000.
func New(wordBudget int) *Sampler {
	if wordBudget <= 0 {
		wordBudget = 1000
	}
	return &Sampler{WordBudget: wordBudget}
}

// Sample returns the joined regions. Documents shorter than the budget come
// back whole, and overlapping regions in short documents collapse so no
// word appears twice.
func (s *Sampler) Sample(text string) string {
	words := strings.Fields(text)
	if len(words) <= s.WordBudget {
		return strings.Join(words, " ")
	}

	per := s.WordBudget / len(positions)
	regions := make([][2]int, 0, len(positions))
	for _, pos := range positions {
		start := int(pos * float64(len(words)-per))
		if start < 0 {
			start = 0
		}
		end := start + per
		if end > len(words) {
			end = len(words)
		}
		regions = append(regions, [2]int{start, end})
	}

	// Merge regions that overlap in a short document.
	merged := regions[:1]
	for _, r := range regions[1:] {
		last := &merged[len(merged)-1]
		if r[0] <= last[1] {
			if r[1] > last[1] {
				last[1] = r[1]
			}
			continue
		}
		merged = append(merged, r)
	}

	parts := make([]string, 0, len(merged))
	for _, r := range merged {
		parts = append(parts, strings.Join(words[r[0]:r[1]], " "))
	}
	return strings.Join(parts, separator)
}
