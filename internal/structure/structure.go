// Package structure turns a page-indexed document and its optional embedded
// table of contents into an ordered, validated list of section candidates.
package structure

import (
	"fmt"
	"sort"

	"github.com/audiobooksmith/manuscript/internal/types"
)

// SectionCandidate is a provisionally detected structural unit. Candidates
// are never mutated after validation, only accepted or discarded.
type SectionCandidate struct {
	Kind     types.SectionKind `json:"kind"`
	RawTitle string            `json:"raw_title"`
	// Title is the human-readable form after normalization.
	Title  string `json:"title"`
	Number *int   `json:"number,omitempty"`

	// TargetPage is the nominal ToC page (0 when not ToC-sourced).
	TargetPage int `json:"target_page,omitempty"`

	StartPage int `json:"start_page"`
	StartLine int `json:"start_line"`
	EndPage   int `json:"end_page"`
	EndLine   int `json:"end_line"`

	Confidence types.ConfidenceLevel `json:"confidence"`
	Method     types.DetectionMethod `json:"detection_method"`

	// Located reports whether the start offset was resolved in the text.
	// Unlocated candidates are retained at low confidence for manual
	// review rather than dropped.
	Located bool `json:"located"`

	Body      string `json:"-"`
	WordCount int    `json:"word_count"`
}

// BookStructure is the validated output of the structuring pipeline.
type BookStructure struct {
	Sections    []SectionCandidate  `json:"sections"`
	HasPrologue bool                `json:"has_prologue"`
	HasEpilogue bool                `json:"has_epilogue"`
	Type        types.StructureType `json:"structure_type"`
}

// Build assembles a BookStructure from candidates, ordering them by
// document position and deriving the book-level flags.
func Build(sections []SectionCandidate) BookStructure {
	sorted := make([]SectionCandidate, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartPage != sorted[j].StartPage {
			return sorted[i].StartPage < sorted[j].StartPage
		}
		return sorted[i].StartLine < sorted[j].StartLine
	})

	bs := BookStructure{Sections: sorted, Type: types.StructureFlat}
	for _, s := range sorted {
		switch s.Kind {
		case types.KindPrologue:
			bs.HasPrologue = true
		case types.KindEpilogue:
			bs.HasEpilogue = true
		case types.KindPart:
			bs.Type = types.StructureHierarchical
		}
	}
	return bs
}

// Validate checks the structural invariants: sections are position-ordered
// and non-overlapping, and at most one prologue and one epilogue survive.
func (b *BookStructure) Validate() error {
	prologues, epilogues := 0, 0
	for i, s := range b.Sections {
		switch s.Kind {
		case types.KindPrologue:
			prologues++
		case types.KindEpilogue:
			epilogues++
		}
		if i == 0 || !s.Located || !b.Sections[i-1].Located {
			continue
		}
		prev := b.Sections[i-1]
		if s.StartPage < prev.StartPage ||
			(s.StartPage == prev.StartPage && s.StartLine < prev.StartLine) {
			return fmt.Errorf("sections out of order at index %d (%q before %q)", i, prev.Title, s.Title)
		}
		if prev.EndPage > s.StartPage ||
			(prev.EndPage == s.StartPage && prev.EndLine >= s.StartLine) {
			return fmt.Errorf("sections overlap at index %d (%q into %q)", i, prev.Title, s.Title)
		}
	}
	if prologues > 1 {
		return fmt.Errorf("%d prologues survived deduplication", prologues)
	}
	if epilogues > 1 {
		return fmt.Errorf("%d epilogues survived deduplication", epilogues)
	}
	return nil
}

var confidenceRank = map[types.ConfidenceLevel]int{
	types.ConfidenceLow:    0,
	types.ConfidenceMedium: 1,
	types.ConfidenceHigh:   2,
}

// SectionsAtOrAbove returns the sections whose confidence meets min. The
// structure itself is left whole so nothing is silently lost.
func (b *BookStructure) SectionsAtOrAbove(min types.ConfidenceLevel) []SectionCandidate {
	out := make([]SectionCandidate, 0, len(b.Sections))
	for _, s := range b.Sections {
		if confidenceRank[s.Confidence] >= confidenceRank[min] {
			out = append(out, s)
		}
	}
	return out
}

// NeedsReview returns the indexes of low-confidence sections that should be
// surfaced for manual review.
func (b *BookStructure) NeedsReview() []int {
	var out []int
	for i, s := range b.Sections {
		if s.Confidence == types.ConfidenceLow {
			out = append(out, i)
		}
	}
	return out
}
