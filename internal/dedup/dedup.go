// Package dedup removes near-duplicate sections via lightweight content
// fingerprints. Duplicates commonly come from a prologue detected twice,
// once from the ToC and once from the pattern scan.
package dedup

import (
	"log/slog"

	"github.com/audiobooksmith/manuscript/internal/document"
)

// fingerprintSpan is how many leading and trailing characters feed the
// fingerprint. Sections shorter than twice this are fingerprinted whole.
const fingerprintSpan = 500

// Fingerprint is a content signature for near-duplicate comparison, never
// a semantic identity.
type Fingerprint struct {
	Head      string `json:"-"`
	Tail      string `json:"-"`
	WordCount int    `json:"word_count"`
}

// NewFingerprint computes a fingerprint from section content.
func NewFingerprint(content string) Fingerprint {
	fp := Fingerprint{WordCount: document.WordCount(content)}
	if len(content) <= 2*fingerprintSpan {
		fp.Head = content
		return fp
	}
	fp.Head = content[:fingerprintSpan]
	fp.Tail = content[len(content)-fingerprintSpan:]
	return fp
}

// Similarity returns a ratio in [0,1] between two fingerprints, computed
// over the combined head+tail signatures.
func (f Fingerprint) Similarity(o Fingerprint) float64 {
	a := f.Head + f.Tail
	b := o.Head + o.Tail
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	return matchRatio(a, b)
}

// matchRatio is 2*LCS/(len(a)+len(b)), the classic sequence-matcher ratio.
// Inputs are bounded by the fingerprint span so the quadratic table stays
// small.
func matchRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}

// Deduplicator drops later near-duplicates from an ordered section list.
type Deduplicator struct {
	// Threshold is the similarity at or above which two sections are
	// duplicates. Empirically 0.95; tunable via configuration.
	Threshold float64
	Logger    *slog.Logger
}

// New returns a Deduplicator with the given similarity threshold.
func New(threshold float64, logger *slog.Logger) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.95
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deduplicator{Threshold: threshold, Logger: logger}
}

// Keep returns the indexes of contents to retain, in input order. For each
// duplicate pair, the earlier occurrence (by position in the slice, which
// callers keep in document order) survives and the later is dropped.
func (d *Deduplicator) Keep(contents []string) []int {
	type seen struct {
		fp    Fingerprint
		index int
	}
	var kept []seen
	out := make([]int, 0, len(contents))
	for i, content := range contents {
		fp := NewFingerprint(content)
		dup := false
		for _, s := range kept {
			if fp.Similarity(s.fp) >= d.Threshold {
				d.Logger.Debug("duplicate section removed",
					"index", i,
					"matches_index", s.index)
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, seen{fp: fp, index: i})
		out = append(out, i)
	}
	return out
}
