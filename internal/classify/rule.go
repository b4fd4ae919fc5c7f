package classify

import (
	"context"
	"strings"

	"github.com/audiobooksmith/manuscript/internal/document"
)

// ClosureLexicon is the fixed set of closure-signaling terms used to judge
// whether tail text reads like an epilogue. Shared with the epilogue
// detector's content validation.
var ClosureLexicon = []string{
	"years later",
	"looking back",
	"in retrospect",
	"since then",
	"to this day",
	"from that day",
	"never forgot",
	"a new beginning",
	"the end of",
	"life went on",
}

// CountClosureTerms counts ClosureLexicon occurrences in text,
// case-insensitively. Repeated occurrences of the same term all count.
func CountClosureTerms(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range ClosureLexicon {
		n += strings.Count(lower, term)
	}
	return n
}

// RuleBased is the offline classifier: keyword heuristics over the sample
// text. It is the mandatory fallback path when the AI-assisted classifier
// is unconfigured, times out, or fails.
type RuleBased struct{}

// NewRuleBased returns the rule-based classifier.
func NewRuleBased() *RuleBased { return &RuleBased{} }

func (r *RuleBased) Name() string { return "rules" }

var genreKeywords = []struct {
	genre string
	words []string
}{
	{"business", []string{"business", "management", "strategy", "leadership", "market"}},
	{"historical", []string{"history", "historical", "century", "empire", "war of"}},
	{"romance", []string{"love", "romance", "heart", "kiss"}},
	{"mystery", []string{"murder", "detective", "investigation", "suspect"}},
	{"fantasy", []string{"magic", "kingdom", "dragon", "sword", "wizard"}},
	{"science fiction", []string{"spaceship", "galaxy", "planet", "android", "starship"}},
	{"memoir", []string{"i was born", "my childhood", "my mother", "my father", "my story"}},
}

// AnalyzeBook applies keyword heuristics to derive coarse characteristics.
func (r *RuleBased) AnalyzeBook(ctx context.Context, sample string) (*BookAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := strings.ToLower(sample)

	genre := "fiction"
	best := 0
	for _, g := range genreKeywords {
		hits := 0
		for _, w := range g.words {
			hits += strings.Count(lower, w)
		}
		if hits > best {
			best = hits
			genre = g.genre
		}
	}

	tone := "engaging"
	switch {
	case strings.Contains(lower, "death") || strings.Contains(lower, "grief") || strings.Contains(lower, "loss"):
		tone = "somber"
	case strings.Contains(lower, "laugh") || strings.Contains(lower, "joke"):
		tone = "light"
	case genre == "business" || genre == "historical":
		tone = "serious"
	}

	style := "third-person"
	if strings.Contains(lower, "i was") || strings.Contains(lower, "i had") || strings.Contains(lower, "my ") {
		style = "first-person"
	}

	pacing := "moderate"
	if avgSentenceLength(sample) < 12 {
		pacing = "fast"
	}

	return &BookAnalysis{
		Genre:    genre,
		Tone:     tone,
		Audience: "adult",
		Pacing:   pacing,
		Style:    style,
		Accent:   "american",
	}, nil
}

// LocateEpilogue scans the tail for the page with the highest closure-term
// density. The answer is positive only when at least two closure terms land
// on a single page region, which keeps the rule-based path conservative.
func (r *RuleBased) LocateEpilogue(ctx context.Context, tail string, tailPages int) (*EpilogueAnswer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tailPages <= 0 {
		tailPages = 1
	}
	// The tail is submitted as page texts joined by form feeds; fall back
	// to treating it as a single region.
	pages := strings.Split(tail, "\f")
	bestOffset, bestHits := -1, 0
	for i, pg := range pages {
		hits := CountClosureTerms(pg)
		if hits > bestHits {
			bestHits = hits
			bestOffset = i
		}
	}
	if bestOffset < 0 || bestHits < 2 {
		return &EpilogueAnswer{HasEpilogue: false}, nil
	}
	conf := 50 + bestHits*10
	if conf > 90 {
		conf = 90
	}
	return &EpilogueAnswer{
		HasEpilogue:     true,
		StartPageOffset: bestOffset,
		Confidence:      conf,
	}, nil
}

func avgSentenceLength(text string) int {
	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		return document.WordCount(text)
	}
	return document.WordCount(text) / sentences
}
