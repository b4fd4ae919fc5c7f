package structure

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/audiobooksmith/manuscript/internal/document"
	"github.com/audiobooksmith/manuscript/internal/pattern"
	"github.com/audiobooksmith/manuscript/internal/title"
	"github.com/audiobooksmith/manuscript/internal/types"
)

// LocatorConfig tunes how candidate titles are matched to page offsets.
type LocatorConfig struct {
	// PageRadius is how far from the ToC target page a heading may drift.
	PageRadius int
	// MinSectionWords is the body size below which a located section is
	// demoted to low confidence.
	MinSectionWords int
	Header          pattern.HeaderConfig
	Logger          *slog.Logger
}

// DefaultLocatorConfig mirrors the tolerances that hold up across scanned
// and born-digital books.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		PageRadius:      10,
		MinSectionWords: 300,
		Header:          pattern.DefaultHeaderConfig(),
	}
}

// Locator resolves section candidates to concrete page and line offsets.
type Locator struct {
	cfg    LocatorConfig
	logger *slog.Logger
}

// NewLocator builds a Locator, filling zero-valued config fields with
// defaults.
func NewLocator(cfg LocatorConfig) *Locator {
	def := DefaultLocatorConfig()
	if cfg.PageRadius <= 0 {
		cfg.PageRadius = def.PageRadius
	}
	if cfg.MinSectionWords <= 0 {
		cfg.MinSectionWords = def.MinSectionWords
	}
	if cfg.Header.Window <= 0 {
		cfg.Header = def.Header
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{cfg: cfg, logger: logger}
}

// Locate resolves every ToC-sourced candidate to its true offset within
// ±PageRadius pages of the nominal target. ToC page numbers routinely drift
// from physical page indexes, so the search widens outward from the target
// until a plausible heading line matches. Unresolved candidates are kept at
// low confidence instead of being discarded.
func (l *Locator) Locate(doc *document.Document, candidates []SectionCandidate) []SectionCandidate {
	out := make([]SectionCandidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		c := &out[i]
		if c.Located {
			continue
		}
		page, line, ok := l.findTitle(doc, c)
		if !ok {
			c.Confidence = types.ConfidenceLow
			l.logger.Warn("section title not found near target",
				"title", c.Title,
				"target_page", c.TargetPage,
				"radius", l.cfg.PageRadius)
			continue
		}
		c.StartPage = page
		c.StartLine = line
		c.Located = true
		if page != c.TargetPage {
			c.Confidence = types.ConfidenceMedium
			l.logger.Debug("section located off target",
				"title", c.Title,
				"target_page", c.TargetPage,
				"actual_page", page)
		}
	}
	return out
}

// findTitle searches pages in order of distance from the target so the
// nearest occurrence wins over a stray running header further out.
func (l *Locator) findTitle(doc *document.Document, c *SectionCandidate) (int, int, bool) {
	target := c.TargetPage
	if target < 1 {
		target = 1
	}
	try := func(page int) (int, bool) {
		if page < 1 || page > doc.PageCount() {
			return 0, false
		}
		return l.matchOnPage(doc, page, c)
	}
	if line, ok := try(target); ok {
		return target, line, true
	}
	for dist := 1; dist <= l.cfg.PageRadius; dist++ {
		if line, ok := try(target + dist); ok {
			return target + dist, line, true
		}
		if line, ok := try(target - dist); ok {
			return target - dist, line, true
		}
	}
	return 0, 0, false
}

func (l *Locator) matchOnPage(doc *document.Document, page int, c *SectionCandidate) (int, bool) {
	want := strings.ToLower(c.Title)
	wantRaw := strings.ToLower(strings.TrimSpace(c.RawTitle))
	for ln, text := range doc.PageLines(page) {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || !pattern.IsPlausibleTitle(trimmed) {
			continue
		}
		got := strings.ToLower(title.Normalize(trimmed))
		if got != want && strings.ToLower(trimmed) != wantRaw && !headingMatches(got, want) {
			continue
		}
		if pattern.IsRunningHeader(doc, page, trimmed, l.cfg.Header) {
			continue
		}
		return ln, true
	}
	return 0, false
}

// headingMatches accepts a heading that carries the wanted title with extra
// decoration, such as a chapter number prefix on its own heading line.
func headingMatches(got, want string) bool {
	if len(want) < 4 {
		return false
	}
	return strings.Contains(got, want)
}

// Discover scans the whole document for heading lines when no ToC exists.
// Only standalone marker lines that are not running headers qualify.
func (l *Locator) Discover(doc *document.Document) []SectionCandidate {
	var out []SectionCandidate
	for p := 1; p <= doc.PageCount(); p++ {
		for ln, text := range doc.PageLines(p) {
			if !pattern.IsStandaloneHeading(text) {
				continue
			}
			rule, ok := pattern.MatchMarker(text)
			if !ok {
				continue
			}
			if pattern.IsRunningHeader(doc, p, text, l.cfg.Header) {
				continue
			}
			kind, num := pattern.ClassifyTitle(text)
			if rule.Kind != types.KindChapter {
				kind = rule.Kind
			}
			// Epilogue candidates come from the phased detector only;
			// emitting one here would pair it with the detector's own.
			if kind == types.KindEpilogue {
				continue
			}
			out = append(out, SectionCandidate{
				Kind:       kind,
				RawTitle:   strings.TrimSpace(text),
				Title:      title.Normalize(text),
				Number:     num,
				StartPage:  p,
				StartLine:  ln,
				Confidence: types.ConfidenceMedium,
				Method:     types.MethodPattern,
				Located:    true,
			})
		}
	}
	return out
}

// AssignBoundaries gives each located section a body spanning from its
// heading to the line before the next located section, extracts the text,
// and applies the quality gate. Short sections are demoted, never dropped.
func (l *Locator) AssignBoundaries(doc *document.Document, sections []SectionCandidate) []SectionCandidate {
	out := make([]SectionCandidate, len(sections))
	copy(out, sections)

	located := make([]*SectionCandidate, 0, len(out))
	for i := range out {
		if out[i].Located {
			located = append(located, &out[i])
		}
	}
	sort.SliceStable(located, func(i, j int) bool {
		if located[i].StartPage != located[j].StartPage {
			return located[i].StartPage < located[j].StartPage
		}
		return located[i].StartLine < located[j].StartLine
	})

	for i, s := range located {
		if i+1 < len(located) {
			next := located[i+1]
			s.EndPage = next.StartPage
			s.EndLine = next.StartLine - 1
			if s.EndLine < 0 {
				s.EndPage = next.StartPage - 1
				s.EndLine = len(doc.PageLines(s.EndPage)) - 1
			}
		} else {
			s.EndPage = doc.PageCount()
			s.EndLine = len(doc.PageLines(s.EndPage)) - 1
		}
		s.Body = doc.RangeText(s.StartPage, s.StartLine, s.EndPage, s.EndLine)
		s.WordCount = document.WordCount(s.Body)
		if s.WordCount < l.cfg.MinSectionWords && s.Kind == types.KindChapter {
			s.Confidence = types.ConfidenceLow
			l.logger.Debug("short section demoted",
				"title", s.Title,
				"words", s.WordCount,
				"min", l.cfg.MinSectionWords)
		}
	}
	return out
}
