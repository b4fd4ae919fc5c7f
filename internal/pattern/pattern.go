// Package pattern is the heuristic library for recognizing section markers
// and telling genuine section starts apart from running headers. The regex
// sets are declarative, priority-ordered data so the matching logic stays
// simple and individual patterns stay independently testable.
package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/audiobooksmith/manuscript/internal/document"
	"github.com/audiobooksmith/manuscript/internal/types"
)

// Rule pairs a section kind with the regex that recognizes its marker line.
// Rules are evaluated in slice order; the first match wins.
type Rule struct {
	Name string
	Kind types.SectionKind
	re   *regexp.Regexp
}

// Match reports whether line matches this rule.
func (r Rule) Match(line string) bool {
	return r.re.MatchString(strings.TrimSpace(line))
}

// Markers is the priority-ordered marker table used by the pattern-based
// detection path. More specific patterns come first so that
// "Chapter 12: Epilogue" classifies as epilogue rather than chapter.
var Markers = []Rule{
	{Name: "prologue", Kind: types.KindPrologue, re: regexp.MustCompile(`(?i)^prologue\s*:?\s*$`)},
	{Name: "epilogue", Kind: types.KindEpilogue, re: regexp.MustCompile(`(?i)^(?:\d+\s+)?epilogue\s*:?\s*$`)},
	{Name: "epilogue-chapter", Kind: types.KindEpilogue, re: regexp.MustCompile(`(?i)^chapter\s+\d+:\s+epilogue\s*$`)},
	{Name: "part", Kind: types.KindPart, re: regexp.MustCompile(`(?i)^(?:part|book|section)\s+(?:[ivxlc]+|\d+)\b`)},
	{Name: "chapter-word", Kind: types.KindChapter, re: regexp.MustCompile(`(?i)^chapter\s+(?:\d+|[ivxlc]+)\b`)},
	{Name: "chapter-numeric", Kind: types.KindChapter, re: regexp.MustCompile(`^\d{1,3}[\s.:]+\p{L}`)},
	{Name: "foreword", Kind: types.KindFrontMatter, re: regexp.MustCompile(`(?i)^foreword\s*$`)},
	{Name: "preface", Kind: types.KindFrontMatter, re: regexp.MustCompile(`(?i)^preface\s*$`)},
	{Name: "dedication", Kind: types.KindFrontMatter, re: regexp.MustCompile(`(?i)^(?:dedication|dedicated to)\s*$`)},
	{Name: "acknowledgments", Kind: types.KindFrontMatter, re: regexp.MustCompile(`(?i)^acknowledgments?\s*$`)},
	{Name: "introduction", Kind: types.KindFrontMatter, re: regexp.MustCompile(`(?i)^introduction\s*$`)},
	{Name: "afterword", Kind: types.KindBackMatter, re: regexp.MustCompile(`(?i)^afterword\s*$`)},
	{Name: "about-author", Kind: types.KindBackMatter, re: regexp.MustCompile(`(?i)^about the author\s*$`)},
	{Name: "appendix", Kind: types.KindBackMatter, re: regexp.MustCompile(`(?i)^appendix(?:\s+[a-z0-9]+)?\s*$`)},
	{Name: "notes", Kind: types.KindBackMatter, re: regexp.MustCompile(`(?i)^(?:notes|endnotes)\s*$`)},
	{Name: "bibliography", Kind: types.KindBackMatter, re: regexp.MustCompile(`(?i)^(?:bibliography|references)\s*$`)},
}

// EpilogueMarkers is the closed set used by the epilogue detector's pattern
// phase: all-caps or title-case standalone lines, with or without a trailing
// colon or page-number prefix.
var EpilogueMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^EPILOGUE\s*$`),
	regexp.MustCompile(`^Epilogue\s*$`),
	regexp.MustCompile(`^EPILOGUE:`),
	regexp.MustCompile(`^Epilogue:`),
	regexp.MustCompile(`^\d+\s+EPILOGUE\b`),
	regexp.MustCompile(`(?i)^Chapter\s+\d+:\s+Epilogue\s*$`),
}

// MatchEpilogueMarker reports whether line matches the closed epilogue
// marker set.
func MatchEpilogueMarker(line string) bool {
	line = strings.TrimSpace(line)
	for _, re := range EpilogueMarkers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// MatchMarker returns the first marker rule matching line.
func MatchMarker(line string) (Rule, bool) {
	for _, r := range Markers {
		if r.Match(line) {
			return r, true
		}
	}
	return Rule{}, false
}

var (
	chapterNumber  = regexp.MustCompile(`(?i)^(?:chapter\s+)?(\d{1,3})\b`)
	epilogueLike   = regexp.MustCompile(`(?i)\b(?:epilogue|afterward|final chapter)\b`)
	prologueLike   = regexp.MustCompile(`(?i)\bprologue\b`)
	partLike       = regexp.MustCompile(`(?i)^(?:part|book|section)\s+(?:[ivxlc]+|\d+)\b`)
	frontLike      = regexp.MustCompile(`(?i)\b(?:foreword|preface|dedication|acknowledgments?|introduction|copyright|title page)\b`)
	backLike       = regexp.MustCompile(`(?i)\b(?:afterword|about the author|appendix|endnotes|bibliography|references|glossary|index)\b`)
	standaloneCaps = regexp.MustCompile(`^[A-Z][A-Z\s'&-]{2,40}$`)
)

// ClassifyTitle maps a ToC entry title to a section kind by keyword.
// Titles with no matching keyword are treated as chapters; numeric-looking
// titles additionally yield a chapter number. This mirrors the front/main/
// back matter split of the embedded ToC.
func ClassifyTitle(title string) (types.SectionKind, *int) {
	t := strings.TrimSpace(title)
	switch {
	case prologueLike.MatchString(t):
		return types.KindPrologue, nil
	case epilogueLike.MatchString(t):
		return types.KindEpilogue, nil
	case partLike.MatchString(t):
		return types.KindPart, nil
	case frontLike.MatchString(t):
		return types.KindFrontMatter, nil
	case backLike.MatchString(t):
		return types.KindBackMatter, nil
	}
	if m := chapterNumber.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return types.KindChapter, &n
		}
	}
	return types.KindChapter, nil
}

// IsEpilogueKeyword reports whether a ToC title looks epilogue-like.
func IsEpilogueKeyword(title string) bool {
	return epilogueLike.MatchString(title)
}

// IsStandaloneHeading reports whether line looks like a capitalized
// standalone section heading (used on the no-ToC discovery path).
func IsStandaloneHeading(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 3 || len(line) > 60 {
		return false
	}
	if standaloneCaps.MatchString(line) {
		return true
	}
	// Title Case with few words and no sentence punctuation.
	if strings.ContainsAny(line, ".!?,;") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 6 {
		return false
	}
	for i, w := range words {
		r := rune(w[0])
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		// Interior stopwords stay lowercase in title case ("About the
		// Author").
		if i > 0 && i < len(words)-1 && titleStopwords[strings.ToLower(w)] {
			continue
		}
		return false
	}
	return true
}

var titleStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true,
	"for": true, "in": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "with": true,
}

// HeaderConfig tunes the running-header filter.
type HeaderConfig struct {
	// Window is the page radius searched on each side.
	Window int
	// MinRepeat is the occurrence count at which a line is considered a
	// running header.
	MinRepeat int
	// TopLines is the number of leading lines per page counted as header
	// position.
	TopLines int
}

// DefaultHeaderConfig matches the thresholds validated against the source
// corpus: 3+ occurrences within a ±5 page window, counted in the top 3
// lines of each page.
func DefaultHeaderConfig() HeaderConfig {
	return HeaderConfig{Window: 5, MinRepeat: 3, TopLines: 3}
}

// IsRunningHeader reports whether line recurs in header position on enough
// pages around page to be a running header rather than a genuine section
// start. Running headers are the dominant source of false-positive section
// boundaries.
func IsRunningHeader(doc *document.Document, page int, line string, cfg HeaderConfig) bool {
	if cfg.Window <= 0 || cfg.MinRepeat <= 0 {
		cfg = DefaultHeaderConfig()
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	occurrences := 0
	for p := page - cfg.Window; p <= page+cfg.Window; p++ {
		for _, top := range doc.TopLines(p, cfg.TopLines) {
			if top == line {
				occurrences++
				break
			}
		}
	}
	return occurrences >= cfg.MinRepeat
}

// IsPlausibleTitle filters obviously bogus section titles: bare page
// numbers, overlong all-caps header lines, and degenerate strings.
func IsPlausibleTitle(title string) bool {
	title = strings.TrimSpace(title)
	if len(title) < 3 || len(title) > 100 {
		return false
	}
	if _, err := strconv.Atoi(title); err == nil {
		return false
	}
	if title == strings.ToUpper(title) && len(title) > 10 && strings.Contains(title, " ") {
		// Long all-caps line with spaces is usually a page header, but a
		// short all-caps marker ("EPILOGUE") is fine.
		return !strings.ContainsAny(title, "0123456789")
	}
	return true
}

// HasExcessiveRepetition reports whether the opening of text repeats a
// single word implausibly often, a sign of extraction garbage.
func HasExcessiveRepetition(text string) bool {
	sample := text
	if len(sample) > 500 {
		sample = sample[:500]
	}
	words := strings.Fields(sample)
	if len(words) < 10 {
		return true
	}
	counts := make(map[string]int, len(words))
	max := 0
	for _, w := range words {
		counts[w]++
		if counts[w] > max {
			max = counts[w]
		}
	}
	return max*10 > len(words)*3
}
