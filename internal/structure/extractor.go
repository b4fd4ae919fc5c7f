package structure

import (
	"log/slog"
	"strings"

	"github.com/audiobooksmith/manuscript/internal/document"
	"github.com/audiobooksmith/manuscript/internal/pattern"
	"github.com/audiobooksmith/manuscript/internal/title"
	"github.com/audiobooksmith/manuscript/internal/types"
)

// matterScanPages bounds the front and back matter scans to the edges of the
// document, where such sections live in practice.
const matterScanPages = 20

// FromToc classifies each ToC entry into a section candidate. Entries keep
// their order; targets are copied through for the locator to resolve.
func FromToc(entries []document.TocEntry) []SectionCandidate {
	out := make([]SectionCandidate, 0, len(entries))
	for _, e := range entries {
		kind, num := pattern.ClassifyTitle(e.Title)
		out = append(out, SectionCandidate{
			Kind:       kind,
			RawTitle:   e.Title,
			Title:      title.Normalize(e.Title),
			Number:     num,
			TargetPage: e.TargetPage,
			Confidence: types.ConfidenceHigh,
			Method:     types.MethodToc,
		})
	}
	return out
}

// ScanFrontBackMatter finds front and back matter headings the ToC omits,
// looking only at the first and last matterScanPages pages. Candidates that
// duplicate an existing section title are skipped.
func ScanFrontBackMatter(doc *document.Document, existing []SectionCandidate, logger *slog.Logger) []SectionCandidate {
	if logger == nil {
		logger = slog.Default()
	}
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[strings.ToLower(s.Title)] = true
	}

	n := doc.PageCount()
	frontEnd := matterScanPages
	if frontEnd > n {
		frontEnd = n
	}
	backStart := n - matterScanPages + 1
	if backStart < 1 {
		backStart = 1
	}

	var found []SectionCandidate
	scan := func(page int, wantFront bool) {
		for ln, lineText := range doc.PageLines(page) {
			if !pattern.IsStandaloneHeading(lineText) {
				continue
			}
			rule, ok := pattern.MatchMarker(lineText)
			if !ok {
				continue
			}
			if wantFront && rule.Kind != types.KindFrontMatter && rule.Kind != types.KindPrologue {
				continue
			}
			// Epilogues are owned by the dedicated detector.
			if !wantFront && rule.Kind != types.KindBackMatter {
				continue
			}
			norm := title.Normalize(lineText)
			if seen[strings.ToLower(norm)] {
				continue
			}
			seen[strings.ToLower(norm)] = true
			found = append(found, SectionCandidate{
				Kind:       rule.Kind,
				RawTitle:   lineText,
				Title:      norm,
				StartPage:  page,
				StartLine:  ln,
				Confidence: types.ConfidenceMedium,
				Method:     types.MethodPattern,
				Located:    true,
			})
			logger.Debug("matter heading found",
				"title", norm,
				"page", page,
				"rule", rule.Name)
		}
	}

	for p := 1; p <= frontEnd; p++ {
		scan(p, true)
	}
	for p := backStart; p <= n; p++ {
		scan(p, false)
	}
	return found
}
