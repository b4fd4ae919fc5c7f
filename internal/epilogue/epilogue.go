// Package epilogue finds a book's epilogue through escalating detection
// phases, from ToC lookup down to content-level classification.
package epilogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/audiobooksmith/manuscript/internal/classify"
	"github.com/audiobooksmith/manuscript/internal/document"
	"github.com/audiobooksmith/manuscript/internal/pattern"
	"github.com/audiobooksmith/manuscript/internal/structure"
	"github.com/audiobooksmith/manuscript/internal/types"
)

// Config tunes the detection phases. Zero values take defaults.
type Config struct {
	// PageRadius bounds the ToC-guided search in phase one.
	PageRadius int
	// PatternTailPages is how many trailing pages phase two scans for
	// explicit epilogue markers.
	PatternTailPages int
	// ClassifierTailPages is how many trailing pages phase three hands to
	// the content classifier.
	ClassifierTailPages int
	// MinWords rejects candidates whose body is too short to be a real
	// epilogue rather than a stray heading.
	MinWords int
	// MinClosureTerms is the narrative-closure vocabulary floor applied to
	// unlabeled candidates.
	MinClosureTerms int

	Header     pattern.HeaderConfig
	Classifier classify.Classifier
	Logger     *slog.Logger
}

// DefaultConfig returns the tolerances used in production runs.
func DefaultConfig() Config {
	return Config{
		PageRadius:          10,
		PatternTailPages:    50,
		ClassifierTailPages: 10,
		MinWords:            500,
		MinClosureTerms:     2,
		Header:              pattern.DefaultHeaderConfig(),
	}
}

// Detector runs the phased search. A nil result with a nil error means the
// book has no epilogue, which is a perfectly normal outcome.
type Detector struct {
	cfg    Config
	logger *slog.Logger
}

// New builds a Detector, filling zero-valued config fields with defaults.
func New(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.PageRadius <= 0 {
		cfg.PageRadius = def.PageRadius
	}
	if cfg.PatternTailPages <= 0 {
		cfg.PatternTailPages = def.PatternTailPages
	}
	if cfg.ClassifierTailPages <= 0 {
		cfg.ClassifierTailPages = def.ClassifierTailPages
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = def.MinWords
	}
	if cfg.MinClosureTerms <= 0 {
		cfg.MinClosureTerms = def.MinClosureTerms
	}
	if cfg.Header.Window <= 0 {
		cfg.Header = def.Header
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, logger: logger}
}

// Detect runs the phases in order and stops at the first validated hit.
// tocCandidate, when non-nil, is the epilogue entry classified out of the
// table of contents; it seeds phase one.
func (d *Detector) Detect(ctx context.Context, doc *document.Document, tocCandidate *structure.SectionCandidate) (*structure.SectionCandidate, error) {
	if tocCandidate != nil {
		if c := d.fromToc(doc, tocCandidate); c != nil {
			d.logger.Info("epilogue found via toc", "page", c.StartPage)
			return c, nil
		}
	}
	if c := d.fromMarkers(doc); c != nil {
		d.logger.Info("epilogue found via marker scan", "page", c.StartPage)
		return c, nil
	}
	c, err := d.fromClassifier(ctx, doc)
	if err != nil {
		return nil, err
	}
	if c != nil {
		d.logger.Info("epilogue found via content classifier", "page", c.StartPage)
		return c, nil
	}
	d.logger.Debug("no epilogue detected")
	return nil, nil
}

// fromToc resolves a ToC-sourced epilogue candidate within PageRadius of
// its nominal target page.
func (d *Detector) fromToc(doc *document.Document, cand *structure.SectionCandidate) *structure.SectionCandidate {
	loc := structure.NewLocator(structure.LocatorConfig{
		PageRadius: d.cfg.PageRadius,
		Header:     d.cfg.Header,
		Logger:     d.logger,
	})
	resolved := loc.Locate(doc, []structure.SectionCandidate{*cand})
	c := resolved[0]
	if !c.Located {
		return nil
	}
	return d.validate(doc, &c, true)
}

// fromMarkers scans the trailing pages for explicit epilogue heading lines.
func (d *Detector) fromMarkers(doc *document.Document) *structure.SectionCandidate {
	start := doc.PageCount() - d.cfg.PatternTailPages + 1
	if start < 1 {
		start = 1
	}
	for p := start; p <= doc.PageCount(); p++ {
		for ln, text := range doc.PageLines(p) {
			if !pattern.MatchEpilogueMarker(text) {
				continue
			}
			if pattern.IsRunningHeader(doc, p, text, d.cfg.Header) {
				continue
			}
			c := &structure.SectionCandidate{
				Kind:       types.KindEpilogue,
				RawTitle:   strings.TrimSpace(text),
				Title:      "Epilogue",
				StartPage:  p,
				StartLine:  ln,
				Confidence: types.ConfidenceHigh,
				Method:     types.MethodPattern,
				Located:    true,
			}
			if v := d.validate(doc, c, true); v != nil {
				return v
			}
		}
	}
	return nil
}

// fromClassifier asks the content classifier whether the final pages read
// like an unlabeled epilogue. Pages are joined with form feeds so the
// classifier can report a page offset.
func (d *Detector) fromClassifier(ctx context.Context, doc *document.Document) (*structure.SectionCandidate, error) {
	if d.cfg.Classifier == nil {
		return nil, nil
	}
	start := doc.PageCount() - d.cfg.ClassifierTailPages + 1
	if start < 1 {
		start = 1
	}
	pages := make([]string, 0, doc.PageCount()-start+1)
	for p := start; p <= doc.PageCount(); p++ {
		pages = append(pages, doc.PageText(p))
	}
	ans, err := d.cfg.Classifier.LocateEpilogue(ctx, strings.Join(pages, "\f"), len(pages))
	if err != nil {
		return nil, fmt.Errorf("locating epilogue: %w", err)
	}
	if ans == nil || !ans.HasEpilogue {
		return nil, nil
	}
	if ans.StartPageOffset < 0 || ans.StartPageOffset >= len(pages) {
		d.logger.Warn("classifier returned out of range epilogue offset",
			"offset", ans.StartPageOffset,
			"tail_pages", len(pages))
		return nil, nil
	}
	page := start + ans.StartPageOffset
	c := &structure.SectionCandidate{
		Kind: types.KindEpilogue,
		// Unlabeled epilogues have no heading; keep the opening line so
		// reviewers can see where the boundary landed.
		RawTitle:   doc.FirstMeaningfulLine(page),
		Title:      "Epilogue",
		StartPage:  page,
		StartLine:  0,
		Confidence: types.ConfidenceMedium,
		Method:     types.MethodContentHeuristic,
		Located:    true,
	}
	// Unlabeled epilogues always pass through the content gates.
	return d.validate(doc, c, false), nil
}

// validate settles the candidate's boundaries and applies the word count
// and closure vocabulary gates. Explicitly labeled candidates skip the
// closure check since the heading itself is the evidence.
func (d *Detector) validate(doc *document.Document, c *structure.SectionCandidate, labeled bool) *structure.SectionCandidate {
	c.EndPage = doc.PageCount()
	c.EndLine = len(doc.PageLines(c.EndPage)) - 1
	c.Body = doc.RangeText(c.StartPage, c.StartLine, c.EndPage, c.EndLine)
	c.WordCount = document.WordCount(c.Body)
	if c.WordCount < d.cfg.MinWords {
		d.logger.Debug("epilogue candidate rejected, too short",
			"page", c.StartPage,
			"words", c.WordCount)
		return nil
	}
	if pattern.HasExcessiveRepetition(c.Body) {
		d.logger.Debug("epilogue candidate rejected, repetitive body", "page", c.StartPage)
		return nil
	}
	if !labeled {
		if hits := classify.CountClosureTerms(c.Body); hits < d.cfg.MinClosureTerms {
			d.logger.Debug("epilogue candidate rejected, no closure vocabulary",
				"page", c.StartPage,
				"hits", hits)
			return nil
		}
	}
	return c
}
