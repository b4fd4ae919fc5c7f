// Package pipeline wires document structuring, content analysis, caching,
// and voice matching into one idempotent run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/audiobooksmith/manuscript/internal/cache"
	"github.com/audiobooksmith/manuscript/internal/classify"
	"github.com/audiobooksmith/manuscript/internal/config"
	"github.com/audiobooksmith/manuscript/internal/dedup"
	"github.com/audiobooksmith/manuscript/internal/document"
	"github.com/audiobooksmith/manuscript/internal/epilogue"
	"github.com/audiobooksmith/manuscript/internal/pattern"
	"github.com/audiobooksmith/manuscript/internal/sampler"
	"github.com/audiobooksmith/manuscript/internal/structure"
	"github.com/audiobooksmith/manuscript/internal/types"
	"github.com/audiobooksmith/manuscript/internal/voices"
)

// Result is everything one pipeline run produces.
type Result struct {
	RunID     string                  `json:"run_id"`
	Title     string                  `json:"title"`
	Structure structure.BookStructure `json:"structure"`
	Analysis  *classify.BookAnalysis  `json:"analysis,omitempty"`
	// AnalysisSource reports where the analysis came from: "cache", or the
	// classifier name that produced it.
	AnalysisSource string         `json:"analysis_source,omitempty"`
	Matches        []voices.Match `json:"voice_matches,omitempty"`
	CacheHit       bool           `json:"cache_hit"`
	Elapsed        time.Duration  `json:"elapsed"`
}

// cacheEntry is what the content-keyed cache stores per document.
type cacheEntry struct {
	Analysis *classify.BookAnalysis
	Matches  []voices.Match
}

// Pipeline owns the long-lived collaborators shared across runs.
type Pipeline struct {
	cfg        *config.Config
	locator    *structure.Locator
	detector   *epilogue.Detector
	dedup      *dedup.Deduplicator
	sampler    *sampler.Sampler
	classifier classify.Classifier
	fallback   classify.Classifier
	cache      *cache.Cache[cacheEntry]
	catalog    *voices.CatalogClient
	matcher    *voices.Matcher
	logger     *slog.Logger
}

// New assembles a Pipeline from configuration. The classifier is chosen by
// cfg.Analysis.Provider; "rule" runs fully offline.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	header := pattern.HeaderConfig{
		Window:    cfg.Structure.HeaderWindow,
		MinRepeat: cfg.Structure.HeaderMinRepeat,
		TopLines:  cfg.Structure.HeaderTopLines,
	}

	ruleBased := classify.NewRuleBased()

	var classifier classify.Classifier
	switch cfg.Analysis.Provider {
	case "", "openai":
		classifier = classify.NewOpenAI(classify.OpenAIConfig{
			APIKey:     config.ResolveEnvVars(cfg.Analysis.APIKey),
			Model:      cfg.Analysis.Model,
			BaseURL:    cfg.Analysis.BaseURL,
			Timeout:    cfg.Analysis.Timeout,
			MaxRetries: cfg.Analysis.MaxRetries,
			Logger:     logger,
		})
	case "rule":
		classifier = ruleBased
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", cfg.Analysis.Provider)
	}

	var fallback classify.Classifier
	if cfg.Analysis.FallbackToRule && classifier != ruleBased {
		fallback = ruleBased
	}

	p := &Pipeline{
		cfg: cfg,
		locator: structure.NewLocator(structure.LocatorConfig{
			PageRadius:      cfg.Structure.PageRadius,
			MinSectionWords: cfg.Structure.MinSectionWords,
			Header:          header,
			Logger:          logger,
		}),
		detector: epilogue.New(epilogue.Config{
			PageRadius:          cfg.Structure.PageRadius,
			PatternTailPages:    cfg.Epilogue.PatternTailPages,
			ClassifierTailPages: cfg.Epilogue.ClassifierTailPages,
			MinWords:            cfg.Epilogue.MinWords,
			MinClosureTerms:     cfg.Epilogue.MinClosureTerms,
			Header:              header,
			Classifier:          classifier,
			Logger:              logger,
		}),
		dedup:      dedup.New(cfg.Structure.DedupThreshold, logger),
		sampler:    sampler.New(cfg.Analysis.SampleWords),
		classifier: classifier,
		fallback:   fallback,
		cache:      cache.New[cacheEntry](cfg.Cache.MaxEntries, cfg.Cache.Retention, logger),
		catalog: voices.NewCatalogClient(voices.CatalogConfig{
			BaseURL: cfg.Voices.CatalogURL,
			APIKey:  config.ResolveEnvVars(cfg.Voices.APIKey),
			Logger:  logger,
		}),
		matcher: voices.NewMatcher(voices.MatcherConfig{
			Workers: cfg.Voices.Workers,
			Logger:  logger,
		}),
		logger: logger,
	}
	return p, nil
}

// CacheStats exposes the analysis cache counters.
func (p *Pipeline) CacheStats() cache.Stats {
	return p.cache.Stats()
}

// ClearCache drops all cached analysis results.
func (p *Pipeline) ClearCache() {
	p.cache.Purge()
}

// Process runs the full pipeline over one document. raw is the document's
// original bytes, used only for the content cache key; pass nil to skip
// caching. Running the same inputs twice yields the same structure and
// ranking, with the second run served from cache.
func (p *Pipeline) Process(ctx context.Context, doc *document.Document, toc []document.TocEntry, raw []byte) (*Result, error) {
	started := time.Now()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}

	res := &Result{
		RunID: uuid.New().String(),
		Title: doc.Title,
	}
	p.logger.Info("pipeline run started",
		"run_id", res.RunID,
		"title", doc.Title,
		"pages", doc.PageCount(),
		"toc_entries", len(toc))

	bs, err := p.buildStructure(ctx, doc, toc)
	if err != nil {
		return nil, err
	}
	res.Structure = *bs

	sample := p.sampler.Sample(doc.Text())

	var key string
	if len(raw) > 0 {
		key = cache.KeyForBytes(raw)
		if entry, ok := p.cache.Get(key); ok {
			res.Analysis = entry.Analysis
			res.Matches = entry.Matches
			res.AnalysisSource = "cache"
			res.CacheHit = true
			res.Elapsed = time.Since(started)
			p.logger.Info("pipeline run complete",
				"run_id", res.RunID,
				"sections", len(res.Structure.Sections),
				"cache_hit", true,
				"elapsed", res.Elapsed)
			return res, nil
		}
	}

	analysis, source := p.analyze(ctx, sample)
	res.Analysis = analysis
	res.AnalysisSource = source

	if analysis != nil {
		res.Matches = p.matchVoices(ctx, analysis)
	}

	if key != "" && analysis != nil {
		p.cache.Put(key, cacheEntry{Analysis: analysis, Matches: res.Matches})
	}

	res.Elapsed = time.Since(started)
	p.logger.Info("pipeline run complete",
		"run_id", res.RunID,
		"sections", len(res.Structure.Sections),
		"cache_hit", false,
		"elapsed", res.Elapsed)
	return res, nil
}

// Structure runs only the structuring stages, skipping analysis, caching,
// and voice matching.
func (p *Pipeline) Structure(ctx context.Context, doc *document.Document, toc []document.TocEntry) (*structure.BookStructure, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	return p.buildStructure(ctx, doc, toc)
}

// buildStructure runs detection, epilogue search, boundary assignment,
// deduplication, and validation.
func (p *Pipeline) buildStructure(ctx context.Context, doc *document.Document, toc []document.TocEntry) (*structure.BookStructure, error) {
	var candidates []structure.SectionCandidate
	var tocEpilogue *structure.SectionCandidate

	if len(toc) > 0 {
		for _, c := range structure.FromToc(toc) {
			if c.Kind == types.KindEpilogue && tocEpilogue == nil {
				ep := c
				tocEpilogue = &ep
				continue
			}
			candidates = append(candidates, c)
		}
		candidates = p.locator.Locate(doc, candidates)
		candidates = append(candidates, structure.ScanFrontBackMatter(doc, candidates, p.logger)...)
	} else {
		candidates = p.locator.Discover(doc)
	}

	ep, err := p.detector.Detect(ctx, doc, tocEpilogue)
	if err != nil {
		p.logger.Warn("epilogue detection degraded", "error", err)
	}
	if ep != nil {
		candidates = append(candidates, *ep)
	} else if tocEpilogue != nil {
		// Keep the unresolved ToC entry for review rather than dropping it.
		tocEpilogue.Confidence = types.ConfidenceLow
		candidates = append(candidates, *tocEpilogue)
	}

	candidates = p.locator.AssignBoundaries(doc, candidates)

	bodies := make([]string, len(candidates))
	for i, c := range candidates {
		bodies[i] = c.Body
	}
	kept := p.dedup.Keep(bodies)
	unique := make([]structure.SectionCandidate, 0, len(kept))
	for _, idx := range kept {
		unique = append(unique, candidates[idx])
	}
	if removed := len(candidates) - len(unique); removed > 0 {
		p.logger.Info("duplicate sections removed", "count", removed)
	}

	bs := structure.Build(unique)
	if err := bs.Validate(); err != nil {
		return nil, fmt.Errorf("validating structure: %w", err)
	}
	return &bs, nil
}

// Recommend runs only sampling, analysis, and voice matching. raw feeds
// the cache key and may be nil.
func (p *Pipeline) Recommend(ctx context.Context, doc *document.Document, raw []byte) (*Result, error) {
	started := time.Now()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	res := &Result{
		RunID: uuid.New().String(),
		Title: doc.Title,
	}

	var key string
	if len(raw) > 0 {
		key = cache.KeyForBytes(raw)
		if entry, ok := p.cache.Get(key); ok {
			res.Analysis = entry.Analysis
			res.Matches = entry.Matches
			res.AnalysisSource = "cache"
			res.CacheHit = true
			res.Elapsed = time.Since(started)
			return res, nil
		}
	}

	analysis, source := p.analyze(ctx, p.sampler.Sample(doc.Text()))
	res.Analysis = analysis
	res.AnalysisSource = source
	if analysis != nil {
		res.Matches = p.matchVoices(ctx, analysis)
		if key != "" {
			p.cache.Put(key, cacheEntry{Analysis: analysis, Matches: res.Matches})
		}
	}
	res.Elapsed = time.Since(started)
	return res, nil
}

// analyze runs the configured classifier, falling back to rule-based
// analysis when the primary fails or times out.
func (p *Pipeline) analyze(ctx context.Context, sample string) (*classify.BookAnalysis, string) {
	if timeout := p.cfg.Analysis.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	analysis, err := p.classifier.AnalyzeBook(ctx, sample)
	if err == nil {
		return analysis, p.classifier.Name()
	}
	p.logger.Warn("book analysis failed", "classifier", p.classifier.Name(), "error", err)
	if p.fallback == nil {
		return nil, ""
	}
	analysis, err = p.fallback.AnalyzeBook(context.WithoutCancel(ctx), sample)
	if err != nil {
		p.logger.Error("fallback analysis failed", "error", err)
		return nil, ""
	}
	return analysis, p.fallback.Name()
}

// matchVoices fetches the catalog, degrading to the static roster, and
// ranks the top candidates.
func (p *Pipeline) matchVoices(ctx context.Context, analysis *classify.BookAnalysis) []voices.Match {
	profiles, err := p.catalog.Fetch(ctx)
	if err != nil {
		p.logger.Warn("voice catalog degraded to static roster", "error", err)
	}
	return p.matcher.Match(ctx, analysis, profiles, p.cfg.Voices.TopN)
}
