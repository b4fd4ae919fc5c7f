package voices

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/audiobooksmith/manuscript/internal/classify"
)

// Match pairs a voice with its fit score for one book. Reasons are the
// human-readable scoring contributions, in scoring order.
type Match struct {
	Voice   VoiceProfile `json:"voice"`
	Score   int          `json:"score"`
	Reasons []string     `json:"reasons"`
}

// MatcherConfig tunes the matching run.
type MatcherConfig struct {
	// Workers is the scoring concurrency.
	Workers int
	Logger  *slog.Logger
}

// Matcher scores catalog voices against a book analysis. Scoring is pure
// so a rerun over the same inputs always produces the same ranking.
type Matcher struct {
	workers int
	logger  *slog.Logger
}

// NewMatcher builds a Matcher, filling zero-valued config fields with
// defaults.
func NewMatcher(cfg MatcherConfig) *Matcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{workers: cfg.Workers, logger: logger}
}

// Match ranks the narration-suitable subset of profiles against the
// analysis and returns the top n. Ties break on catalog order, so the
// ranking is stable across runs.
func (m *Matcher) Match(ctx context.Context, analysis *classify.BookAnalysis, profiles []VoiceProfile, n int) []Match {
	eligible := FilterNarration(profiles)
	if len(eligible) == 0 {
		return nil
	}

	results := make([]Match, len(eligible))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < m.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				score, reasons := Score(analysis, eligible[i])
				results[i] = Match{Voice: eligible[i], Score: score, Reasons: reasons}
			}
		}()
	}

feed:
	for i := range eligible {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].Score > results[order[b]].Score
	})

	if n <= 0 || n > len(order) {
		n = len(order)
	}
	top := make([]Match, 0, n)
	for _, idx := range order[:n] {
		top = append(top, results[idx])
	}
	m.logger.Debug("voices matched",
		"eligible", len(eligible),
		"returned", len(top))
	return top
}

// genreUseCases maps analyzed genres to the catalog use cases that suit
// them beyond plain narration.
var genreUseCases = map[string][]string{
	"fantasy":         {"characters", "audiobook"},
	"science fiction": {"characters", "audiobook"},
	"mystery":         {"characters", "audiobook"},
	"romance":         {"audiobook"},
	"business":        {"news", "documentary"},
	"historical":      {"documentary", "audiobook"},
	"memoir":          {"documentary", "audiobook"},
}

// Score computes the deterministic fit of one voice for one analysis.
func Score(analysis *classify.BookAnalysis, v VoiceProfile) (int, []string) {
	score := 0
	var reasons []string

	for _, tag := range v.UseCaseTags {
		switch tag {
		case "audiobook":
			score += 25
			reasons = append(reasons, "audiobook use case")
		case "narration":
			score += 15
			reasons = append(reasons, "narration use case")
		}
	}

	if analysis == nil {
		return score, reasons
	}

	genre := strings.ToLower(analysis.Genre)
	for _, want := range genreUseCases[genre] {
		for _, tag := range v.UseCaseTags {
			if tag == want && want != "audiobook" && want != "narration" {
				score += 10
				reasons = append(reasons, "suits "+genre)
			}
		}
	}

	if accent := strings.ToLower(analysis.Accent); accent != "" {
		for _, tag := range v.AccentTags {
			if strings.EqualFold(tag, accent) {
				score += 30
				reasons = append(reasons, "accent match")
				break
			}
		}
	}

	tone := strings.ToLower(analysis.Tone)
	switch {
	case strings.Contains(tone, "dark") || strings.Contains(tone, "serious"):
		if v.AgeRange == "middle aged" || v.AgeRange == "old" {
			score += 10
			reasons = append(reasons, "mature register for "+tone+" tone")
		}
	case strings.Contains(tone, "light") || strings.Contains(tone, "humorous"):
		if v.AgeRange == "young adult" {
			score += 10
			reasons = append(reasons, "youthful register for "+tone+" tone")
		}
	}

	audience := strings.ToLower(analysis.Audience)
	if strings.Contains(audience, "children") {
		for _, tag := range v.UseCaseTags {
			if tag == "children" {
				score += 20
				reasons = append(reasons, "children's catalog voice")
			}
		}
	}

	if gender := strings.ToLower(analysis.NarratorGender); gender != "" && gender != "either" {
		if strings.EqualFold(v.Gender, gender) {
			score += 15
			reasons = append(reasons, "preferred narrator gender")
		}
	}

	// Contributions can stack past the scale on a strong fit.
	if score > 100 {
		score = 100
	}
	return score, reasons
}
