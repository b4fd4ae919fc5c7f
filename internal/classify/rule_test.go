package classify

import (
	"context"
	"strings"
	"testing"
)

func TestCountClosureTerms(t *testing.T) {
	text := "Years later she would remember. Since then, nothing. SINCE THEN, everything."
	if got := CountClosureTerms(text); got != 3 {
		t.Errorf("CountClosureTerms = %d, want 3", got)
	}
	if got := CountClosureTerms("an ordinary paragraph about weather"); got != 0 {
		t.Errorf("CountClosureTerms = %d, want 0", got)
	}
}

func TestRuleBasedAnalyzeBook(t *testing.T) {
	r := NewRuleBased()

	t.Run("fantasy sample", func(t *testing.T) {
		sample := strings.Repeat("The wizard raised his sword as the dragon circled the kingdom. Old magic stirred. ", 10)
		a, err := r.AnalyzeBook(context.Background(), sample)
		if err != nil {
			t.Fatalf("AnalyzeBook: %v", err)
		}
		if a.Genre != "fantasy" {
			t.Errorf("Genre = %q, want fantasy", a.Genre)
		}
		if a.Audience != "adult" {
			t.Errorf("Audience = %q", a.Audience)
		}
	})

	t.Run("business sample turns serious", func(t *testing.T) {
		sample := strings.Repeat("Effective leadership requires a clear strategy. Good management listens to the market before acting on it. The business depends on this. ", 8)
		a, err := r.AnalyzeBook(context.Background(), sample)
		if err != nil {
			t.Fatalf("AnalyzeBook: %v", err)
		}
		if a.Genre != "business" {
			t.Errorf("Genre = %q, want business", a.Genre)
		}
		if a.Tone != "serious" {
			t.Errorf("Tone = %q, want serious", a.Tone)
		}
	})

	t.Run("first person detected", func(t *testing.T) {
		sample := "I was born in a small town. I had nothing but my story and the patience to tell it across many long winters of ordinary quiet work."
		a, err := r.AnalyzeBook(context.Background(), sample)
		if err != nil {
			t.Fatalf("AnalyzeBook: %v", err)
		}
		if a.Style != "first-person" {
			t.Errorf("Style = %q", a.Style)
		}
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := r.AnalyzeBook(ctx, "text"); err == nil {
			t.Error("cancelled context produced no error")
		}
	})
}

func TestRuleBasedLocateEpilogue(t *testing.T) {
	r := NewRuleBased()

	t.Run("closure-dense page wins", func(t *testing.T) {
		pages := []string{
			"The chase ended at the river and nobody spoke on the ride home.",
			"Years later, looking back, she knew. Since then the town had been kind to her.",
			"Acknowledgments and thanks to everyone involved in the work.",
		}
		ans, err := r.LocateEpilogue(context.Background(), strings.Join(pages, "\f"), len(pages))
		if err != nil {
			t.Fatalf("LocateEpilogue: %v", err)
		}
		if !ans.HasEpilogue {
			t.Fatal("HasEpilogue = false")
		}
		if ans.StartPageOffset != 1 {
			t.Errorf("StartPageOffset = %d, want 1", ans.StartPageOffset)
		}
		if ans.Confidence < 50 || ans.Confidence > 90 {
			t.Errorf("Confidence = %d, want within [50,90]", ans.Confidence)
		}
	})

	t.Run("single hit is not enough", func(t *testing.T) {
		tail := "Years later the bridge still stood.\fNothing else of note happened."
		ans, err := r.LocateEpilogue(context.Background(), tail, 2)
		if err != nil {
			t.Fatalf("LocateEpilogue: %v", err)
		}
		if ans.HasEpilogue {
			t.Error("one closure term produced a positive answer")
		}
	})
}

func TestExtractJSON(t *testing.T) {
	t.Run("fenced response", func(t *testing.T) {
		raw, err := extractJSON("Here you go:\n```json\n{\"genre\": \"mystery\"}\n```")
		if err != nil {
			t.Fatalf("extractJSON: %v", err)
		}
		if string(raw) != `{"genre": "mystery"}` {
			t.Errorf("extractJSON = %s", raw)
		}
	})

	t.Run("no object", func(t *testing.T) {
		if _, err := extractJSON("I cannot answer that."); err == nil {
			t.Error("prose-only response produced no error")
		}
	})
}

func TestValidateAndDecode(t *testing.T) {
	t.Run("valid analysis", func(t *testing.T) {
		raw := []byte(`{"genre":"fantasy","tone":"dark","audience":"adult","pacing":"fast"}`)
		var a BookAnalysis
		if err := validateAndDecode(bookAnalysisValidator, raw, &a); err != nil {
			t.Fatalf("validateAndDecode: %v", err)
		}
		if a.Genre != "fantasy" || a.Pacing != "fast" {
			t.Errorf("decoded = %+v", a)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		raw := []byte(`{"genre":"fantasy"}`)
		var a BookAnalysis
		if err := validateAndDecode(bookAnalysisValidator, raw, &a); err == nil {
			t.Error("incomplete object passed validation")
		}
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		raw := []byte(`{"has_epilogue":"yes"}`)
		var e EpilogueAnswer
		if err := validateAndDecode(epilogueAnswerValidator, raw, &e); err == nil {
			t.Error("string boolean passed validation")
		}
	})
}
