package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// completionResponse builds a minimal chat completion payload whose
// assistant message carries content.
func completionResponse(content string) string {
	msg, _ := json.Marshal(content)
	return fmt.Sprintf(`{
		"id": "cmpl-test",
		"object": "chat.completion",
		"model": "gpt-4.1-mini",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": %s}}]
	}`, msg)
}

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAI(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})
}

func TestOpenAIAnalyzeBook(t *testing.T) {
	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse(
			`{"genre":"mystery","tone":"tense","audience":"adult","pacing":"fast","style":"third-person","accent":"british","narrator_gender":"female"}`))
	})

	a, err := c.AnalyzeBook(context.Background(), "sample text")
	if err != nil {
		t.Fatalf("AnalyzeBook: %v", err)
	}
	if a.Genre != "mystery" || a.Accent != "british" || a.NarratorGender != "female" {
		t.Errorf("analysis = %+v", a)
	}
}

func TestOpenAIAnalyzeBookRejectsMalformedAnswer(t *testing.T) {
	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse(`{"genre":"mystery"}`))
	})

	if _, err := c.AnalyzeBook(context.Background(), "sample text"); err == nil {
		t.Error("schema-invalid answer produced no error")
	}
}

func TestOpenAILocateEpilogue(t *testing.T) {
	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse(
			"The tail clearly ends with a wrap-up.\n"+
				`{"has_epilogue":true,"start_page_offset":7,"confidence":85}`))
	})

	ans, err := c.LocateEpilogue(context.Background(), "tail text", 10)
	if err != nil {
		t.Fatalf("LocateEpilogue: %v", err)
	}
	if !ans.HasEpilogue || ans.StartPageOffset != 7 || ans.Confidence != 85 {
		t.Errorf("answer = %+v", ans)
	}
}

func TestOpenAIRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	})

	if _, err := c.AnalyzeBook(context.Background(), "sample"); err == nil {
		t.Fatal("persistent server failure produced no error")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2 (one retry)", got)
	}
}

func TestOpenAINegativeRetriesTakeDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewOpenAI(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		MaxRetries: -1,
		RetryDelay: time.Millisecond,
	})
	if _, err := c.AnalyzeBook(context.Background(), "sample"); err == nil {
		t.Fatal("persistent server failure produced no error")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3 (default two retries)", got)
	}
}
