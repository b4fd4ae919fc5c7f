// Package classify abstracts the external text-classification capability
// behind a narrow interface with two implementations: a rule-based fallback
// that always works offline, and an AI-assisted client. Callers must invoke
// it with a timeout and treat failure as a degrade signal, never as fatal.
package classify

import (
	"context"
)

// BookAnalysis holds the derived book characteristics consumed by the
// voice matcher and the result-rendering layer.
type BookAnalysis struct {
	Genre    string `json:"genre"`
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
	Pacing   string `json:"pacing"`
	Style    string `json:"style,omitempty"`
	Accent   string `json:"accent,omitempty"`
	// NarratorGender is the recommended narrator gender, or "either" or
	// empty when the text carries no preference.
	NarratorGender string `json:"narrator_gender,omitempty"`
}

// EpilogueAnswer is the classifier's response to the closed epilogue
// question over the document tail.
type EpilogueAnswer struct {
	HasEpilogue bool `json:"has_epilogue"`
	// StartPageOffset is 0-indexed from the first page of the submitted
	// tail. Only meaningful when HasEpilogue is true.
	StartPageOffset int `json:"start_page_offset"`
	Confidence      int `json:"confidence"`
}

// Classifier is the narrow interface to the classification capability.
// Implementations must honor ctx cancellation; callers wrap calls in a
// timeout and fall back to rule-based behavior on any error.
type Classifier interface {
	// AnalyzeBook derives genre/tone/audience/pacing from a bounded,
	// multi-location text sample.
	AnalyzeBook(ctx context.Context, sample string) (*BookAnalysis, error)

	// LocateEpilogue answers the closed yes/no/location epilogue question
	// for the last tailPages pages of the document.
	LocateEpilogue(ctx context.Context, tail string, tailPages int) (*EpilogueAnswer, error)

	// Name identifies the implementation ("rules", "openai").
	Name() string
}
