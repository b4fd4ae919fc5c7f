package pattern

import (
	"fmt"
	"strings"
	"testing"

	"github.com/audiobooksmith/manuscript/internal/document"
	"github.com/audiobooksmith/manuscript/internal/types"
)

func TestMatchEpilogueMarker(t *testing.T) {
	matching := []string{
		"EPILOGUE",
		"Epilogue",
		"EPILOGUE: Ten Years On",
		"Epilogue: The Long Road",
		"221 EPILOGUE",
		"Chapter 30: Epilogue",
		"  Epilogue  ",
	}
	for _, line := range matching {
		if !MatchEpilogueMarker(line) {
			t.Errorf("MatchEpilogueMarker(%q) = false, want true", line)
		}
	}

	nonMatching := []string{
		"epilogue",
		"The epilogue begins here",
		"EPILOGUES OF HISTORY",
		"He walked toward the epilogue of his life",
		"",
	}
	for _, line := range nonMatching {
		if MatchEpilogueMarker(line) {
			t.Errorf("MatchEpilogueMarker(%q) = true, want false", line)
		}
	}
}

func TestMatchMarker(t *testing.T) {
	tests := []struct {
		line string
		rule string
		kind types.SectionKind
	}{
		{"Prologue", "prologue", types.KindPrologue},
		{"EPILOGUE", "epilogue", types.KindEpilogue},
		{"Chapter 12: Epilogue", "epilogue-chapter", types.KindEpilogue},
		{"Part II", "part", types.KindPart},
		{"Chapter 7", "chapter-word", types.KindChapter},
		{"12. The Reckoning", "chapter-numeric", types.KindChapter},
		{"Foreword", "foreword", types.KindFrontMatter},
		{"Acknowledgments", "acknowledgments", types.KindFrontMatter},
		{"About the Author", "about-author", types.KindBackMatter},
		{"Bibliography", "bibliography", types.KindBackMatter},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r, ok := MatchMarker(tt.line)
			if !ok {
				t.Fatalf("MatchMarker(%q) found no rule", tt.line)
			}
			if r.Name != tt.rule {
				t.Errorf("MatchMarker(%q) rule = %q, want %q", tt.line, r.Name, tt.rule)
			}
			if r.Kind != tt.kind {
				t.Errorf("MatchMarker(%q) kind = %v, want %v", tt.line, r.Kind, tt.kind)
			}
		})
	}

	if _, ok := MatchMarker("It was a dark and stormy night."); ok {
		t.Error("prose line matched a marker rule")
	}
}

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title  string
		kind   types.SectionKind
		number int
		hasNum bool
	}{
		{"Prologue", types.KindPrologue, 0, false},
		{"Epilogue", types.KindEpilogue, 0, false},
		{"Chapter 30: Epilogue", types.KindEpilogue, 0, false},
		{"Part I: The Beginning", types.KindPart, 0, false},
		{"Introduction", types.KindFrontMatter, 0, false},
		{"About the Author", types.KindBackMatter, 0, false},
		{"Chapter 14", types.KindChapter, 14, true},
		{"3. The Visitor", types.KindChapter, 3, true},
		{"The Buried Secret", types.KindChapter, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			kind, num := ClassifyTitle(tt.title)
			if kind != tt.kind {
				t.Errorf("kind = %v, want %v", kind, tt.kind)
			}
			if tt.hasNum {
				if num == nil {
					t.Fatal("number = nil, want value")
				}
				if *num != tt.number {
					t.Errorf("number = %d, want %d", *num, tt.number)
				}
			} else if num != nil {
				t.Errorf("number = %d, want nil", *num)
			}
		})
	}
}

func TestIsRunningHeader(t *testing.T) {
	// Build a document whose pages all carry the book title as a header
	// line, with one genuine heading in the middle.
	pages := make([]string, 12)
	for i := range pages {
		pages[i] = fmt.Sprintf("THE LONG WAR\n\nSome page text for page %d.", i+1)
	}
	pages[5] = "THE LONG WAR\n\nEPILOGUE\n\nYears later the fields were quiet."
	doc := document.New("The Long War", pages)

	cfg := DefaultHeaderConfig()
	if !IsRunningHeader(doc, 6, "THE LONG WAR", cfg) {
		t.Error("repeated title line not flagged as running header")
	}
	if IsRunningHeader(doc, 6, "EPILOGUE", cfg) {
		t.Error("one-off heading flagged as running header")
	}
}

func TestIsStandaloneHeading(t *testing.T) {
	good := []string{"EPILOGUE", "Chapter One", "The Buried Secret", "PART TWO", "About the Author"}
	for _, line := range good {
		if !IsStandaloneHeading(line) {
			t.Errorf("IsStandaloneHeading(%q) = false, want true", line)
		}
	}
	bad := []string{
		"it was morning when they came",
		"He said, quietly, that it was over.",
		"a",
		strings.Repeat("Long Heading ", 10),
	}
	for _, line := range bad {
		if IsStandaloneHeading(line) {
			t.Errorf("IsStandaloneHeading(%q) = true, want false", line)
		}
	}
}

func TestHasExcessiveRepetition(t *testing.T) {
	if !HasExcessiveRepetition(strings.Repeat("index ", 80)) {
		t.Error("repeated single word not flagged")
	}
	prose := "The morning came slowly over the hills and the town below began to stir with small familiar sounds of work and weather and ordinary life continuing on as before."
	if HasExcessiveRepetition(prose) {
		t.Error("ordinary prose flagged as repetitive")
	}
}
