package document

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Run("no pages", func(t *testing.T) {
		doc := New("empty", nil)
		if err := doc.Validate(); !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Validate() = %v, want ErrEmptyDocument", err)
		}
	})

	t.Run("whitespace only", func(t *testing.T) {
		doc := New("blank", []string{"   \n\n  ", "\t"})
		if err := doc.Validate(); !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Validate() = %v, want ErrEmptyDocument", err)
		}
	})

	t.Run("has text", func(t *testing.T) {
		doc := New("ok", []string{"Chapter 1\nIt begins."})
		if err := doc.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestRangeText(t *testing.T) {
	doc := New("book", []string{
		"page one line a\npage one line b",
		"page two line a\npage two line b",
		"page three line a",
	})

	t.Run("within one page", func(t *testing.T) {
		got := doc.RangeText(1, 1, 1, 1)
		if got != "page one line b" {
			t.Errorf("RangeText = %q", got)
		}
	})

	t.Run("spanning pages", func(t *testing.T) {
		got := doc.RangeText(1, 1, 2, 0)
		want := "page one line b\npage two line a"
		if got != want {
			t.Errorf("RangeText = %q, want %q", got, want)
		}
	})

	t.Run("clamped bounds", func(t *testing.T) {
		got := doc.RangeText(2, 0, 99, 99)
		want := "page two line a\npage two line b\npage three line a"
		if got != want {
			t.Errorf("RangeText = %q, want %q", got, want)
		}
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		if got := doc.RangeText(3, 0, 1, 0); got != "" {
			t.Errorf("RangeText = %q, want empty", got)
		}
	})
}

func TestTopLines(t *testing.T) {
	doc := New("book", []string{"\n  HEADER  \n\nBody starts here\nmore body"})
	got := doc.TopLines(1, 2)
	if len(got) != 2 || got[0] != "HEADER" || got[1] != "Body starts here" {
		t.Errorf("TopLines = %v", got)
	}
	if out := doc.TopLines(99, 3); out != nil {
		t.Errorf("TopLines out of range = %v, want nil", out)
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  three  little words \n"); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount empty = %d, want 0", got)
	}
}
