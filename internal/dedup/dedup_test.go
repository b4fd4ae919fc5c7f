package dedup

import (
	"strings"
	"testing"
)

func TestSimilarity(t *testing.T) {
	base := strings.Repeat("The night train crossed the border a little after two. ", 30)

	t.Run("identical content", func(t *testing.T) {
		a := NewFingerprint(base)
		b := NewFingerprint(base)
		if got := a.Similarity(b); got < 0.99 {
			t.Errorf("Similarity = %v, want ~1.0", got)
		}
	})

	t.Run("different content", func(t *testing.T) {
		a := NewFingerprint(base)
		b := NewFingerprint(strings.Repeat("Quarterly earnings exceeded projections across all divisions. ", 30))
		if got := a.Similarity(b); got > 0.5 {
			t.Errorf("Similarity = %v, want low", got)
		}
	})

	t.Run("empty never matches", func(t *testing.T) {
		a := NewFingerprint("")
		b := NewFingerprint("")
		if got := a.Similarity(b); got != 0 {
			t.Errorf("Similarity of two empties = %v, want 0", got)
		}
	})
}

func TestKeep(t *testing.T) {
	body := strings.Repeat("She waited at the station until the last lamp went out. ", 40)
	other := strings.Repeat("The committee reconvened at dawn to hear the final votes. ", 40)

	t.Run("earlier occurrence wins", func(t *testing.T) {
		d := New(0.95, nil)
		kept := d.Keep([]string{body, other, body})
		want := []int{0, 1}
		if len(kept) != len(want) {
			t.Fatalf("Keep returned %v, want %v", kept, want)
		}
		for i := range want {
			if kept[i] != want[i] {
				t.Fatalf("Keep returned %v, want %v", kept, want)
			}
		}
	})

	t.Run("distinct contents all survive", func(t *testing.T) {
		d := New(0.95, nil)
		kept := d.Keep([]string{body, other})
		if len(kept) != 2 {
			t.Fatalf("Keep removed a distinct section: %v", kept)
		}
	})

	t.Run("bodiless entries are never deduplicated", func(t *testing.T) {
		d := New(0.95, nil)
		kept := d.Keep([]string{"", "", body})
		if len(kept) != 3 {
			t.Fatalf("Keep collapsed empty bodies: %v", kept)
		}
	})

	t.Run("threshold is respected", func(t *testing.T) {
		// Slightly perturbed copy stays below a strict threshold.
		perturbed := strings.Replace(body, "station", "harbor", 3)
		strict := New(0.999, nil)
		if kept := strict.Keep([]string{body, perturbed}); len(kept) != 2 {
			t.Fatalf("strict threshold removed a near-duplicate: %v", kept)
		}
		loose := New(0.5, nil)
		if kept := loose.Keep([]string{body, perturbed}); len(kept) != 1 {
			t.Fatalf("loose threshold kept a near-duplicate: %v", kept)
		}
	})
}
