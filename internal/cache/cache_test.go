package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestKeyForBytes(t *testing.T) {
	t.Run("same content same key", func(t *testing.T) {
		data := bytes.Repeat([]byte("the manuscript text "), 1000)
		if KeyForBytes(data) != KeyForBytes(append([]byte(nil), data...)) {
			t.Error("identical bytes produced different keys")
		}
	})

	t.Run("single byte change changes key", func(t *testing.T) {
		data := bytes.Repeat([]byte("x"), 4096)
		changed := append([]byte(nil), data...)
		changed[100] = 'y'
		if KeyForBytes(data) == KeyForBytes(changed) {
			t.Error("edited content kept the same key")
		}
	})

	t.Run("length is part of the key", func(t *testing.T) {
		// Same first and last hashed spans, different total size.
		big := bytes.Repeat([]byte("z"), 3*hashSpan)
		bigger := bytes.Repeat([]byte("z"), 4*hashSpan)
		if KeyForBytes(big) == KeyForBytes(bigger) {
			t.Error("documents of different sizes share a key")
		}
	})
}

func TestKeyFor(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("chapter text "), 500)

	pathA := filepath.Join(dir, "original.txt")
	pathB := filepath.Join(dir, "renamed_copy.txt")
	if err := os.WriteFile(pathA, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, content, 0o644); err != nil {
		t.Fatal(err)
	}

	keyA, err := KeyFor(pathA)
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	keyB, err := KeyFor(pathB)
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	if keyA != keyB {
		t.Error("same content under different names produced different keys")
	}

	if keyA != KeyForBytes(content) {
		t.Error("file key disagrees with in-memory key for same content")
	}

	if _, err := KeyFor(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("KeyFor on missing file returned no error")
	}
}

func TestCache(t *testing.T) {
	t.Run("hit and miss counters", func(t *testing.T) {
		c := New[string](8, time.Hour, nil)
		if _, ok := c.Get("a"); ok {
			t.Fatal("empty cache reported a hit")
		}
		c.Put("a", "value")
		v, ok := c.Get("a")
		if !ok || v != "value" {
			t.Fatalf("Get = %q, %v", v, ok)
		}

		stats := c.Stats()
		if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
			t.Errorf("Stats = %+v", stats)
		}
		if got := stats.HitRate(); got != 0.5 {
			t.Errorf("HitRate = %v, want 0.5", got)
		}
	})

	t.Run("expired entries miss", func(t *testing.T) {
		c := New[int](8, 10*time.Millisecond, nil)
		c.Put("k", 42)
		time.Sleep(30 * time.Millisecond)
		if _, ok := c.Get("k"); ok {
			t.Error("expired entry still served")
		}
	})

	t.Run("purge keeps counters", func(t *testing.T) {
		c := New[int](8, time.Hour, nil)
		c.Put("k", 1)
		c.Get("k")
		c.Purge()
		stats := c.Stats()
		if stats.Entries != 0 {
			t.Errorf("Entries = %d after purge", stats.Entries)
		}
		if stats.Hits != 1 {
			t.Errorf("Hits = %d, want 1", stats.Hits)
		}
	})

	t.Run("zero hit rate before lookups", func(t *testing.T) {
		c := New[int](8, time.Hour, nil)
		if got := c.Stats().HitRate(); got != 0 {
			t.Errorf("HitRate = %v, want 0", got)
		}
	})
}
