package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Structure.DedupThreshold != 0.95 {
		t.Errorf("DedupThreshold = %v", cfg.Structure.DedupThreshold)
	}
	if cfg.Structure.PageRadius != 10 {
		t.Errorf("PageRadius = %d", cfg.Structure.PageRadius)
	}
	if cfg.Epilogue.MinWords != 500 {
		t.Errorf("Epilogue.MinWords = %d", cfg.Epilogue.MinWords)
	}
	if cfg.Cache.Retention != 30*24*time.Hour {
		t.Errorf("Cache.Retention = %v", cfg.Cache.Retention)
	}
	if cfg.Voices.Workers != 4 {
		t.Errorf("Voices.Workers = %d", cfg.Voices.Workers)
	}
	if cfg.Analysis.SampleWords != 1000 {
		t.Errorf("Analysis.SampleWords = %d", cfg.Analysis.SampleWords)
	}
}

func TestNewManagerDefaults(t *testing.T) {
	resetViper(t)

	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.Get()
	if cfg.Structure.DedupThreshold != 0.95 {
		t.Errorf("DedupThreshold = %v, want default", cfg.Structure.DedupThreshold)
	}
	if cfg.Analysis.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Analysis.Provider)
	}
}

func TestNewManagerFromFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
structure:
  page_radius: 4
  dedup_threshold: 0.9
epilogue:
  min_words: 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.Get()
	if cfg.Structure.PageRadius != 4 {
		t.Errorf("PageRadius = %d, want 4", cfg.Structure.PageRadius)
	}
	if cfg.Structure.DedupThreshold != 0.9 {
		t.Errorf("DedupThreshold = %v, want 0.9", cfg.Structure.DedupThreshold)
	}
	if cfg.Epilogue.MinWords != 250 {
		t.Errorf("Epilogue.MinWords = %d, want 250", cfg.Epilogue.MinWords)
	}
	// Untouched keys keep their defaults.
	if cfg.Epilogue.PatternTailPages != 50 {
		t.Errorf("PatternTailPages = %d, want default 50", cfg.Epilogue.PatternTailPages)
	}
}

func TestWatchConfigReload(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("structure:\n  page_radius: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	changed := make(chan *Config, 4)
	m.OnChange(func(c *Config) { changed <- c })
	m.WatchConfig()

	if err := os.WriteFile(path, []byte("structure:\n  page_radius: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Structure.PageRadius != 7 {
				// The watcher can fire on intermediate states; wait for
				// the final one.
				continue
			}
			if got := m.Get().Structure.PageRadius; got != 7 {
				t.Errorf("Get() after reload = %d, want 7", got)
			}
			return
		case <-deadline:
			t.Fatal("config change callback never fired")
		}
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("MANUSCRIPT_TEST_KEY", "sk-12345")

	tests := []struct {
		in   string
		want string
	}{
		{"${MANUSCRIPT_TEST_KEY}", "sk-12345"},
		{"prefix-${MANUSCRIPT_TEST_KEY}", "prefix-sk-12345"},
		{"no-vars-here", "no-vars-here"},
		{"${UNSET_VARIABLE_XYZ}", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteDefault(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager on written default: %v", err)
	}
	cfg := m.Get()
	if cfg.Structure.DedupThreshold != 0.95 {
		t.Errorf("round-tripped DedupThreshold = %v", cfg.Structure.DedupThreshold)
	}
	if cfg.Voices.TopN != 5 {
		t.Errorf("round-tripped TopN = %d", cfg.Voices.TopN)
	}
}
