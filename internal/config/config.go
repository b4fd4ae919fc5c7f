// Package config loads and hot-reloads the manuscript pipeline
// configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration. Every detection threshold is
// tunable here; the defaults are the values production runs use.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Structure StructureConfig `mapstructure:"structure" yaml:"structure"`
	Epilogue  EpilogueConfig  `mapstructure:"epilogue" yaml:"epilogue"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Voices    VoicesConfig    `mapstructure:"voices" yaml:"voices"`
}

// AnalysisConfig drives sampling and the model-backed classifier.
type AnalysisConfig struct {
	// Provider selects the classifier: "openai" or "rule".
	Provider       string        `mapstructure:"provider" yaml:"provider"`
	Model          string        `mapstructure:"model" yaml:"model"`
	APIKey         string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries"`
	SampleWords    int           `mapstructure:"sample_words" yaml:"sample_words"`
	FallbackToRule bool          `mapstructure:"fallback_to_rule" yaml:"fallback_to_rule"`
}

// StructureConfig drives section detection and deduplication.
type StructureConfig struct {
	PageRadius      int     `mapstructure:"page_radius" yaml:"page_radius"`
	MinSectionWords int     `mapstructure:"min_section_words" yaml:"min_section_words"`
	DedupThreshold  float64 `mapstructure:"dedup_threshold" yaml:"dedup_threshold"`
	HeaderWindow    int     `mapstructure:"header_window" yaml:"header_window"`
	HeaderMinRepeat int     `mapstructure:"header_min_repeat" yaml:"header_min_repeat"`
	HeaderTopLines  int     `mapstructure:"header_top_lines" yaml:"header_top_lines"`
}

// EpilogueConfig drives the phased epilogue search.
type EpilogueConfig struct {
	PatternTailPages    int `mapstructure:"pattern_tail_pages" yaml:"pattern_tail_pages"`
	ClassifierTailPages int `mapstructure:"classifier_tail_pages" yaml:"classifier_tail_pages"`
	MinWords            int `mapstructure:"min_words" yaml:"min_words"`
	MinClosureTerms     int `mapstructure:"min_closure_terms" yaml:"min_closure_terms"`
}

// CacheConfig drives the analysis result cache.
type CacheConfig struct {
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
	Retention  time.Duration `mapstructure:"retention" yaml:"retention"`
}

// VoicesConfig drives catalog access and matching.
type VoicesConfig struct {
	CatalogURL string `mapstructure:"catalog_url" yaml:"catalog_url,omitempty"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	Workers    int    `mapstructure:"workers" yaml:"workers"`
	TopN       int    `mapstructure:"top_n" yaml:"top_n"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Provider:       "openai",
			Model:          "gpt-4.1-mini",
			APIKey:         "${OPENAI_API_KEY}",
			Timeout:        30 * time.Second,
			MaxRetries:     2,
			SampleWords:    1000,
			FallbackToRule: true,
		},
		Structure: StructureConfig{
			PageRadius:      10,
			MinSectionWords: 300,
			DedupThreshold:  0.95,
			HeaderWindow:    5,
			HeaderMinRepeat: 3,
			HeaderTopLines:  3,
		},
		Epilogue: EpilogueConfig{
			PatternTailPages:    50,
			ClassifierTailPages: 10,
			MinWords:            500,
			MinClosureTerms:     2,
		},
		Cache: CacheConfig{
			MaxEntries: 128,
			Retention:  30 * 24 * time.Hour,
		},
		Voices: VoicesConfig{
			APIKey:  "${ELEVENLABS_API_KEY}",
			Workers: 4,
			TopN:    5,
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	// Leaf-level defaults so a partial config file merges instead of
	// shadowing whole sections.
	defaults := DefaultConfig()
	viper.SetDefault("analysis.provider", defaults.Analysis.Provider)
	viper.SetDefault("analysis.model", defaults.Analysis.Model)
	viper.SetDefault("analysis.api_key", defaults.Analysis.APIKey)
	viper.SetDefault("analysis.base_url", defaults.Analysis.BaseURL)
	viper.SetDefault("analysis.timeout", defaults.Analysis.Timeout)
	viper.SetDefault("analysis.max_retries", defaults.Analysis.MaxRetries)
	viper.SetDefault("analysis.sample_words", defaults.Analysis.SampleWords)
	viper.SetDefault("analysis.fallback_to_rule", defaults.Analysis.FallbackToRule)
	viper.SetDefault("structure.page_radius", defaults.Structure.PageRadius)
	viper.SetDefault("structure.min_section_words", defaults.Structure.MinSectionWords)
	viper.SetDefault("structure.dedup_threshold", defaults.Structure.DedupThreshold)
	viper.SetDefault("structure.header_window", defaults.Structure.HeaderWindow)
	viper.SetDefault("structure.header_min_repeat", defaults.Structure.HeaderMinRepeat)
	viper.SetDefault("structure.header_top_lines", defaults.Structure.HeaderTopLines)
	viper.SetDefault("epilogue.pattern_tail_pages", defaults.Epilogue.PatternTailPages)
	viper.SetDefault("epilogue.classifier_tail_pages", defaults.Epilogue.ClassifierTailPages)
	viper.SetDefault("epilogue.min_words", defaults.Epilogue.MinWords)
	viper.SetDefault("epilogue.min_closure_terms", defaults.Epilogue.MinClosureTerms)
	viper.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)
	viper.SetDefault("cache.retention", defaults.Cache.Retention)
	viper.SetDefault("voices.catalog_url", defaults.Voices.CatalogURL)
	viper.SetDefault("voices.api_key", defaults.Voices.APIKey)
	viper.SetDefault("voices.workers", defaults.Voices.Workers)
	viper.SetDefault("voices.top_n", defaults.Voices.TopN)

	// Environment variables with MANUSCRIPT_ prefix
	viper.SetEnvPrefix("MANUSCRIPT")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.manuscript")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Manuscript pipeline configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx ELEVENLABS_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
