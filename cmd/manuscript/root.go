package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/audiobooksmith/manuscript/internal/config"
	"github.com/audiobooksmith/manuscript/internal/pipeline"
	"github.com/audiobooksmith/manuscript/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "manuscript",
	Short: "Manuscript structuring and narration analysis pipeline",
	Long: `Manuscript turns a raw book file into a structured section map and
narration recommendations.

The pipeline includes:
  - Table of contents interpretation and section location
  - Multi-phase epilogue detection
  - Genre and tone analysis over a bounded text sample
  - Content-addressed caching of analysis results
  - Voice catalog matching for narration`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.manuscript/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// newPipeline loads configuration and assembles the shared pipeline.
func newPipeline() (*pipeline.Pipeline, *config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := mgr.Get()
	p, err := pipeline.New(cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}
