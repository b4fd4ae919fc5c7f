package main

import (
	"github.com/spf13/cobra"

	"github.com/audiobooksmith/manuscript/internal/extract"
)

var analyzeTocPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the full structuring and analysis pipeline on a book file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := newPipeline()
		if err != nil {
			return err
		}
		doc, raw, err := extract.Load(args[0], nil)
		if err != nil {
			return err
		}
		toc, err := loadToc(analyzeTocPath)
		if err != nil {
			return err
		}
		res, err := p.Process(cmd.Context(), doc, toc, raw)
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTocPath, "toc", "", "table of contents sidecar file (yaml or json)")
}
