package main

import (
	"github.com/spf13/cobra"

	"github.com/audiobooksmith/manuscript/internal/extract"
)

var voicesCmd = &cobra.Command{
	Use:   "voices <file>",
	Short: "Analyze a book file and recommend narration voices",
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
		res, err := p.Recommend(cmd.Context(), doc, raw)
		if err != nil {
			return err
		}
		return printResult(res)
	},
}
