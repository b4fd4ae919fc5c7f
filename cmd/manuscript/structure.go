package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audiobooksmith/manuscript/internal/extract"
	"github.com/audiobooksmith/manuscript/internal/structure"
	"github.com/audiobooksmith/manuscript/internal/types"
)

var (
	structureTocPath       string
	structureExportDir     string
	structureMinConfidence string
)

var structureCmd = &cobra.Command{
	Use:   "structure <file>",
	Short: "Detect and print the section structure of a book file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := newPipeline()
		if err != nil {
			return err
		}
		doc, _, err := extract.Load(args[0], nil)
		if err != nil {
			return err
		}
		toc, err := loadToc(structureTocPath)
		if err != nil {
			return err
		}
		bs, err := p.Structure(cmd.Context(), doc, toc)
		if err != nil {
			return err
		}
		if structureExportDir != "" {
			if err := exportBodies(structureExportDir, bs); err != nil {
				return err
			}
		}
		if structureMinConfidence != "" {
			bs.Sections = bs.SectionsAtOrAbove(types.ParseConfidenceLevel(structureMinConfidence))
		}
		return printResult(bs)
	},
}

func init() {
	structureCmd.Flags().StringVar(&structureTocPath, "toc", "", "table of contents sidecar file (yaml or json)")
	structureCmd.Flags().StringVar(&structureExportDir, "export", "", "directory to write one text file per section body")
	structureCmd.Flags().StringVar(&structureMinConfidence, "min-confidence", "", "only print sections at or above this confidence (low, medium, high)")
}

// exportBodies writes each located section's text to its own file.
func exportBodies(dir string, bs *structure.BookStructure) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	for i, s := range bs.Sections {
		if !s.Located {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%03d_%s.txt", i+1, slugify(s.Title)))
		if err := os.WriteFile(path, []byte(s.Body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// slugify turns a section title into a safe filename fragment.
func slugify(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}
