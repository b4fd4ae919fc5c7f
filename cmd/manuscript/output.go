package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/audiobooksmith/manuscript/internal/document"
)

// printResult renders v to stdout in the selected output format.
func printResult(v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

// tocFile is the on-disk shape of a table of contents sidecar.
type tocFile struct {
	Entries []struct {
		Title string `yaml:"title" json:"title"`
		Page  int    `yaml:"page" json:"page"`
		Level int    `yaml:"level" json:"level"`
	} `yaml:"entries" json:"entries"`
}

// loadToc reads a ToC sidecar file. YAML and JSON both parse.
func loadToc(path string) ([]document.TocEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading toc file: %w", err)
	}
	var tf tocFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing toc file: %w", err)
	}
	entries := make([]document.TocEntry, 0, len(tf.Entries))
	for _, e := range tf.Entries {
		entries = append(entries, document.TocEntry{
			Title:      e.Title,
			TargetPage: e.Page,
			Level:      e.Level,
		})
	}
	return entries, nil
}
