// Package extract loads manuscripts from disk into page-indexed documents.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/audiobooksmith/manuscript/internal/document"
)

// linesPerPage paginates plain text files that carry no form feeds.
const linesPerPage = 40

// Load reads the file at path and returns the parsed document along with
// the raw bytes, which callers need for content-hash cache keys.
func Load(path string, logger *slog.Logger) (*document.Document, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	title := deriveTitle(path)
	var doc *document.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		doc, err = fromPDF(path, title)
	default:
		doc, err = fromText(raw, title)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("document loaded", "path", path, "pages", doc.PageCount())
	return doc, raw, nil
}

// fromText paginates plain text. Form feeds are honored as page breaks;
// without them the text is cut into fixed-size pages.
func fromText(raw []byte, title string) (*document.Document, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	var pages []string
	if strings.Contains(text, "\f") {
		pages = strings.Split(text, "\f")
	} else {
		lines := strings.Split(text, "\n")
		for start := 0; start < len(lines); start += linesPerPage {
			end := start + linesPerPage
			if end > len(lines) {
				end = len(lines)
			}
			pages = append(pages, strings.Join(lines[start:end], "\n"))
		}
	}
	doc := document.New(title, pages)
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("parsing text document: %w", err)
	}
	return doc, nil
}

// deriveTitle extracts a title from a filename.
// e.g., "the-buried-secret.pdf" -> "the-buried-secret"
func deriveTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
