// Package document defines the page-indexed text model consumed by the
// structuring pipeline. Documents are produced by format-specific extraction
// adapters and are read-only once constructed.
package document

import (
	"errors"
	"strings"
)

// ErrEmptyDocument is returned for documents with no extractable text.
// Callers should surface this distinctly from "accepted but section absent"
// outcomes.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Page is an ordered sequence of text lines with a 1-indexed page number.
type Page struct {
	Num   int      `json:"num"`
	Lines []string `json:"lines"`
}

// TocEntry is a single embedded table-of-contents entry. TargetPage is the
// nominal 1-indexed page number, which is frequently inaccurate.
type TocEntry struct {
	Title      string `json:"title"`
	TargetPage int    `json:"target_page"`
	Level      int    `json:"level,omitempty"`
}

// Document is an ordered sequence of pages plus optional metadata.
type Document struct {
	Title string `json:"title,omitempty"`
	Pages []Page `json:"pages"`
}

// New builds a Document from raw page texts, splitting each into lines and
// assigning 1-indexed page numbers.
func New(title string, pageTexts []string) *Document {
	doc := &Document{Title: title, Pages: make([]Page, 0, len(pageTexts))}
	for i, text := range pageTexts {
		doc.Pages = append(doc.Pages, Page{
			Num:   i + 1,
			Lines: strings.Split(text, "\n"),
		})
	}
	return doc
}

// Validate reports ErrEmptyDocument when no page carries any non-blank text.
func (d *Document) Validate() error {
	if d == nil || len(d.Pages) == 0 {
		return ErrEmptyDocument
	}
	for _, p := range d.Pages {
		for _, line := range p.Lines {
			if strings.TrimSpace(line) != "" {
				return nil
			}
		}
	}
	return ErrEmptyDocument
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// PageText returns the full text of the given 1-indexed page, or the empty
// string when the page is out of range.
func (d *Document) PageText(num int) string {
	if num < 1 || num > len(d.Pages) {
		return ""
	}
	return strings.Join(d.Pages[num-1].Lines, "\n")
}

// PageLines returns the lines of the given 1-indexed page.
func (d *Document) PageLines(num int) []string {
	if num < 1 || num > len(d.Pages) {
		return nil
	}
	return d.Pages[num-1].Lines
}

// Text returns the full document text with pages joined by newlines.
func (d *Document) Text() string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(p.Lines, "\n"))
	}
	return b.String()
}

// RangeText returns the text between (startPage, startLine) and
// (endPage, endLine) inclusive. Lines are 0-indexed within their page.
// Out-of-range bounds are clamped.
func (d *Document) RangeText(startPage, startLine, endPage, endLine int) string {
	if len(d.Pages) == 0 {
		return ""
	}
	if startPage < 1 {
		startPage = 1
	}
	if endPage > len(d.Pages) {
		endPage = len(d.Pages)
	}
	if startPage > endPage {
		return ""
	}
	var b strings.Builder
	for p := startPage; p <= endPage; p++ {
		lines := d.Pages[p-1].Lines
		from, to := 0, len(lines)-1
		if p == startPage {
			from = startLine
		}
		if p == endPage && endLine < to {
			to = endLine
		}
		if from < 0 {
			from = 0
		}
		for i := from; i <= to && i < len(lines); i++ {
			b.WriteString(lines[i])
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

// FirstMeaningfulLine returns the first non-blank line of a page, trimmed.
func (d *Document) FirstMeaningfulLine(num int) string {
	for _, line := range d.PageLines(num) {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// TopLines returns up to n leading non-blank lines of a page, trimmed.
// Running headers live in this region.
func (d *Document) TopLines(num, n int) []string {
	var out []string
	for _, line := range d.PageLines(num) {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// WordCount counts whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
