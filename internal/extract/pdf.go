package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/audiobooksmith/manuscript/internal/document"
)

// fromPDF extracts page text from a born-digital PDF. Scanned PDFs with no
// text layer yield empty pages and fail document validation upstream.
func fromPDF(path, title string) (*document.Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", path, err)
	}

	pages := make([]string, 0, ctx.PageCount)
	for p := 1; p <= ctx.PageCount; p++ {
		r, err := pdfcpu.ExtractPageContent(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d of %s: %w", p, path, err)
		}
		text := ""
		if r != nil {
			content, err := io.ReadAll(r)
			if err != nil {
				return nil, fmt.Errorf("reading page %d content: %w", p, err)
			}
			text = scanContentStream(content)
		}
		pages = append(pages, text)
	}

	doc := document.New(title, pages)
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("parsing PDF document: %w", err)
	}
	return doc, nil
}

// scanContentStream pulls the literal strings shown by Tj and TJ operators
// out of a decoded content stream. It is a line-oriented approximation:
// each text-positioning operator starts a new output line.
func scanContentStream(content []byte) string {
	var out strings.Builder
	var line strings.Builder
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}

	i := 0
	for i < len(content) {
		switch content[i] {
		case '(':
			s, next := readLiteralString(content, i)
			line.WriteString(s)
			i = next
		case 'T':
			if i+1 < len(content) {
				switch content[i+1] {
				case 'd', 'D', '*':
					flush()
				}
			}
			i++
		case '\'', '"':
			// Quote operators move to the next line before showing text.
			flush()
			i++
		default:
			i++
		}
	}
	flush()
	return out.String()
}

// readLiteralString decodes one parenthesized PDF string starting at the
// open paren. Returns the decoded text and the index after the close paren.
func readLiteralString(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 < len(content) {
				switch content[i+1] {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				case 'r', 'b', 'f':
					// Ignore rarely-meaningful escapes in extracted text.
				default:
					sb.WriteByte(content[i+1])
				}
				i += 2
				continue
			}
			i++
		case '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}
