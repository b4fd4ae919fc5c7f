// Package testutil builds synthetic manuscripts for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/audiobooksmith/manuscript/internal/document"
)

// fillerSentences cycle to pad section bodies to a target word count.
var fillerSentences = []string{
	"The road wound down through the valley and the travelers followed it without complaint.",
	"She remembered the house as it had been, full of voices and the smell of bread.",
	"Nothing moved on the water except the slow reflection of the clouds overhead.",
	"He counted the days twice and arrived at the same troubling number both times.",
	"The letter sat unopened on the table for the better part of a week.",
	"By morning the storm had passed and the village set about its quiet repairs.",
	"A bell rang somewhere beyond the orchard and no one troubled to answer it.",
	"Rain kept falling against the shutters while the kettle worked itself to a boil.",
	"Someone had left a lamp burning in the far window of the mill.",
	"The ledger showed three entries in a hand nobody at the bank recognized.",
	"Crows gathered along the fence posts as if waiting for an announcement.",
	"Frost silvered the meadow grass long after the sun had cleared the ridge.",
}

// openerSentences give each seeded section a distinct first sentence so
// generated sections do not read as near-duplicates of one another.
var openerSentences = []string{
	"It began, as most trouble does, with a knock after dark.",
	"The ferry was late again and the crowd on the quay grew restless.",
	"Nobody in Harlow spoke of the orchard fire anymore.",
	"Marthe found the key exactly where her brother said it would be.",
	"The survey crew packed up two days early without explanation.",
	"On the third morning the fog finally lifted off the headland.",
	"A telegram arrived addressed to a man who had been dead a decade.",
	"The auction drew buyers from three counties and satisfied none of them.",
	"Old Pavel swore the river had moved since his boyhood.",
	"Her first sight of the capital was a wall of yellow brick.",
	"The lighthouse keeper logged the strange light at a quarter past two.",
	"Snow closed the pass a full month before anyone expected it.",
}

// Prose returns filler narrative text of roughly n words.
func Prose(n int) string {
	return SeededProse(0, n)
}

// SeededProse returns filler narrative text of roughly n words. Different
// seeds produce textually distinct sections, so content deduplication sees
// generated chapters as unique.
func SeededProse(seed, n int) string {
	var sb strings.Builder
	opener := openerSentences[seed%len(openerSentences)]
	sb.WriteString(opener)
	sb.WriteByte(' ')
	words := len(strings.Fields(opener))
	for i := seed; words < n; i++ {
		s := fillerSentences[i%len(fillerSentences)]
		sb.WriteString(s)
		sb.WriteByte(' ')
		words += len(strings.Fields(s))
	}
	return strings.TrimSpace(sb.String())
}

// ClosureProse returns filler text of roughly n words that reads like a
// wrap-up, seeded with retrospective phrasing.
func ClosureProse(n int) string {
	intro := "Years later she would think of that summer often. Looking back, the choices seemed inevitable. Since then the town had changed, but life went on as it always had. "
	introWords := len(strings.Fields(intro))
	if n <= introWords {
		return strings.TrimSpace(intro)
	}
	return intro + SeededProse(11, n-introWords)
}

// BookSpec describes a synthetic book to generate.
type BookSpec struct {
	Title string
	// Chapters is how many numbered chapters to emit.
	Chapters int
	// WordsPerChapter is the body size of each chapter.
	WordsPerChapter int
	// Prologue and Epilogue add labeled sections at the edges.
	Prologue bool
	Epilogue bool
	// UnlabeledEpilogue emits the final section without a heading, as
	// closure prose only.
	UnlabeledEpilogue bool
	// RunningHeader, when set, is stamped as the first line of every page.
	RunningHeader string
	// PagesPerChapter spreads each chapter body over several pages.
	PagesPerChapter int
}

// Book generates a synthetic document and its matching ToC entries. The
// ToC targets are the true start pages; tests that need drift can offset
// the returned entries.
func Book(t *testing.T, spec BookSpec) (*document.Document, []document.TocEntry) {
	t.Helper()
	if spec.Chapters <= 0 {
		spec.Chapters = 3
	}
	if spec.WordsPerChapter <= 0 {
		spec.WordsPerChapter = 600
	}
	if spec.PagesPerChapter <= 0 {
		spec.PagesPerChapter = 2
	}
	if spec.Title == "" {
		spec.Title = "Test Book"
	}

	var pages []string
	var toc []document.TocEntry

	addSection := func(heading string, body string) {
		startPage := len(pages) + 1
		perPage := splitWords(body, spec.PagesPerChapter)
		for i, chunk := range perPage {
			var sb strings.Builder
			if spec.RunningHeader != "" {
				sb.WriteString(spec.RunningHeader)
				sb.WriteByte('\n')
			}
			if i == 0 && heading != "" {
				sb.WriteString(heading)
				sb.WriteByte('\n')
			}
			sb.WriteString(chunk)
			pages = append(pages, sb.String())
		}
		if heading != "" {
			toc = append(toc, document.TocEntry{Title: heading, TargetPage: startPage})
		}
	}

	if spec.Prologue {
		addSection("Prologue", SeededProse(0, spec.WordsPerChapter))
	}
	for i := 1; i <= spec.Chapters; i++ {
		addSection(fmt.Sprintf("Chapter %d", i), SeededProse(i, spec.WordsPerChapter))
	}
	if spec.Epilogue {
		addSection("Epilogue", ClosureProse(spec.WordsPerChapter))
	} else if spec.UnlabeledEpilogue {
		addSection("", ClosureProse(spec.WordsPerChapter))
	}

	doc := document.New(spec.Title, pages)
	if err := doc.Validate(); err != nil {
		t.Fatalf("building test book: %v", err)
	}
	return doc, toc
}

// splitWords cuts text into n roughly equal word chunks.
func splitWords(text string, n int) []string {
	words := strings.Fields(text)
	if n <= 1 || len(words) <= n {
		return []string{text}
	}
	per := (len(words) + n - 1) / n
	var out []string
	for start := 0; start < len(words); start += per {
		end := start + per
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
	}
	return out
}
