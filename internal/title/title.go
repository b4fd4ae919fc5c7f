// Package title reconstructs spaced, readable titles from the concatenated
// word runs that text extraction produces when inter-word spacing is lost
// ("OnceUponaTime" -> "Once Upon a Time"). Normalize is a pure string
// function: same input, same output.
package title

import (
	"regexp"
	"strings"
	"unicode"
)

// compoundConnectors are lowercase connector pairs that fuse together in
// extraction artifacts and must be split as a unit before the single
// connector pass sees them.
var compoundConnectors = [][2]string{
	{"of", "the"}, {"in", "the"}, {"on", "the"},
	{"to", "the"}, {"for", "the"}, {"and", "the"},
	{"of", "my"}, {"in", "my"}, {"to", "my"},
}

// connectors are short lowercase words split off even without a preceding
// case transition. Longer connectors come first so "upon" is considered
// before the "a" inside it.
var connectors = []string{"upon", "into", "with", "the", "and", "for", "of", "in", "to", "a"}

// connectorExceptions lists, per connector, words that legitimately end in
// it and must not be split mid-word ("Within" stays "Within", never
// "With in"; "Into" is a word, not "In to"). Matched as suffixes of the
// fused run preceding a candidate split point.
var connectorExceptions = map[string][]string{
	"in": {
		"within", "wherein", "therein", "herein", "begin", "margin",
		"cabin", "basin", "satin", "latin", "pumpkin", "rain", "main",
		"plain", "train", "brain", "chain", "mountain", "captain",
		"villain", "again", "certain", "curtain", "britain", "spain",
	},
	"to":  {"into", "onto", "unto", "auto", "photo"},
	"of":  {"thereof", "whereof", "hereof", "proof", "roof", "hoof", "aloof"},
	"the": {"breathe", "bathe", "soothe", "clothe", "loathe", "lathe", "blithe", "scythe"},
	"and": {
		"island", "land", "hand", "stand", "understand", "grand",
		"thousand", "sand", "england", "ireland", "scotland", "husband",
		"band", "brand", "demand", "command", "strand",
	},
	"a": {"america", "africa", "asia", "india", "santa", "anna", "extra", "sea", "idea", "area"},
}

var (
	capsRun        = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	caseTransition = regexp.MustCompile(`([a-z])([A-Z])`)
	multiSpace     = regexp.MustCompile(`\s+`)
)

// Normalize splits concatenated-word artifacts into a spaced title.
// Internal case transitions (lowercase to uppercase) are the primary split
// points; the fixed connector-word set handles runs like "UponaTime" where
// no transition precedes the connector.
func Normalize(s string) string {
	if s == "" {
		return s
	}

	// Consecutive capitals followed by a word: "THEEnd" -> "THE End".
	s = capsRun.ReplaceAllString(s, "$1 $2")

	// Compound connectors before single ones, so "JourneyoftheKing" does
	// not degrade into "Journeyof theKing".
	for _, pair := range compoundConnectors {
		s = splitCompound(s, pair[0], pair[1])
	}

	for _, c := range connectors {
		s = splitConnector(s, c)
	}

	s = caseTransition.ReplaceAllString(s, "$1 $2")
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// splitCompound splits a fused connector pair ("ofthe") sitting between a
// lowercase letter and an uppercase letter into two spaced words. The first
// connector's exception words apply, so "WithintheWalls" keeps "Within".
func splitCompound(s, c1, c2 string) string {
	fused := c1 + c2
	lower := strings.ToLower(s)
	var b strings.Builder
	offset := 0
	for {
		i := strings.Index(lower[offset:], fused)
		if i < 0 {
			break
		}
		i += offset
		end := i + len(fused)
		if i == 0 || end >= len(s) {
			offset = i + 1
			continue
		}
		if !unicode.IsLower(rune(s[i-1])) || !unicode.IsUpper(rune(s[end])) {
			offset = i + 1
			continue
		}
		start := i - 1
		for start > 0 && unicode.IsLetter(rune(s[start-1])) {
			start--
		}
		if isExceptionSuffix(lower[start:i+len(c1)], c1) {
			offset = i + 1
			continue
		}
		b.Reset()
		b.WriteString(s[:i])
		b.WriteByte(' ')
		b.WriteString(s[i : i+len(c1)])
		b.WriteByte(' ')
		b.WriteString(s[i+len(c1) : end])
		b.WriteByte(' ')
		b.WriteString(s[end:])
		s = b.String()
		lower = strings.ToLower(s)
		offset = end + 3
	}
	return s
}

// splitConnector inserts spaces around occurrences of connector c that sit
// between a lowercase letter and an uppercase letter, skipping fused words
// that legitimately end in c.
func splitConnector(s, c string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	offset := 0
	for {
		i := strings.Index(lower[offset:], c)
		if i < 0 {
			break
		}
		i += offset
		end := i + len(c)
		if i == 0 || end >= len(s) {
			offset = i + 1
			continue
		}
		prev := rune(s[i-1])
		next := rune(s[end])
		if !unicode.IsLower(prev) || !unicode.IsUpper(next) {
			offset = i + 1
			continue
		}
		// Fused run up to and including the connector; if it ends in an
		// exception word, this is a real word, not a split point.
		start := i - 1
		for start > 0 && unicode.IsLetter(rune(s[start-1])) {
			start--
		}
		if isExceptionSuffix(lower[start:end], c) {
			offset = i + 1
			continue
		}
		b.Reset()
		b.WriteString(s[:i])
		b.WriteByte(' ')
		b.WriteString(s[i:end])
		b.WriteByte(' ')
		b.WriteString(s[end:])
		s = b.String()
		lower = strings.ToLower(s)
		offset = end + 2
	}
	return s
}

func isExceptionSuffix(fused, connector string) bool {
	for _, e := range connectorExceptions[connector] {
		if strings.HasSuffix(fused, e) {
			return true
		}
	}
	return false
}
