package imdb

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Grid titles carry Portuguese audio-track markers that never appear in the
// suggestion index.
var noiseMarkers = []string{" (v.o.)", " (v.p.)", "(v.o.)", "(v.p.)"}

const maxSlugLength = 20

// diacriticStripper decomposes to NFD and drops combining marks, matching
// the index's ASCII-folded addressing.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeTitle turns a raw grid title into the canonical comparison key:
// noise markers stripped, lowercased, diacritics and punctuation removed,
// whitespace collapsed. Normalization is idempotent.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	for _, marker := range noiseMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}

	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation and symbols are dropped entirely.
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// LookupKey derives the suggestion index address for a title: the first
// character of the slug plus the slug itself, with spaces replaced by
// underscores and truncated to the index's bounded prefix length.
// ok is false when nothing usable remains after normalization.
func LookupKey(title string) (firstChar string, slug string, ok bool) {
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return "", "", false
	}

	slugRunes := []rune(strings.ReplaceAll(normalized, " ", "_"))
	if len(slugRunes) > maxSlugLength {
		slugRunes = slugRunes[:maxSlugLength]
	}

	return string(slugRunes[:1]), string(slugRunes), true
}
