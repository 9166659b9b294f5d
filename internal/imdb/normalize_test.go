package imdb

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "O Padrinho", "o padrinho"},
		{"original audio marker", "O Padrinho (v.o.)", "o padrinho"},
		{"dubbed audio marker", "O Padrinho (v.p.)", "o padrinho"},
		{"diacritics", "Amélie", "amelie"},
		{"punctuation", "Mad Max: Fury Road", "mad max fury road"},
		{"parenthetical punctuation", "The Godfather (Part II)", "the godfather part ii"},
		{"repeated whitespace", "The   Godfather", "the godfather"},
		{"leading and trailing", "  Heat  ", "heat"},
		{"empty", "", ""},
		{"only punctuation", "...!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTitle(tc.input)
			if got != tc.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// Normalization must be idempotent: applying it twice is the same as once.
func TestNormalizeTitleIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("normalize(normalize(x)) == normalize(x)", prop.ForAll(
		func(title string) bool {
			once := NormalizeTitle(title)
			twice := NormalizeTitle(once)
			return once == twice
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestLookupKey(t *testing.T) {
	firstChar, slug, ok := LookupKey("O Padrinho")
	if !ok {
		t.Fatal("expected a usable lookup key")
	}
	if firstChar != "o" {
		t.Errorf("firstChar = %q, want %q", firstChar, "o")
	}
	if slug != "o_padrinho" {
		t.Errorf("slug = %q, want %q", slug, "o_padrinho")
	}

	if _, _, ok := LookupKey("!!!"); ok {
		t.Error("expected no lookup key for punctuation-only title")
	}
}

func TestLookupKeyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("slug is bounded and addressed by its first character", prop.ForAll(
		func(title string) bool {
			firstChar, slug, ok := LookupKey(title)
			if !ok {
				return firstChar == "" && slug == ""
			}
			if utf8.RuneCountInString(slug) > 20 {
				return false
			}
			if !strings.HasPrefix(slug, firstChar) {
				return false
			}
			// The slug never contains spaces; the index uses underscores.
			return !strings.Contains(slug, " ")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
