// Package textproc implements the text normalization stages shared by
// keyword extraction, sentiment scoring and similarity comparison:
// tokenization, the Spanish stopword filter and stemming.
package textproc

import (
	"strconv"
	"strings"
	"unicode"

	snowballes "github.com/kljensen/snowball/spanish"
)

// Tokenize splits text into lowercase word tokens. Any rune that is
// not a letter or a digit acts as a delimiter, so punctuation is
// discarded while accented Spanish letters (ñ, á-ú, ü) survive.
// Consecutive delimiters collapse; empty input yields no tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		set[token] = struct{}{}
	}
	return set
}

// Stem reduces a token to its root form with the snowball Spanish
// stemmer. Keyword extraction and the sentiment lexicon both resolve
// words through this one function; a stem mismatch between them would
// silently degrade results, so there is no second stemming path.
func Stem(token string) string {
	return snowballes.Stem(token, false)
}

// Keep reports whether a token survives filtering for keyword
// extraction: tokens of length <= 3 runes, purely numeric tokens and
// members of the stopword set are dropped. Applied before stemming.
func Keep(token string) bool {
	if len([]rune(token)) <= 3 {
		return false
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil {
		return false
	}
	_, stop := stopwords[token]
	return !stop
}

// Filter applies Keep to a token stream.
func Filter(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if Keep(token) {
			kept = append(kept, token)
		}
	}
	return kept
}
