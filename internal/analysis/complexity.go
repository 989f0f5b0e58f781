package analysis

import (
	"math"
	"strings"

	"github.com/icu-platform/comdoc/pkg/models"
)

// SplitSentences breaks text on sentence punctuation (. ! ?) and
// drops segments that are empty after trimming.
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// Complexity computes the readability proxy used across the corpus:
// score = (words-per-sentence * chars-per-word) / 100, clamped to 10.
// Chars counts every rune of the text, whitespace included, exactly as
// the historic formula did. Zero words or zero sentences yields the
// zero value so there is never a division by zero.
func Complexity(text string) models.Complexity {
	words := strings.Fields(text)
	sentences := SplitSentences(text)

	if len(words) == 0 || len(sentences) == 0 {
		return models.Complexity{}
	}

	wps := float64(len(words)) / float64(len(sentences))
	cpw := float64(len([]rune(text))) / float64(len(words))

	return models.Complexity{
		Score:            math.Min(wps*cpw/100, 10),
		WordsPerSentence: wps,
		CharsPerWord:     cpw,
	}
}
