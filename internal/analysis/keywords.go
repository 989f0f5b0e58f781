package analysis

import (
	"sort"

	"github.com/icu-platform/comdoc/internal/textproc"
)

// MaxKeywords bounds the keyword list attached to each document.
const MaxKeywords = 10

// ExtractKeywords returns the most frequent stems of text, most
// frequent first. Tokens are filtered (stopwords, short and numeric
// tokens) before stemming, then counted per stem. Ties keep the order
// in which a stem first appeared in the text, so the result is
// deterministic for a given input.
func ExtractKeywords(text string) []string {
	tokens := textproc.Filter(textproc.Tokenize(text))
	if len(tokens) == 0 {
		return nil
	}

	type freq struct {
		stem  string
		count int
	}

	byStem := make(map[string]*freq, len(tokens))
	order := make([]*freq, 0, len(tokens))
	for _, token := range tokens {
		stem := textproc.Stem(token)
		f, ok := byStem[stem]
		if !ok {
			f = &freq{stem: stem}
			byStem[stem] = f
			order = append(order, f)
		}
		f.count++
	}

	// order is first-seen order; the stable sort preserves it for ties.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}

	keywords := make([]string, len(order))
	for i, f := range order {
		keywords[i] = f.stem
	}
	return keywords
}
