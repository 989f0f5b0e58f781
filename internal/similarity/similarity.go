// Package similarity ranks corpus documents by their resemblance to a
// newly uploaded one, blending keyword-set overlap with raw token-set
// overlap.
package similarity

import (
	"context"
	"sort"

	"github.com/icu-platform/comdoc/internal/textproc"
	"github.com/icu-platform/comdoc/pkg/models"
)

const (
	// Threshold is the minimum blended score for a candidate to count
	// as related.
	Threshold = 0.3

	// MaxRecommendations bounds the related-document list per document.
	MaxRecommendations = 5

	// Keyword overlap dominates the blend; raw text overlap refines it.
	keywordWeight = 0.7
	textWeight    = 0.3
)

// Score computes the blended similarity of two documents from their
// keyword lists and raw texts. Nil or empty keyword lists contribute a
// zero keyword term rather than an error; the result is symmetric and
// always within [0,1].
func Score(keywords1, keywords2 []string, text1, text2 string) float64 {
	ks := jaccardLists(keywords1, keywords2)
	ts := jaccardSets(textproc.TokenSet(text1), textproc.TokenSet(text2))
	return keywordWeight*ks + textWeight*ts
}

// Rank scores every candidate against the new document and returns
// those above Threshold, sorted descending, at most
// MaxRecommendations. The new document's token set is computed once.
// If ctx expires mid-scan the advisory result is abandoned and nil is
// returned, matching the degrade-on-failure contract of analysis.
func Rank(ctx context.Context, keywords []string, text string, candidates []models.Document) []models.SimilarityCandidate {
	base := textproc.TokenSet(text)

	var related []models.SimilarityCandidate
	for _, cand := range candidates {
		if ctx.Err() != nil {
			return nil
		}

		ks := jaccardLists(keywords, cand.Keywords)
		ts := jaccardSets(base, textproc.TokenSet(cand.Content))
		score := keywordWeight*ks + textWeight*ts

		if score > Threshold {
			related = append(related, models.SimilarityCandidate{
				ID:         cand.ID,
				Title:      cand.Title,
				Similarity: score,
			})
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Similarity > related[j].Similarity
	})

	if len(related) > MaxRecommendations {
		related = related[:MaxRecommendations]
	}
	return related
}

// jaccardLists computes |intersection| / |union| over two string
// lists, deduplicating first. Both lists empty yields 0.
func jaccardLists(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}
	return jaccardSets(setA, setB)
}

// jaccardSets computes |intersection| / |union| of two sets, 0 when
// both are empty.
func jaccardSets(a, b map[string]struct{}) float64 {
	intersection := 0
	for s := range a {
		if _, ok := b[s]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
