package analysis

import (
	"github.com/icu-platform/comdoc/internal/textproc"
)

// polarities assigns a signed score to Spanish words that carry
// sentiment in committee correspondence. Words in the same family
// (aprobar/aprobación) deliberately share a score: they collapse to
// one stem at load time and the last write would win otherwise.
var polarities = map[string]float64{
	// positive
	"aprobar":        2,
	"aprobación":     2,
	"acuerdo":        1,
	"apoyo":          2,
	"avance":         1,
	"beneficio":      2,
	"cumplimiento":   1,
	"eficiente":      2,
	"excelente":      3,
	"éxito":          3,
	"favorable":      2,
	"felicitación":   3,
	"fortaleza":      2,
	"logro":          2,
	"mejora":         2,
	"oportunidad":    2,
	"óptimo":         2,
	"positivo":       2,
	"satisfactorio":  2,
	"adecuado":       1,
	// negative
	"rechazar":       -2,
	"rechazo":        -2,
	"problema":       -2,
	"conflicto":      -2,
	"crisis":         -3,
	"daño":           -2,
	"deficiente":     -2,
	"demora":         -1,
	"denuncia":       -2,
	"deuda":          -1,
	"error":          -2,
	"falla":          -2,
	"fracaso":        -3,
	"grave":          -2,
	"inadecuado":     -1,
	"incumplimiento": -2,
	"insuficiente":   -2,
	"irregularidad":  -2,
	"negativo":       -2,
	"pérdida":        -2,
	"preocupación":   -1,
	"queja":          -2,
	"retraso":        -1,
	"riesgo":         -1,
	"sanción":        -2,
}

// lexicon keys the polarity table by stem, built once at startup with
// the same stemmer used on input tokens. Looking both sides up through
// textproc.Stem is what makes inflected forms ("aprobaron", "quejas")
// land on their lexicon entry.
var lexicon = func() map[string]float64 {
	m := make(map[string]float64, len(polarities))
	for word, score := range polarities {
		m[textproc.Stem(word)] = score
	}
	return m
}()

// Sentiment scores the overall polarity of text: the sum of matched
// token polarities divided by the total token count. No stopword
// filtering is applied. Zero tokens score zero. Downstream reporting
// reads >0.1 as positive and <-0.1 as negative.
func Sentiment(text string) float64 {
	tokens := textproc.Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for _, token := range tokens {
		sum += lexicon[textproc.Stem(token)]
	}
	return sum / float64(len(tokens))
}
