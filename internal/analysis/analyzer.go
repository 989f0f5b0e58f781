// Package analysis implements the heuristic NLP pipeline applied to
// every uploaded document: keyword extraction, topic detection,
// sentiment scoring and a complexity estimate.
//
// Analysis is advisory. Every stage degrades to a zero/empty value on
// failure instead of returning an error, so a bad document can never
// block its own upload.
package analysis

import (
	"context"
	"log/slog"

	"github.com/icu-platform/comdoc/internal/textproc"
	"github.com/icu-platform/comdoc/pkg/models"
)

// Analyze runs every analysis stage over the extracted text and
// assembles the result. It never fails: a panicking stage is logged
// and its field keeps the documented default, and once ctx expires the
// remaining stages are skipped the same way.
func Analyze(ctx context.Context, text string) models.AnalysisResult {
	result := models.AnalysisResult{
		CharCount:     len([]rune(text)),
		WordCount:     len(textproc.Tokenize(text)),
		SentenceCount: len(SplitSentences(text)),
	}

	stage(ctx, "keywords", func() { result.Keywords = ExtractKeywords(text) })
	stage(ctx, "sentiment", func() { result.Sentiment = Sentiment(text) })
	stage(ctx, "complexity", func() { result.Complexity = Complexity(text) })
	stage(ctx, "topics", func() { result.Topics = DetectTopics(text) })

	return result
}

// stage runs one analysis step, absorbing panics so a single broken
// heuristic cannot take the whole record down with it. An expired
// context skips the step entirely, leaving its default in place.
func stage(ctx context.Context, name string, fn func()) {
	if err := ctx.Err(); err != nil {
		slog.Warn("analysis stage skipped, budget exhausted", "stage", name, "error", err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("analysis stage failed, using default", "stage", name, "panic", r)
		}
	}()
	fn()
}
