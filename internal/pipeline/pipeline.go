// Package pipeline orchestrates the upload flow: PDF text extraction,
// heuristic analysis, object storage, corpus indexing and the
// similarity scan that attaches related-document recommendations.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/icu-platform/comdoc/internal/analysis"
	"github.com/icu-platform/comdoc/internal/elasticsearch"
	"github.com/icu-platform/comdoc/internal/extractor"
	"github.com/icu-platform/comdoc/internal/similarity"
	"github.com/icu-platform/comdoc/internal/storage"
	"github.com/icu-platform/comdoc/pkg/models"
)

// CandidateLimit bounds the similarity scan to the most recent corpus
// documents.
const CandidateLimit = 20

// DefaultAnalysisBudget is the wall-clock budget for the advisory
// stages (analysis + similarity scan). Exceeding it degrades the
// result, it never fails the upload.
const DefaultAnalysisBudget = 30 * time.Second

// Corpus is the document index the pipeline writes to and scans.
type Corpus interface {
	CreateIndex(ctx context.Context) error
	IndexDocument(ctx context.Context, doc models.Document) error
	DeleteDocument(ctx context.Context, id string) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	UpdateRecommendations(ctx context.Context, id string, recs []models.SimilarityCandidate) error
	RecentCandidates(ctx context.Context, excludeID string, limit int) ([]models.Document, error)
	Refresh(ctx context.Context) error
}

// ObjectStore keeps the original PDF bytes.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	PutPDF(ctx context.Context, documentID string, data []byte) error
	RemovePDF(ctx context.Context, documentID string) error
}

// TextExtractor turns a PDF file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Config holds pipeline configuration.
type Config struct {
	ES             elasticsearch.Config
	Storage        storage.Config
	AnalysisBudget time.Duration
}

// UploadRequest describes one incoming document.
type UploadRequest struct {
	Path       string // local path of the PDF
	Title      string // optional; derived from the text when empty
	Sender     string
	Commission string
	UploadedBy string
}

// Result holds the outcome of an upload.
type Result struct {
	Document models.Document
	Duration time.Duration
	Warnings []string // degraded advisory stages, upload still succeeded
}

// Pipeline wires the extraction, analysis and persistence steps.
type Pipeline struct {
	corpus    Corpus
	store     ObjectStore
	extractor TextExtractor
	budget    time.Duration
}

// New creates a Pipeline backed by real Elasticsearch, MinIO and
// pdftotext clients.
func New(config Config) (*Pipeline, error) {
	esClient, err := elasticsearch.New(config.ES)
	if err != nil {
		return nil, err
	}

	s3Client, err := storage.New(config.Storage)
	if err != nil {
		return nil, err
	}

	budget := config.AnalysisBudget
	if budget <= 0 {
		budget = DefaultAnalysisBudget
	}

	return &Pipeline{
		corpus:    esClient,
		store:     s3Client,
		extractor: extractor.New(),
		budget:    budget,
	}, nil
}

// NewWithDeps creates a Pipeline with injected collaborators.
func NewWithDeps(corpus Corpus, store ObjectStore, ext TextExtractor, budget time.Duration) *Pipeline {
	if budget <= 0 {
		budget = DefaultAnalysisBudget
	}
	return &Pipeline{corpus: corpus, store: store, extractor: ext, budget: budget}
}

// Upload runs the full flow for one PDF. Extraction failure is fatal
// and rolls back anything already stored; analysis and similarity
// failures degrade to empty defaults and are reported as warnings.
func (p *Pipeline) Upload(ctx context.Context, req UploadRequest) (*Result, error) {
	start := time.Now()

	if err := p.corpus.CreateIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare index: %w", err)
	}
	if err := p.store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket: %w", err)
	}

	text, err := p.extractor.Extract(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	docID := models.NewDocumentID()

	title := req.Title
	if title == "" {
		title = extractor.ExtractTitle(text, req.Path)
	}

	doc := models.Document{
		ID:         docID,
		Title:      title,
		Sender:     req.Sender,
		Commission: req.Commission,
		FileKey:    storage.ObjectKey(docID),
		UploadedBy: req.UploadedBy,
		UploadedAt: time.Now().UTC(),
		Content:    text,
	}

	result := &Result{}

	// Advisory stages share one wall-clock budget.
	analysisCtx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	res := analysis.Analyze(analysisCtx, text)
	doc.Analysis = &res
	doc.Keywords = res.Keywords

	pdfData, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	if err := p.store.PutPDF(ctx, docID, pdfData); err != nil {
		return nil, fmt.Errorf("failed to store pdf: %w", err)
	}

	if err := p.corpus.IndexDocument(ctx, doc); err != nil {
		// Roll back the stored object so a failed upload leaves no trace.
		if rbErr := p.store.RemovePDF(ctx, docID); rbErr != nil {
			slog.Error("rollback failed, orphaned pdf object", "id", docID, "error", rbErr)
		}
		return nil, fmt.Errorf("failed to index document: %w", err)
	}

	recs, warn := p.recommend(analysisCtx, docID, doc.Keywords, text)
	if warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}
	doc.Recommendations = recs

	if err := p.corpus.UpdateRecommendations(ctx, docID, recs); err != nil {
		slog.Warn("failed to persist recommendations", "id", docID, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("recommendations not persisted: %v", err))
	}

	p.corpus.Refresh(ctx)

	result.Document = doc
	result.Duration = time.Since(start)
	return result, nil
}

// AnalyzeAndRecommend runs the analysis stages over already extracted
// text and scans the corpus for related documents. It never returns an
// error: every stage degrades to its zero/empty default.
func (p *Pipeline) AnalyzeAndRecommend(ctx context.Context, documentID, text string) (models.AnalysisResult, []models.SimilarityCandidate) {
	ctx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	res := analysis.Analyze(ctx, text)
	recs, warn := p.recommend(ctx, documentID, res.Keywords, text)
	if warn != "" {
		slog.Warn("similarity scan degraded", "id", documentID, "reason", warn)
	}
	return res, recs
}

// RecomputeSimilar refreshes the stored recommendations of an existing
// document. Returns the new recommendations.
func (p *Pipeline) RecomputeSimilar(ctx context.Context, documentID string) ([]models.SimilarityCandidate, error) {
	doc, err := p.corpus.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s not found", documentID)
	}

	scanCtx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	recs, warn := p.recommend(scanCtx, documentID, doc.Keywords, doc.Content)
	if warn != "" {
		slog.Warn("similarity scan degraded", "id", documentID, "reason", warn)
	}

	if err := p.corpus.UpdateRecommendations(ctx, documentID, recs); err != nil {
		return nil, fmt.Errorf("failed to persist recommendations: %w", err)
	}
	return recs, nil
}

// Remove deletes a document from the corpus along with its stored
// PDF. The index record goes first so a half-failed removal leaves a
// document without recommendations rather than a recommendation
// pointing at a missing file.
func (p *Pipeline) Remove(ctx context.Context, documentID string) error {
	doc, err := p.corpus.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", documentID)
	}

	if err := p.corpus.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := p.store.RemovePDF(ctx, documentID); err != nil {
		slog.Warn("document removed but pdf object remains", "id", documentID, "error", err)
	}

	p.corpus.Refresh(ctx)
	return nil
}

// recommend fetches the bounded candidate set and ranks it. A failed
// or timed-out scan yields an empty list and a warning, never an
// error.
func (p *Pipeline) recommend(ctx context.Context, documentID string, keywords []string, text string) ([]models.SimilarityCandidate, string) {
	candidates, err := p.corpus.RecentCandidates(ctx, documentID, CandidateLimit)
	if err != nil {
		return nil, fmt.Sprintf("candidate fetch failed: %v", err)
	}

	recs := similarity.Rank(ctx, keywords, text, candidates)
	if recs == nil && ctx.Err() != nil {
		return nil, fmt.Sprintf("similarity scan aborted: %v", ctx.Err())
	}
	return recs, ""
}
