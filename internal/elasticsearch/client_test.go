package elasticsearch

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/icu-platform/comdoc/pkg/models"
)

func skipIfNoES(t *testing.T) {
	if os.Getenv("SKIP_ES_TESTS") == "1" {
		t.Skip("Skipping ES tests (SKIP_ES_TESTS=1)")
	}

	// Try to connect to ES
	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "test-skip-check",
	})
	if err != nil {
		t.Skipf("Skipping ES tests: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping ES tests: Elasticsearch not available")
	}
}

func newTestClient(t *testing.T, index string) *Client {
	t.Helper()
	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     index,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestIndexMapping_IsValidJSON(t *testing.T) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(indexMapping), &parsed); err != nil {
		t.Fatalf("index mapping is not valid JSON: %v", err)
	}

	mappings, ok := parsed["mappings"].(map[string]interface{})
	if !ok {
		t.Fatal("mapping has no mappings object")
	}
	props, ok := mappings["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("mapping has no properties object")
	}

	for _, field := range []string{"titulo", "comision", "fecha_ingreso", "contenido_texto", "palabras_clave", "analisis_nlp", "recomendaciones"} {
		if _, ok := props[field]; !ok {
			t.Errorf("mapping missing field %q", field)
		}
	}
}

func TestSearchResponse_CorruptCandidateDoesNotAbortBatch(t *testing.T) {
	// A legacy record with a non-array keyword blob must decode to a
	// document with empty keywords, not fail the whole response.
	raw := `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_source": {"id": "ok", "titulo": "Acta", "palabras_clave": ["bec", "estudiant"]}},
				{"_source": {"id": "legacy", "titulo": "Vieja", "palabras_clave": "{corrupt}"}}
			]
		}
	}`

	var sr searchResponse
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		t.Fatalf("Unmarshal() error = %v, one corrupt hit must not abort the batch", err)
	}

	if len(sr.Hits.Hits) != 2 {
		t.Fatalf("decoded %d hits, want 2", len(sr.Hits.Hits))
	}

	ok := sr.Hits.Hits[0].Source
	if len(ok.Keywords) != 2 {
		t.Errorf("well-formed hit keywords = %v, want 2 entries", ok.Keywords)
	}

	legacy := sr.Hits.Hits[1].Source
	if legacy.ID != "legacy" {
		t.Errorf("corrupt hit ID = %q, want legacy", legacy.ID)
	}
	if len(legacy.Keywords) != 0 {
		t.Errorf("corrupt hit keywords = %v, want empty", legacy.Keywords)
	}
}

func TestClient_Connect(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test")

	ctx := context.Background()
	if !client.Ping(ctx) {
		t.Error("Ping() should return true for running ES")
	}
}

func TestClient_CreateIndex(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test-create")
	ctx := context.Background()

	// Delete index if exists (cleanup from previous test)
	client.DeleteIndex(ctx)

	err := client.CreateIndex(ctx)
	if err != nil {
		t.Fatalf("CreateIndex() error = %v", err)
	}

	// Creating again should not error (idempotent)
	err = client.CreateIndex(ctx)
	if err != nil {
		t.Fatalf("CreateIndex() second call error = %v", err)
	}

	client.DeleteIndex(ctx)
}

func testDocuments() []models.Document {
	now := time.Now().UTC()
	return []models.Document{
		{
			ID:         "doc1",
			Title:      "Solicitud de beca estudiantil",
			Commission: "asuntos estudiantiles",
			UploadedAt: now,
			Content:    "El estudiante solicita una beca para continuar sus estudios en la facultad.",
			Keywords:   []string{"estudiant", "solicit", "bec", "facultad"},
		},
		{
			ID:         "doc2",
			Title:      "Reglamento de becas",
			Commission: "normativa",
			UploadedAt: now.Add(-time.Hour),
			Content:    "Reglamento que regula el otorgamiento de becas a estudiantes.",
			Keywords:   []string{"reglament", "bec", "estudiant"},
		},
		{
			ID:         "doc3",
			Title:      "Presupuesto de infraestructura",
			Commission: "infraestructura",
			UploadedAt: now.Add(-2 * time.Hour),
			Content:    "Presupuesto para la construcción del nuevo edificio de aulas.",
			Keywords:   []string{"presupuest", "construccion", "edifici", "aul"},
		},
	}
}

func TestClient_IndexAndSearch(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test-search")
	ctx := context.Background()

	// Setup: delete and create fresh index
	client.DeleteIndex(ctx)
	if err := client.CreateIndex(ctx); err != nil {
		t.Fatalf("CreateIndex() error = %v", err)
	}

	for _, doc := range testDocuments() {
		if err := client.IndexDocument(ctx, doc); err != nil {
			t.Fatalf("IndexDocument() error = %v", err)
		}
	}

	// Wait for ES to index (refresh)
	time.Sleep(1 * time.Second)
	client.Refresh(ctx)

	results, err := client.Search(ctx, "beca", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Error("Search('beca') should return results")
	}

	found := false
	for _, r := range results {
		if r.ID == "doc1" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Search results should include doc1 (beca)")
	}

	results, err = client.Search(ctx, "edificio", 10)
	if err != nil {
		t.Fatalf("Search('edificio') error = %v", err)
	}
	found = false
	for _, r := range results {
		if r.ID == "doc3" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Search('edificio') should include doc3")
	}

	client.DeleteIndex(ctx)
}

func TestClient_GetDocument(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test-get")
	ctx := context.Background()

	client.DeleteIndex(ctx)
	client.CreateIndex(ctx)

	doc := testDocuments()[0]
	if err := client.IndexDocument(ctx, doc); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	result, err := client.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if result == nil {
		t.Fatal("GetDocument() returned nil")
	}
	if result.ID != doc.ID {
		t.Errorf("ID = %q, want %q", result.ID, doc.ID)
	}
	if result.Title != doc.Title {
		t.Errorf("Title = %q, want %q", result.Title, doc.Title)
	}

	missing, err := client.GetDocument(ctx, "no-such-document")
	if err != nil {
		t.Fatalf("GetDocument(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetDocument(missing) = %v, want nil", missing)
	}

	client.DeleteIndex(ctx)
}

func TestClient_RecentCandidates(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test-candidates")
	ctx := context.Background()

	client.DeleteIndex(ctx)
	client.CreateIndex(ctx)

	for _, doc := range testDocuments() {
		if err := client.IndexDocument(ctx, doc); err != nil {
			t.Fatalf("IndexDocument() error = %v", err)
		}
	}

	time.Sleep(1 * time.Second)
	client.Refresh(ctx)

	candidates, err := client.RecentCandidates(ctx, "doc1", 20)
	if err != nil {
		t.Fatalf("RecentCandidates() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("RecentCandidates() returned %d docs, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.ID == "doc1" {
			t.Error("RecentCandidates() should exclude doc1")
		}
	}
	// Most recent first.
	if candidates[0].ID != "doc2" {
		t.Errorf("first candidate = %q, want doc2", candidates[0].ID)
	}

	client.DeleteIndex(ctx)
}

func TestClient_UpdateRecommendations(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test-recs")
	ctx := context.Background()

	client.DeleteIndex(ctx)
	client.CreateIndex(ctx)

	doc := testDocuments()[0]
	if err := client.IndexDocument(ctx, doc); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}

	recs := []models.SimilarityCandidate{
		{ID: "doc2", Title: "Reglamento de becas", Similarity: 0.62},
	}
	if err := client.UpdateRecommendations(ctx, doc.ID, recs); err != nil {
		t.Fatalf("UpdateRecommendations() error = %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	result, err := client.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("Recommendations = %v, want 1 entry", result.Recommendations)
	}
	if result.Recommendations[0].ID != "doc2" {
		t.Errorf("Recommendation ID = %q, want doc2", result.Recommendations[0].ID)
	}

	// nil writes an empty list, not a null.
	if err := client.UpdateRecommendations(ctx, doc.ID, nil); err != nil {
		t.Fatalf("UpdateRecommendations(nil) error = %v", err)
	}

	client.DeleteIndex(ctx)
}

func TestClient_Reports(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "comdoc-test-reports")
	ctx := context.Background()

	client.DeleteIndex(ctx)
	client.CreateIndex(ctx)

	for _, doc := range testDocuments() {
		if err := client.IndexDocument(ctx, doc); err != nil {
			t.Fatalf("IndexDocument() error = %v", err)
		}
	}

	time.Sleep(1 * time.Second)
	client.Refresh(ctx)

	summary, err := client.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if summary.TotalDocuments != 3 {
		t.Errorf("TotalDocuments = %d, want 3", summary.TotalDocuments)
	}
	if summary.DocumentsWithAnalysis != 3 {
		t.Errorf("DocumentsWithAnalysis = %d, want 3", summary.DocumentsWithAnalysis)
	}

	commissions, err := client.GetCommissionCounts(ctx)
	if err != nil {
		t.Fatalf("GetCommissionCounts() error = %v", err)
	}
	if len(commissions) != 3 {
		t.Errorf("GetCommissionCounts() returned %d buckets, want 3", len(commissions))
	}

	keywords, err := client.GetTopKeywords(ctx)
	if err != nil {
		t.Fatalf("GetTopKeywords() error = %v", err)
	}
	if len(keywords) == 0 {
		t.Fatal("GetTopKeywords() returned no buckets")
	}
	// "bec" and "estudiant" appear in two documents each.
	if keywords[0].Count != 2 {
		t.Errorf("top keyword count = %d, want 2", keywords[0].Count)
	}

	months, err := client.GetMonthlyCounts(ctx)
	if err != nil {
		t.Fatalf("GetMonthlyCounts() error = %v", err)
	}
	total := 0
	for _, m := range months {
		total += m.Count
	}
	if total != 3 {
		t.Errorf("monthly counts sum = %d, want 3", total)
	}

	if _, err := client.GetNLPStats(ctx); err != nil {
		t.Fatalf("GetNLPStats() error = %v", err)
	}

	client.DeleteIndex(ctx)
}
