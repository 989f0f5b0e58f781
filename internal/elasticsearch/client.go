// Package elasticsearch implements the corpus store: committee
// documents with their analysis results live in a single index, which
// also serves search, similarity candidate retrieval and the report
// aggregations.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/icu-platform/comdoc/pkg/models"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Client wraps the Elasticsearch client with corpus operations.
type Client struct {
	es    *elasticsearch.Client
	index string
}

// New creates a new Elasticsearch client.
func New(config Config) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{
		es:    es,
		index: config.Index,
	}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// indexMapping defines the index mapping for committee documents.
// Field names match the legacy ICU schema (see pkg/models).
var indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"titulo": { "type": "text", "analyzer": "spanish" },
			"remitente": { "type": "keyword" },
			"comision": { "type": "keyword" },
			"archivo_path": { "type": "keyword" },
			"usuario_creador": { "type": "keyword" },
			"fecha_ingreso": { "type": "date" },
			"contenido_texto": { "type": "text", "analyzer": "spanish" },
			"palabras_clave": { "type": "keyword" },
			"analisis_nlp": {
				"properties": {
					"palabras_clave": { "type": "keyword" },
					"longitud_caracteres": { "type": "integer" },
					"longitud_palabras": { "type": "integer" },
					"longitud_oraciones": { "type": "integer" },
					"sentiment": { "type": "float" },
					"complejidad": {
						"properties": {
							"score": { "type": "float" },
							"palabras_por_oracion": { "type": "float" },
							"caracteres_por_palabra": { "type": "float" }
						}
					},
					"temas_detectados": {
						"properties": {
							"tema": { "type": "keyword" },
							"relevancia": { "type": "integer" },
							"palabras_encontradas": { "type": "keyword" }
						}
					}
				}
			},
			"recomendaciones": {
				"properties": {
					"id": { "type": "keyword" },
					"titulo": { "type": "text" },
					"similarity": { "type": "float" }
				}
			}
		}
	}
}`

// CreateIndex creates the index with proper mapping. Idempotent.
func (c *Client) CreateIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (c *Client) DeleteIndex(ctx context.Context) error {
	res, err := c.es.Indices.Delete([]string{c.index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// IndexDocument indexes a single document.
func (c *Client) IndexDocument(ctx context.Context, doc models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document (status %d): %s", res.StatusCode, res.String())
	}

	return nil
}

// DeleteDocument removes a document, used when an upload is rolled back.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	res, err := c.es.Delete(
		c.index,
		id,
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()
	return nil
}

// UpdateRecommendations attaches the similarity recommendations to an
// already indexed document. This is the only mutation a document sees
// after its initial write.
func (c *Client) UpdateRecommendations(ctx context.Context, id string, recs []models.SimilarityCandidate) error {
	if recs == nil {
		recs = []models.SimilarityCandidate{}
	}

	body, err := json.Marshal(map[string]interface{}{
		"doc": map[string]interface{}{
			"recomendaciones": recs,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	res, err := c.es.Update(
		c.index,
		id,
		bytes.NewReader(body),
		c.es.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to update recommendations: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error updating recommendations (status %d): %s", res.StatusCode, res.String())
	}

	return nil
}

// Refresh forces an index refresh (useful for testing).
func (c *Client) Refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// searchResponse represents the ES search response structure.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search performs a text search over title, content and keywords.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.Document, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"titulo^2", "contenido_texto", "palabras_clave^2"},
			},
		},
		"size": limit,
	}

	return c.runSearch(ctx, searchQuery)
}

// RecentCandidates returns up to limit of the most recently uploaded
// documents that have extracted text, excluding excludeID. This is
// the bounded candidate set for the similarity scan.
func (c *Client) RecentCandidates(ctx context.Context, excludeID string, limit int) ([]models.Document, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{"exists": map[string]interface{}{"field": "contenido_texto"}},
				},
				"must_not": []map[string]interface{}{
					{"ids": map[string]interface{}{"values": []string{excludeID}}},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"fecha_ingreso": map[string]interface{}{"order": "desc"}},
		},
		"size": limit,
	}

	return c.runSearch(ctx, searchQuery)
}

// Recent returns the most recently uploaded documents without their
// extracted text, for listings.
func (c *Client) Recent(ctx context.Context, limit int) ([]models.Document, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []map[string]interface{}{
			{"fecha_ingreso": map[string]interface{}{"order": "desc"}},
		},
		"_source": map[string]interface{}{
			"excludes": []string{"contenido_texto"},
		},
		"size": limit,
	}

	return c.runSearch(ctx, searchQuery)
}

func (c *Client) runSearch(ctx context.Context, query map[string]interface{}) ([]models.Document, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	docs := make([]models.Document, len(sr.Hits.Hits))
	for i, hit := range sr.Hits.Hits {
		docs[i] = hit.Source
	}

	return docs, nil
}

// getResponse represents the ES get response structure.
type getResponse struct {
	Found  bool            `json:"found"`
	Source models.Document `json:"_source"`
}

// GetDocument retrieves a document by ID. Returns nil when not found.
func (c *Client) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	res, err := c.es.Get(
		c.index,
		id,
		c.es.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}

	if res.IsError() {
		return nil, fmt.Errorf("get error: %s", res.String())
	}

	var gr getResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !gr.Found {
		return nil, nil
	}

	return &gr.Source, nil
}
