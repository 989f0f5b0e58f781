package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Summary aggregates corpus-wide totals for the dashboard.
type Summary struct {
	TotalDocuments        int     `json:"total_documentos"`
	DocumentsThisMonth    int     `json:"documentos_este_mes"`
	DocumentsWithAnalysis int     `json:"documentos_con_nlp"`
	AverageWordCount      float64 `json:"promedio_palabras"`
	TotalKeywordInstances int     `json:"total_palabras_clave"`
}

// MonthCount is one bucket of the per-month upload histogram.
type MonthCount struct {
	Month string `json:"mes"`
	Count int    `json:"cantidad"`
}

// CommissionCount is the document count of one commission.
type CommissionCount struct {
	Commission string `json:"comision"`
	Count      int    `json:"cantidad"`
}

// KeywordFrequency is the corpus-wide frequency of one keyword stem.
type KeywordFrequency struct {
	Keyword string `json:"palabra"`
	Count   int    `json:"frecuencia"`
}

// TopicFrequency is the number of documents tagged with one topic.
type TopicFrequency struct {
	Topic string `json:"tema"`
	Count int    `json:"frecuencia"`
}

// NLPStats aggregates analysis output across the corpus.
type NLPStats struct {
	AverageSentiment  float64          `json:"sentimiento_promedio"`
	AverageComplexity float64          `json:"complejidad_promedio"`
	AverageWordCount  float64          `json:"longitud_promedio"`
	TopTopics         []TopicFrequency `json:"temas_frecuentes"`
}

// GetSummary computes the corpus totals for the summary report.
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	query := map[string]interface{}{
		"size":             0,
		"track_total_hits": true,
		"aggs": map[string]interface{}{
			"this_month": map[string]interface{}{
				"filter": map[string]interface{}{
					"range": map[string]interface{}{
						"fecha_ingreso": map[string]interface{}{"gte": "now/M"},
					},
				},
			},
			"with_nlp": map[string]interface{}{
				"filter": map[string]interface{}{
					"exists": map[string]interface{}{"field": "palabras_clave"},
				},
			},
			"avg_words": map[string]interface{}{
				"avg": map[string]interface{}{"field": "analisis_nlp.longitud_palabras"},
			},
			"keyword_instances": map[string]interface{}{
				"value_count": map[string]interface{}{"field": "palabras_clave"},
			},
		},
	}

	var resp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations struct {
			ThisMonth struct {
				DocCount int `json:"doc_count"`
			} `json:"this_month"`
			WithNLP struct {
				DocCount int `json:"doc_count"`
			} `json:"with_nlp"`
			AvgWords struct {
				Value *float64 `json:"value"`
			} `json:"avg_words"`
			KeywordInstances struct {
				Value float64 `json:"value"`
			} `json:"keyword_instances"`
		} `json:"aggregations"`
	}

	if err := c.runAggregation(ctx, query, &resp); err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalDocuments:        resp.Hits.Total.Value,
		DocumentsThisMonth:    resp.Aggregations.ThisMonth.DocCount,
		DocumentsWithAnalysis: resp.Aggregations.WithNLP.DocCount,
		TotalKeywordInstances: int(resp.Aggregations.KeywordInstances.Value),
	}
	if resp.Aggregations.AvgWords.Value != nil {
		summary.AverageWordCount = *resp.Aggregations.AvgWords.Value
	}
	return summary, nil
}

// GetMonthlyCounts returns per-month document counts, oldest first.
func (c *Client) GetMonthlyCounts(ctx context.Context) ([]MonthCount, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"per_month": map[string]interface{}{
				"date_histogram": map[string]interface{}{
					"field":             "fecha_ingreso",
					"calendar_interval": "month",
					"format":            "yyyy-MM",
					"min_doc_count":     1,
				},
			},
		},
	}

	var resp struct {
		Aggregations struct {
			PerMonth struct {
				Buckets []struct {
					KeyAsString string `json:"key_as_string"`
					DocCount    int    `json:"doc_count"`
				} `json:"buckets"`
			} `json:"per_month"`
		} `json:"aggregations"`
	}

	if err := c.runAggregation(ctx, query, &resp); err != nil {
		return nil, err
	}

	months := make([]MonthCount, len(resp.Aggregations.PerMonth.Buckets))
	for i, b := range resp.Aggregations.PerMonth.Buckets {
		months[i] = MonthCount{Month: b.KeyAsString, Count: b.DocCount}
	}
	return months, nil
}

// GetCommissionCounts returns document counts per commission, most
// documents first. Documents without a commission bucket under
// "sin comisión".
func (c *Client) GetCommissionCounts(ctx context.Context) ([]CommissionCount, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"per_commission": map[string]interface{}{
				"terms": map[string]interface{}{
					"field":   "comision",
					"missing": "sin comisión",
					"size":    50,
				},
			},
		},
	}

	var resp struct {
		Aggregations struct {
			PerCommission termsAggregation `json:"per_commission"`
		} `json:"aggregations"`
	}

	if err := c.runAggregation(ctx, query, &resp); err != nil {
		return nil, err
	}

	counts := make([]CommissionCount, len(resp.Aggregations.PerCommission.Buckets))
	for i, b := range resp.Aggregations.PerCommission.Buckets {
		counts[i] = CommissionCount{Commission: b.Key, Count: b.DocCount}
	}
	return counts, nil
}

// GetTopKeywords returns the 20 most frequent keyword stems.
func (c *Client) GetTopKeywords(ctx context.Context) ([]KeywordFrequency, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"top_keywords": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "palabras_clave",
					"size":  20,
				},
			},
		},
	}

	var resp struct {
		Aggregations struct {
			TopKeywords termsAggregation `json:"top_keywords"`
		} `json:"aggregations"`
	}

	if err := c.runAggregation(ctx, query, &resp); err != nil {
		return nil, err
	}

	keywords := make([]KeywordFrequency, len(resp.Aggregations.TopKeywords.Buckets))
	for i, b := range resp.Aggregations.TopKeywords.Buckets {
		keywords[i] = KeywordFrequency{Keyword: b.Key, Count: b.DocCount}
	}
	return keywords, nil
}

// GetNLPStats aggregates sentiment, complexity and word counts over
// analyzed documents, plus the ten most frequent topics.
func (c *Client) GetNLPStats(ctx context.Context) (*NLPStats, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"avg_sentiment": map[string]interface{}{
				"avg": map[string]interface{}{"field": "analisis_nlp.sentiment"},
			},
			"avg_complexity": map[string]interface{}{
				"avg": map[string]interface{}{"field": "analisis_nlp.complejidad.score"},
			},
			"avg_words": map[string]interface{}{
				"avg": map[string]interface{}{"field": "analisis_nlp.longitud_palabras"},
			},
			"top_topics": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "analisis_nlp.temas_detectados.tema",
					"size":  10,
				},
			},
		},
	}

	var resp struct {
		Aggregations struct {
			AvgSentiment  avgAggregation   `json:"avg_sentiment"`
			AvgComplexity avgAggregation   `json:"avg_complexity"`
			AvgWords      avgAggregation   `json:"avg_words"`
			TopTopics     termsAggregation `json:"top_topics"`
		} `json:"aggregations"`
	}

	if err := c.runAggregation(ctx, query, &resp); err != nil {
		return nil, err
	}

	stats := &NLPStats{
		AverageSentiment:  resp.Aggregations.AvgSentiment.valueOrZero(),
		AverageComplexity: resp.Aggregations.AvgComplexity.valueOrZero(),
		AverageWordCount:  resp.Aggregations.AvgWords.valueOrZero(),
	}
	for _, b := range resp.Aggregations.TopTopics.Buckets {
		stats.TopTopics = append(stats.TopTopics, TopicFrequency{Topic: b.Key, Count: b.DocCount})
	}
	return stats, nil
}

type termsAggregation struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int    `json:"doc_count"`
	} `json:"buckets"`
}

// avgAggregation parses an avg agg, whose value is null on an empty
// corpus.
type avgAggregation struct {
	Value *float64 `json:"value"`
}

func (a avgAggregation) valueOrZero() float64 {
	if a.Value == nil {
		return 0
	}
	return *a.Value
}

func (c *Client) runAggregation(ctx context.Context, query map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("aggregation error: %s", res.String())
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
