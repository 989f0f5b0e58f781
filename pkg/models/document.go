package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document represents a committee document stored in the corpus.
//
// JSON field names follow the legacy ICU schema so stored records stay
// readable by the existing dashboard and report tooling.
type Document struct {
	ID              string                `json:"id"`
	Title           string                `json:"titulo"`
	Sender          string                `json:"remitente,omitempty"`
	Commission      string                `json:"comision,omitempty"`
	FileKey         string                `json:"archivo_path,omitempty"` // object key of the stored PDF
	UploadedBy      string                `json:"usuario_creador,omitempty"`
	UploadedAt      time.Time             `json:"fecha_ingreso"`
	Content         string                `json:"contenido_texto,omitempty"` // extracted text
	Keywords        []string              `json:"palabras_clave,omitempty"`
	Analysis        *AnalysisResult       `json:"analisis_nlp,omitempty"`
	Recommendations []SimilarityCandidate `json:"recomendaciones,omitempty"`
}

// AnalysisResult holds the per-document NLP analysis. It is computed
// once at upload time and never recomputed.
type AnalysisResult struct {
	Keywords      []string   `json:"palabras_clave"`
	CharCount     int        `json:"longitud_caracteres"`
	WordCount     int        `json:"longitud_palabras"`
	SentenceCount int        `json:"longitud_oraciones"`
	Sentiment     float64    `json:"sentiment"`
	Complexity    Complexity `json:"complejidad"`
	Topics        []Topic    `json:"temas_detectados"`
}

// Complexity is a crude readability proxy. Score is clamped to [0,10];
// all fields are zero when the text has no words or no sentences.
type Complexity struct {
	Score            float64 `json:"score"`
	WordsPerSentence float64 `json:"palabras_por_oracion"`
	CharsPerWord     float64 `json:"caracteres_por_palabra"`
}

// Topic is one detected subject area with the markers that matched.
type Topic struct {
	Name         string   `json:"tema"`
	Relevance    int      `json:"relevancia"`
	MatchedWords []string `json:"palabras_encontradas"`
}

// SimilarityCandidate is one related document found in the corpus.
type SimilarityCandidate struct {
	ID         string  `json:"id"`
	Title      string  `json:"titulo"`
	Similarity float64 `json:"similarity"`
}

// UnmarshalJSON decodes a stored document leniently. Legacy records
// can hold loosely-typed blobs in the keyword, analysis and
// recommendation fields; a corrupt field decays to its empty value so
// one bad record can never abort a batch read.
func (d *Document) UnmarshalJSON(data []byte) error {
	type document Document
	aux := struct {
		Keywords        json.RawMessage `json:"palabras_clave,omitempty"`
		Analysis        json.RawMessage `json:"analisis_nlp,omitempty"`
		Recommendations json.RawMessage `json:"recomendaciones,omitempty"`
		*document
	}{document: (*document)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	d.Keywords = DecodeKeywords(aux.Keywords)

	if len(aux.Analysis) > 0 && string(aux.Analysis) != "null" {
		var analysis AnalysisResult
		if err := json.Unmarshal(aux.Analysis, &analysis); err == nil {
			d.Analysis = &analysis
		}
	}
	if len(aux.Recommendations) > 0 {
		var recs []SimilarityCandidate
		if err := json.Unmarshal(aux.Recommendations, &recs); err == nil {
			d.Recommendations = recs
		}
	}
	return nil
}

// NewDocumentID creates a unique identifier for an uploaded document.
func NewDocumentID() string {
	return uuid.NewString()
}

// DecodeKeywords parses a stored keyword blob. Old records hold
// loosely-typed JSON, so anything that is not a valid string array
// decodes to an empty list instead of an error.
func DecodeKeywords(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err != nil {
		return nil
	}
	return keywords
}
