package similarity

import (
	"context"
	"testing"

	"github.com/icu-platform/comdoc/pkg/models"
)

func TestScore_KeywordJaccard(t *testing.T) {
	// |{b,c}| / |{a,b,c,d}| = 0.5, weighted 0.7; identical texts add
	// the full 0.3 text term.
	got := Score([]string{"a", "b", "c"}, []string{"b", "c", "d"}, "mismo texto", "mismo texto")
	want := 0.7*0.5 + 0.3*1.0

	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScore_Symmetric(t *testing.T) {
	kw1 := []string{"beca", "estudiante"}
	kw2 := []string{"beca", "reglamento", "consejo"}
	t1 := "solicitud de beca estudiantil"
	t2 := "reglamento de becas del consejo"

	ab := Score(kw1, kw2, t1, t2)
	ba := Score(kw2, kw1, t2, t1)
	if ab != ba {
		t.Errorf("Score not symmetric: %v vs %v", ab, ba)
	}
}

func TestScore_Range(t *testing.T) {
	cases := []struct {
		kw1, kw2 []string
		t1, t2   string
	}{
		{[]string{"a"}, []string{"a"}, "igual", "igual"},
		{[]string{"a"}, []string{"b"}, "uno", "otro"},
		{nil, nil, "", ""},
		{[]string{"a", "b"}, nil, "algo de texto", ""},
	}
	for _, c := range cases {
		got := Score(c.kw1, c.kw2, c.t1, c.t2)
		if got < 0 || got > 1 {
			t.Errorf("Score(%v,%v) = %v, out of [0,1]", c.kw1, c.kw2, got)
		}
	}
}

func TestScore_EmptySidesYieldZero(t *testing.T) {
	if got := Score(nil, nil, "", ""); got != 0 {
		t.Errorf("Score(empty) = %v, want 0", got)
	}
	// Malformed keyword data decodes to nil upstream; only the text
	// term can contribute then.
	got := Score(nil, []string{"beca"}, "texto compartido", "texto compartido")
	want := 0.3
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score(nil keywords) = %v, want %v", got, want)
	}
}

func TestScore_IdenticalDocuments(t *testing.T) {
	kw := []string{"beca", "facultad"}
	text := "la facultad otorga una beca"
	if got := Score(kw, kw, text, text); got != 1 {
		t.Errorf("Score(identical) = %v, want 1", got)
	}
}

func TestRank_ThresholdAndOrder(t *testing.T) {
	keywords := []string{"beca", "estudiante", "facultad"}
	text := "beca estudiante facultad"

	candidates := []models.Document{
		{ID: "near", Title: "Casi idéntico", Keywords: keywords, Content: text},
		{ID: "half", Title: "Parcial", Keywords: []string{"beca", "estudiante", "reglamento"}, Content: "beca estudiante reglamento"},
		{ID: "far", Title: "Sin relación", Keywords: []string{"edificio"}, Content: "mantenimiento de edificio"},
	}

	got := Rank(context.Background(), keywords, text, candidates)

	if len(got) != 2 {
		t.Fatalf("Rank() = %v, want the two related candidates", got)
	}
	if got[0].ID != "near" || got[1].ID != "half" {
		t.Errorf("Rank() order = [%s %s], want [near half]", got[0].ID, got[1].ID)
	}
	for _, rec := range got {
		if rec.Similarity <= Threshold {
			t.Errorf("candidate %s has similarity %v <= threshold", rec.ID, rec.Similarity)
		}
	}
}

func TestRank_Truncates(t *testing.T) {
	keywords := []string{"beca"}
	text := "beca"

	var candidates []models.Document
	for i := 0; i < 8; i++ {
		candidates = append(candidates, models.Document{
			ID:       string(rune('a' + i)),
			Keywords: []string{"beca"},
			Content:  "beca",
		})
	}

	got := Rank(context.Background(), keywords, text, candidates)
	if len(got) != MaxRecommendations {
		t.Errorf("Rank() returned %d, want %d", len(got), MaxRecommendations)
	}
}

func TestRank_MalformedKeywordsNeverPanic(t *testing.T) {
	candidates := []models.Document{
		{ID: "nil-keywords", Keywords: nil, Content: "texto texto texto"},
		{ID: "empty", Keywords: []string{}, Content: ""},
	}

	got := Rank(context.Background(), nil, "texto texto texto", candidates)
	// "nil-keywords" shares its whole token set: 0.3 text term only,
	// at the threshold but not above it.
	if len(got) != 0 {
		t.Errorf("Rank() = %v, want empty at threshold", got)
	}
}

func TestRank_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := Rank(ctx, []string{"beca"}, "beca", []models.Document{
		{ID: "a", Keywords: []string{"beca"}, Content: "beca"},
	})
	if got != nil {
		t.Errorf("Rank() with cancelled context = %v, want nil", got)
	}
}

func TestRank_NoCandidates(t *testing.T) {
	if got := Rank(context.Background(), []string{"beca"}, "beca", nil); len(got) != 0 {
		t.Errorf("Rank(no candidates) = %v, want empty", got)
	}
}
