package analysis

import (
	"sort"
	"strings"

	"github.com/icu-platform/comdoc/pkg/models"
)

// MaxTopics bounds the topic list attached to each document.
const MaxTopics = 3

// topicDef maps a topic name to its marker words. Markers are matched
// as raw substrings of the lowercased text, so a marker inside a
// longer word counts too ("norma" matches inside "normativa"). That
// over-counting is inherited behavior the stored corpus depends on.
//
// A slice, not a map: detection order must be deterministic so equal
// relevance scores always tie-break the same way.
type topicDef struct {
	name    string
	markers []string
}

var universityTopics = []topicDef{
	{"academico", []string{"académico", "academico", "currículo", "curriculo", "materia", "asignatura", "calificación", "evaluación"}},
	{"administrativo", []string{"administrativo", "administración", "gestión", "proceso", "tramite", "solicitud"}},
	{"investigación", []string{"investigación", "investigacion", "proyecto", "estudio", "análisis", "metodología"}},
	{"estudiantil", []string{"estudiante", "estudiantil", "alumno", "beca", "matricula", "inscripción"}},
	{"infraestructura", []string{"infraestructura", "edificio", "construcción", "mantenimiento", "equipamiento"}},
	{"normativo", []string{"reglamento", "norma", "resolución", "decreto", "estatuto", "disposición"}},
}

// DetectTopics scores each known topic by the total number of marker
// occurrences in the text. Only topics with at least one occurrence
// are returned, sorted by relevance descending, truncated to MaxTopics.
func DetectTopics(text string) []models.Topic {
	lower := strings.ToLower(text)

	var detected []models.Topic
	for _, def := range universityTopics {
		relevance := 0
		var matched []string
		for _, marker := range def.markers {
			if n := strings.Count(lower, marker); n > 0 {
				relevance += n
				matched = append(matched, marker)
			}
		}
		if relevance > 0 {
			detected = append(detected, models.Topic{
				Name:         def.name,
				Relevance:    relevance,
				MatchedWords: matched,
			})
		}
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Relevance > detected[j].Relevance
	})

	if len(detected) > MaxTopics {
		detected = detected[:MaxTopics]
	}
	return detected
}
