package session

import (
	"time"

	"github.com/abhisek/lingo/internal/grading"
)

// ConceptResult counts outcomes for one concept within a session.
type ConceptResult struct {
	ConceptKey string `json:"concept_key"`
	Attempts   int    `json:"attempts"`
	Accepted   int    `json:"accepted"`
}

// Summary holds the totals shown when a session ends.
type Summary struct {
	Duration time.Duration         `json:"duration"`
	Total    int                   `json:"total"`
	Accepted int                   `json:"accepted"`
	Accuracy float64               `json:"accuracy"`
	Labels   map[grading.Label]int `json:"labels"`
	Concepts []ConceptResult       `json:"concepts,omitempty"`
}

// BuildSummary tallies graded items. Concepts are listed in the order
// they first appear.
func BuildSummary(results []grading.ItemResult, elapsed time.Duration) *Summary {
	s := &Summary{
		Duration: elapsed,
		Total:    len(results),
		Labels:   make(map[grading.Label]int, len(grading.Labels)),
	}
	for _, l := range grading.Labels {
		s.Labels[l] = 0
	}

	index := make(map[string]int)
	for _, r := range results {
		s.Labels[r.Label]++
		if r.Label.Accepted() {
			s.Accepted++
		}
		if r.ConceptKey == "" {
			continue
		}
		i, ok := index[r.ConceptKey]
		if !ok {
			i = len(s.Concepts)
			index[r.ConceptKey] = i
			s.Concepts = append(s.Concepts, ConceptResult{ConceptKey: r.ConceptKey})
		}
		s.Concepts[i].Attempts++
		if r.Label.Accepted() {
			s.Concepts[i].Accepted++
		}
	}

	if s.Total > 0 {
		s.Accuracy = float64(s.Accepted) / float64(s.Total)
	}
	return s
}
