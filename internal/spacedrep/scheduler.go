package spacedrep

import (
	"sort"
	"time"
)

// Tally summarizes a learner's concept boxes.
type Tally struct {
	Concepts    int
	Stable      int
	Low         int
	StableRatio float64
}

// Summarize counts stable and low-box concepts. The ratio is 0 when the
// learner has no concepts yet.
func Summarize(boxes []*ConceptBox) Tally {
	var t Tally
	for _, cb := range boxes {
		t.Concepts++
		if cb.Stable() {
			t.Stable++
		}
		if cb.Low() {
			t.Low++
		}
	}
	if t.Concepts > 0 {
		t.StableRatio = float64(t.Stable) / float64(t.Concepts)
	}
	return t
}

// DueConcepts returns concepts due for review, most overdue first.
func DueConcepts(boxes []*ConceptBox, now time.Time) []string {
	var due []*ConceptBox
	for _, cb := range boxes {
		if cb.IsDue(now) {
			due = append(due, cb)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})
	return keys(due)
}

// WeakConcepts returns low-box concepts, lowest box first.
func WeakConcepts(boxes []*ConceptBox) []string {
	var weak []*ConceptBox
	for _, cb := range boxes {
		if cb.Low() {
			weak = append(weak, cb)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		if weak[i].Box != weak[j].Box {
			return weak[i].Box < weak[j].Box
		}
		return weak[i].ConceptKey < weak[j].ConceptKey
	})
	return keys(weak)
}

func keys(boxes []*ConceptBox) []string {
	out := make([]string, 0, len(boxes))
	for _, cb := range boxes {
		out = append(out, cb.ConceptKey)
	}
	return out
}
