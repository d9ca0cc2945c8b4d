package spacedrep

import (
	"time"

	"github.com/abhisek/lingo/internal/grading"
)

// ConceptBox holds the box state of one concept for one learner.
type ConceptBox struct {
	ConceptKey     string    `json:"concept_key"`
	Box            int       `json:"box"`
	Streak         int       `json:"streak"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time `json:"next_review_at"`
}

// NewConceptBox returns a concept in the first box, due immediately.
func NewConceptBox(conceptKey string, now time.Time) *ConceptBox {
	return &ConceptBox{ConceptKey: conceptKey, Box: MinBox, NextReviewAt: now}
}

// Move describes a box change caused by one graded answer.
type Move struct {
	ConceptKey string        `json:"concept_key"`
	From       int           `json:"from"`
	To         int           `json:"to"`
	Label      grading.Label `json:"label"`
}

// Record applies a graded answer to the box and schedules the next review.
// Accepted answers move the concept up one box, near misses keep it in
// place and wrong answers reset it to the first box.
func (cb *ConceptBox) Record(label grading.Label, now time.Time) Move {
	from := clampBox(cb.Box)
	to := from
	switch label {
	case grading.LabelCorrect, grading.LabelVariant:
		to = min(from+1, MaxBox)
		cb.Streak++
	case grading.LabelNearMiss:
		cb.Streak = 0
	case grading.LabelWrong:
		to = MinBox
		cb.Streak = 0
	default:
		panic("spacedrep: unhandled label " + string(label))
	}
	cb.Box = to
	cb.LastReviewedAt = now
	cb.NextReviewAt = now.AddDate(0, 0, IntervalDays(to))
	return Move{ConceptKey: cb.ConceptKey, From: from, To: to, Label: label}
}

// IsDue returns true if the concept is due for review (at or past the review date).
func (cb *ConceptBox) IsDue(now time.Time) bool {
	return !now.Before(cb.NextReviewAt)
}

// Stable reports whether the concept has reached StableBox.
func (cb *ConceptBox) Stable() bool { return cb.Box >= StableBox }

// Low reports whether the concept sits at or below LowBox.
func (cb *ConceptBox) Low() bool { return cb.Box <= LowBox }
