package spacedrep

import (
	"reflect"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	boxes := []*ConceptBox{
		{ConceptKey: "a", Box: 1},
		{ConceptKey: "b", Box: 2},
		{ConceptKey: "c", Box: 3},
		{ConceptKey: "d", Box: 4},
		{ConceptKey: "e", Box: 5},
	}
	got := Summarize(boxes)
	want := Tally{Concepts: 5, Stable: 2, Low: 2, StableRatio: 0.4}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if empty := Summarize(nil); empty != (Tally{}) {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}

func TestDueConcepts(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	boxes := []*ConceptBox{
		{ConceptKey: "recent", NextReviewAt: now.Add(-time.Hour)},
		{ConceptKey: "future", NextReviewAt: now.Add(time.Hour)},
		{ConceptKey: "oldest", NextReviewAt: now.AddDate(0, 0, -5)},
	}
	got := DueConcepts(boxes, now)
	if !reflect.DeepEqual(got, []string{"oldest", "recent"}) {
		t.Errorf("DueConcepts() = %v", got)
	}
}

func TestWeakConcepts(t *testing.T) {
	boxes := []*ConceptBox{
		{ConceptKey: "z", Box: 2},
		{ConceptKey: "stable", Box: 4},
		{ConceptKey: "b", Box: 1},
		{ConceptKey: "a", Box: 2},
	}
	got := WeakConcepts(boxes)
	if !reflect.DeepEqual(got, []string{"b", "a", "z"}) {
		t.Errorf("WeakConcepts() = %v", got)
	}
}

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		box  int
		want int
	}{
		{1, 1}, {2, 2}, {3, 4}, {4, 7}, {5, 14}, {0, 1}, {9, 14},
	}
	for _, tt := range tests {
		if got := IntervalDays(tt.box); got != tt.want {
			t.Errorf("IntervalDays(%d) = %d, want %d", tt.box, got, tt.want)
		}
	}
}
