package grading

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingSnapshot is returned when a submission references an item
	// that has no snapshot in the session.
	ErrMissingSnapshot = errors.New("item not in session")

	// ErrEmptyBatch is returned when a batch has no submissions.
	ErrEmptyBatch = errors.New("no answers submitted")
)

// MissingSnapshotError names the item whose snapshot was not supplied.
type MissingSnapshotError struct {
	ItemID string
}

func (e *MissingSnapshotError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSnapshot, e.ItemID)
}

func (e *MissingSnapshotError) Unwrap() error { return ErrMissingSnapshot }

// Snapshot is the frozen answer key of one session item.
type Snapshot struct {
	Canonical  string   `json:"answer_en"`
	Variants   []string `json:"allowed_variants,omitempty"`
	NearMisses []string `json:"near_misses,omitempty"`
	ConceptKey string   `json:"concept_key,omitempty"`
	Level      int      `json:"level,omitempty"`
}

// UnmarshalJSON accepts variant and near-miss lists either as arrays or as
// delimited text (the *_text columns of stored items).
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Canonical      string `json:"answer_en"`
		Variants       any    `json:"allowed_variants"`
		VariantsText   string `json:"allowed_variants_text"`
		NearMisses     any    `json:"near_misses"`
		NearMissesText string `json:"near_misses_text"`
		ConceptKey     string `json:"concept_key"`
		Level          int    `json:"level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot{
		Canonical:  raw.Canonical,
		Variants:   ParseAnswerList(raw.Variants, raw.VariantsText),
		NearMisses: ParseAnswerList(raw.NearMisses, raw.NearMissesText),
		ConceptKey: raw.ConceptKey,
		Level:      raw.Level,
	}
	return nil
}

// Submission is one learner answer in a batch.
type Submission struct {
	ItemID     string `json:"item_id"`
	UserAnswer string `json:"user_answer"`
	LatencyMs  int    `json:"latency_ms,omitempty"`
}

// ItemResult is the grade of one submission.
type ItemResult struct {
	ItemID     string `json:"item_id"`
	UserAnswer string `json:"user_answer"`
	LatencyMs  int    `json:"latency_ms,omitempty"`
	ConceptKey string `json:"concept_key,omitempty"`
	Result
}

// GradeBatch grades every submission against its item snapshot. If any
// submission references an item absent from snapshots, no results are
// returned and the error names that item. Results follow input order.
func GradeBatch(items []Submission, snapshots map[string]Snapshot) ([]ItemResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, it := range items {
		if _, ok := snapshots[it.ItemID]; !ok {
			return nil, &MissingSnapshotError{ItemID: it.ItemID}
		}
	}

	rules := DefaultRules()
	results := make([]ItemResult, 0, len(items))
	for _, it := range items {
		snap := snapshots[it.ItemID]
		results = append(results, ItemResult{
			ItemID:     it.ItemID,
			UserAnswer: it.UserAnswer,
			LatencyMs:  it.LatencyMs,
			ConceptKey: snap.ConceptKey,
			Result:     GradeWith(rules, it.UserAnswer, snap.Canonical, snap.Variants, snap.NearMisses),
		})
	}
	return results, nil
}
