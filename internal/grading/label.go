package grading

import (
	"encoding/json"
	"fmt"
)

// Label classifies a learner answer against an item snapshot.
type Label string

const (
	LabelCorrect  Label = "correct"
	LabelVariant  Label = "variant"
	LabelNearMiss Label = "near_miss"
	LabelWrong    Label = "wrong"
)

// Labels lists every label from most to least desirable.
var Labels = []Label{LabelCorrect, LabelVariant, LabelNearMiss, LabelWrong}

// ParseLabel converts a stored or transmitted label. Unknown values are rejected.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case LabelCorrect, LabelVariant, LabelNearMiss, LabelWrong:
		return Label(s), nil
	default:
		return "", fmt.Errorf("unknown grade label %q", s)
	}
}

// Rank orders labels by desirability. Higher is better.
func (l Label) Rank() int {
	switch l {
	case LabelCorrect:
		return 3
	case LabelVariant:
		return 2
	case LabelNearMiss:
		return 1
	case LabelWrong:
		return 0
	default:
		return -1
	}
}

// Better reports whether l ranks above other.
func (l Label) Better(other Label) bool {
	return l.Rank() > other.Rank()
}

// Accepted reports whether the answer counts as produced correctly
// (exact or an accepted variant).
func (l Label) Accepted() bool {
	return l == LabelCorrect || l == LabelVariant
}

// String returns the wire form of the label.
func (l Label) String() string { return string(l) }

// UnmarshalJSON rejects labels outside the closed set.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
