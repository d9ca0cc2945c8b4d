package session

import (
	"encoding/json"
	"fmt"
)

// Type is the kind of practice session a learner asks for.
type Type string

const (
	TypeStandard   Type = "standard"
	TypeReviewOnly Type = "review_only"
	TypeNewOnly    Type = "new_only"
	TypeWeakness   Type = "weakness"
)

// Types lists every session type.
var Types = []Type{TypeStandard, TypeReviewOnly, TypeNewOnly, TypeWeakness}

// ParseType converts a session type name. Storage names ("mix",
// "weak_focus") are accepted too. Unknown values are rejected.
func ParseType(s string) (Type, error) {
	switch s {
	case string(TypeStandard), "mix":
		return TypeStandard, nil
	case string(TypeReviewOnly):
		return TypeReviewOnly, nil
	case string(TypeNewOnly):
		return TypeNewOnly, nil
	case string(TypeWeakness), "weak_focus":
		return TypeWeakness, nil
	default:
		return "", fmt.Errorf("unknown session type %q", s)
	}
}

// FromClient reads a session type sent by a client. Missing or unknown
// values fall back to new_only.
func FromClient(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		return TypeNewOnly
	}
	return t
}

// StorageName is the name a session of this type is stored under.
func (t Type) StorageName() string {
	switch t {
	case TypeStandard:
		return "mix"
	case TypeWeakness:
		return "weak_focus"
	case TypeReviewOnly:
		return "review_only"
	case TypeNewOnly:
		return "new_only"
	default:
		panic("session: unhandled type " + string(t))
	}
}

// Description is a short human label for the type.
func (t Type) Description() string {
	switch t {
	case TypeStandard:
		return "new and review items mixed"
	case TypeReviewOnly:
		return "review items only"
	case TypeNewOnly:
		return "new items around your level"
	case TypeWeakness:
		return "items from weak concepts"
	default:
		panic("session: unhandled type " + string(t))
	}
}

func (t Type) String() string { return string(t) }

// UnmarshalJSON rejects types outside the closed set.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// GateSentenceCount is the number of sentences a learner must have built
// before any session type other than new_only is offered.
const GateSentenceCount = 300

// DefaultLimit is the number of items in a session when none is requested.
const DefaultLimit = 10

// LevelRange is an inclusive span of content levels.
type LevelRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Plan is the effective session configuration after gating.
type Plan struct {
	Type      Type       `json:"effective_type"`
	Requested Type       `json:"requested_type"`
	Limit     int        `json:"limit"`
	Gated     bool       `json:"gated"`
	Levels    LevelRange `json:"level_range"`
}
