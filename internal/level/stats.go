package level

// MinLevel and MaxLevel bound learner proficiency levels.
const (
	MinLevel = 1
	MaxLevel = 9
)

// Stats aggregates a learner's recent and lifetime performance.
type Stats struct {
	RecentSessionID        string `json:"recent_session_id,omitempty"`
	RecentSessionStartedAt string `json:"recent_session_started_at,omitempty"`
	RecentSessionEndedAt   string `json:"recent_session_ended_at,omitempty"`

	RecentAttempts        Metric `json:"recent_attempts"`
	RecentCorrectAttempts Metric `json:"recent_correct_attempts"`
	RecentCorrectRate     Metric `json:"recent_correct_rate"`
	TotalAttempts         Metric `json:"total_attempts"`
	StableConceptCount    Metric `json:"stable_concept_count"`
	StableConceptRatio    Metric `json:"stable_concept_ratio"`
	LowBoxConceptCount    Metric `json:"low_box_concept_count"`
}

// Clamp limits a level to [MinLevel, MaxLevel].
func Clamp(l int) int {
	return max(MinLevel, min(MaxLevel, l))
}
