package level

import "fmt"

// Threshold identifies one promotion requirement.
type Threshold string

const (
	ThresholdAttempts  Threshold = "attempts"
	ThresholdRate      Threshold = "correct_rate"
	ThresholdStability Threshold = "stability"
)

// Thresholds lists promotion requirements in the order they are checked.
var Thresholds = []Threshold{ThresholdAttempts, ThresholdRate, ThresholdStability}

// Reasons reported by Evaluate that are not tied to a threshold.
const (
	ReasonEligible = "all thresholds met"
	ReasonMaxLevel = "already at the highest level"
)

// Policy holds the requirements for promotion to Level.
type Policy struct {
	Level            int    `json:"level"`
	MinTotalAttempts Metric `json:"min_total_attempts"`
	MinCorrectRate   Metric `json:"min_correct_rate"`
	MinBoxLevelRatio Metric `json:"min_box_level_ratio"`
}

// Normalized returns the policy with rate thresholds converted to fractions.
func (p Policy) Normalized() Policy {
	p.MinCorrectRate = NormalizeRate(p.MinCorrectRate)
	p.MinBoxLevelRatio = NormalizeRate(p.MinBoxLevelRatio)
	return p
}

// Decision is the outcome of a promotion evaluation.
type Decision struct {
	Eligible     bool   `json:"eligible"`
	Reason       string `json:"reason"`
	CurrentLevel int    `json:"current_level"`
	TargetLevel  int    `json:"target_level"`
	// FailedThreshold is the first unmet requirement, empty when eligible.
	FailedThreshold Threshold `json:"failed_threshold,omitempty"`
	Stats           *Stats    `json:"stats,omitempty"`
}

// ShouldPromote reports whether stats meet every requirement of policy.
func ShouldPromote(stats Stats, policy Policy) bool {
	failed, _ := firstUnmet(stats, policy.Normalized())
	return failed == ""
}

// Evaluate decides whether a learner at currentLevel is promoted under
// policy. On failure the reason names the first unmet requirement.
func Evaluate(currentLevel int, stats Stats, policy Policy) Decision {
	d := Decision{
		CurrentLevel: currentLevel,
		TargetLevel:  targetLevel(currentLevel, policy),
		Stats:        &stats,
	}
	if currentLevel >= MaxLevel {
		d.TargetLevel = currentLevel
		d.Reason = ReasonMaxLevel
		return d
	}

	failed, reason := firstUnmet(stats, policy.Normalized())
	if failed != "" {
		d.FailedThreshold = failed
		d.Reason = reason
		return d
	}
	d.Eligible = true
	d.Reason = ReasonEligible
	return d
}

func targetLevel(current int, p Policy) int {
	if p.Level > current {
		return min(p.Level, MaxLevel)
	}
	return min(current+1, MaxLevel)
}

func firstUnmet(stats Stats, p Policy) (Threshold, string) {
	for _, th := range Thresholds {
		var observed, required Metric
		var label string
		switch th {
		case ThresholdAttempts:
			observed, required, label = stats.TotalAttempts, p.MinTotalAttempts, "total attempts"
		case ThresholdRate:
			observed, required, label = stats.RecentCorrectRate, p.MinCorrectRate, "recent correct rate"
		case ThresholdStability:
			observed, required, label = stats.StableConceptRatio, p.MinBoxLevelRatio, "stable concept ratio"
		default:
			panic("level: unhandled threshold " + string(th))
		}
		if observed.AtLeast(required) {
			continue
		}
		if !observed.Valid() {
			return th, fmt.Sprintf("%s is missing (required %s)", label, required)
		}
		return th, fmt.Sprintf("%s %s is below required %s", label, observed, required)
	}
	return "", ""
}
