package level

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Condition describes when the next session should be made easier.
// Both signals must be present for an adjustment.
type Condition struct {
	RecentCorrectRateBelow float64 `json:"recent_correct_rate_below"`
	LowBoxConceptsOver     int     `json:"low_box_concepts_over"`
}

// Mix maps a content level to its share of the next session.
type Mix map[int]float64

// String renders the mix in ascending level order, e.g. "L1:0.5 L2:0.5".
func (m Mix) String() string {
	levels := make([]int, 0, len(m))
	for l := range m {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		parts = append(parts, fmt.Sprintf("L%d:%s", l, strconv.FormatFloat(m[l], 'f', -1, 64)))
	}
	return strings.Join(parts, " ")
}

// RelativeMix maps an offset from the learner's level to a weight.
// {-1: 0.7, 0: 0.3} puts most items one level below the learner.
type RelativeMix map[int]float64

// Resolve anchors the mix at level. Offsets that fall outside the level
// range are clamped and their weights merged.
func (r RelativeMix) Resolve(level int) Mix {
	if len(r) == 0 {
		return nil
	}
	out := make(Mix, len(r))
	for offset, w := range r {
		if w <= 0 {
			continue
		}
		out[Clamp(level+offset)] += w
	}
	return out
}

// Adjustment records whether an easier mix was applied to a session.
type Adjustment struct {
	Applied            bool   `json:"applied"`
	Reason             string `json:"reason"`
	PolicyLevel        Metric `json:"policy_level"`
	RecentCorrectRate  Metric `json:"recent_correct_rate"`
	LowBoxConceptCount Metric `json:"low_box_concept_count"`
	AppliedMix         Mix    `json:"applied_mix,omitempty"`
}

// ShouldAdjust reports whether the recent correct rate is under the
// condition's ceiling and the learner holds at least the given number of
// low-box concepts. Missing statistics never trigger an adjustment.
func ShouldAdjust(stats Stats, cond Condition) bool {
	ceiling := NormalizeRate(Some(cond.RecentCorrectRateBelow))
	return stats.RecentCorrectRate.Below(ceiling) &&
		stats.LowBoxConceptCount.AtLeast(SomeInt(cond.LowBoxConceptsOver))
}

// Adjust decides whether mix should replace the regular level mix of the
// next session for a learner at policyLevel.
func Adjust(policyLevel int, stats Stats, cond Condition, mix Mix) Adjustment {
	ceiling := NormalizeRate(Some(cond.RecentCorrectRateBelow))
	a := Adjustment{
		PolicyLevel:        SomeInt(policyLevel),
		RecentCorrectRate:  stats.RecentCorrectRate,
		LowBoxConceptCount: stats.LowBoxConceptCount,
	}

	if !ShouldAdjust(stats, cond) {
		a.Reason = fmt.Sprintf("no adjustment: recent correct rate %s (ceiling %s), %s low-box concepts (minimum %d)",
			stats.RecentCorrectRate, ceiling, stats.LowBoxConceptCount, cond.LowBoxConceptsOver)
		return a
	}

	a.Applied = true
	a.AppliedMix = mix
	a.Reason = fmt.Sprintf("recent correct rate %s is below %s with %s low-box concepts (minimum %d)",
		stats.RecentCorrectRate, ceiling, stats.LowBoxConceptCount, cond.LowBoxConceptsOver)
	if len(mix) > 0 {
		a.Reason += "; easier mix " + mix.String()
	}
	return a
}

// ExtractAdjustment reads the adjustment recorded in a session strategy
// document. The mix comes from applied_level_mix, falling back to
// level_mix. Numeric fields may be numbers or numeric strings.
func ExtractAdjustment(strategy []byte) (Adjustment, error) {
	var doc struct {
		Adjustment struct {
			Applied            bool   `json:"applied"`
			Reason             any    `json:"reason"`
			PolicyLevel        Metric `json:"policy_level"`
			RecentCorrectRate  Metric `json:"recent_correct_rate"`
			LowBoxConceptCount Metric `json:"low_box_concept_count"`
		} `json:"adjustment"`
		AppliedLevelMix map[string]Metric `json:"applied_level_mix"`
		LevelMix        map[string]Metric `json:"level_mix"`
	}
	if len(strategy) == 0 {
		return Adjustment{}, nil
	}
	if err := json.Unmarshal(strategy, &doc); err != nil {
		return Adjustment{}, fmt.Errorf("decode strategy: %w", err)
	}

	adj := doc.Adjustment
	out := Adjustment{
		Applied:            adj.Applied,
		PolicyLevel:        adj.PolicyLevel,
		RecentCorrectRate:  adj.RecentCorrectRate,
		LowBoxConceptCount: adj.LowBoxConceptCount,
	}
	if s, ok := adj.Reason.(string); ok {
		out.Reason = s
	}

	raw := doc.AppliedLevelMix
	if raw == nil {
		raw = doc.LevelMix
	}
	if raw != nil {
		out.AppliedMix = Mix{}
		for k, w := range raw {
			l, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(k), "L"))
			if err != nil {
				continue
			}
			out.AppliedMix[l] = w.Or(0)
		}
	}
	return out, nil
}
