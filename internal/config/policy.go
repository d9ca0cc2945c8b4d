package config

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/lingo/internal/level"
)

//go:embed policy.default.yaml
var defaultPolicyYAML []byte

// policyDoc is the on-disk shape of a policy document.
type policyDoc struct {
	Levels     []levelDoc    `yaml:"levels" validate:"required,min=1,dive"`
	Adjustment adjustmentDoc `yaml:"adjustment"`
}

type levelDoc struct {
	Level            int      `yaml:"level" validate:"gte=2,lte=9"`
	MinTotalAttempts *float64 `yaml:"min_total_attempts" validate:"required,gte=0"`
	MinCorrectRate   *float64 `yaml:"min_correct_rate" validate:"required,gte=0,lte=100"`
	MinBoxLevelRatio *float64 `yaml:"min_box_level_ratio" validate:"required,gte=0,lte=100"`
}

type adjustmentDoc struct {
	RecentCorrectRateBelow float64         `yaml:"recent_correct_rate_below" validate:"gte=0,lte=100"`
	LowBoxConceptsOver     int             `yaml:"low_box_concepts_over" validate:"gte=0"`
	LevelMix               map[int]float64 `yaml:"level_mix" validate:"dive,gte=0"`
}

// Policies holds promotion policies by target level and the difficulty
// adjustment rule.
type Policies struct {
	byLevel   map[int]level.Policy
	condition level.Condition
	mix       level.RelativeMix
}

// DefaultPolicies returns the built-in policy document.
func DefaultPolicies() *Policies {
	p, err := ParsePolicies(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("config: built-in policy: %v", err))
	}
	return p
}

// LoadPolicies reads a policy document from path, or returns the built-in
// defaults when path is empty.
func LoadPolicies(path string) (*Policies, error) {
	if path == "" {
		return DefaultPolicies(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	p, err := ParsePolicies(data)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return p, nil
}

// ParsePolicies decodes and validates a YAML policy document. Rates given
// as percentages are converted to fractions.
func ParsePolicies(data []byte) (*Policies, error) {
	var doc policyDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	if err := validator.New().Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	p := &Policies{
		byLevel: make(map[int]level.Policy, len(doc.Levels)),
		condition: level.Condition{
			RecentCorrectRateBelow: level.NormalizeRate(level.Some(doc.Adjustment.RecentCorrectRateBelow)).Or(0),
			LowBoxConceptsOver:     doc.Adjustment.LowBoxConceptsOver,
		},
		mix: level.RelativeMix(doc.Adjustment.LevelMix),
	}
	for _, ld := range doc.Levels {
		if _, dup := p.byLevel[ld.Level]; dup {
			return nil, fmt.Errorf("invalid policy: level %d defined twice", ld.Level)
		}
		p.byLevel[ld.Level] = level.Policy{
			Level:            ld.Level,
			MinTotalAttempts: level.FromPtr(ld.MinTotalAttempts),
			MinCorrectRate:   level.FromPtr(ld.MinCorrectRate),
			MinBoxLevelRatio: level.FromPtr(ld.MinBoxLevelRatio),
		}.Normalized()
	}
	return p, nil
}

// PromotionPolicy returns the policy for promotion into targetLevel.
func (p *Policies) PromotionPolicy(_ context.Context, targetLevel int) (level.Policy, bool, error) {
	pol, ok := p.byLevel[targetLevel]
	return pol, ok, nil
}

// AdjustmentPolicy returns the adjustment rule and the easier mix,
// relative to the learner's level.
func (p *Policies) AdjustmentPolicy(_ context.Context) (level.Condition, level.RelativeMix, error) {
	return p.condition, p.mix, nil
}

// Levels lists the target levels that have a policy, ascending.
func (p *Policies) Levels() []int {
	out := make([]int, 0, len(p.byLevel))
	for l := range p.byLevel {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
