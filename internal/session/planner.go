package session

import "github.com/abhisek/lingo/internal/level"

// PlanInput is what a learner asked for, with the facts the gate needs.
type PlanInput struct {
	Requested          Type
	UserLevel          int
	BuiltSentenceCount int
	// Limit is the requested number of items. Zero means not supplied;
	// any other value passes through unchanged.
	Limit int
}

// Planner turns a session request into an effective plan.
type Planner interface {
	DecidePlan(in PlanInput) Plan
}

// GatePlanner restricts learners to new_only sessions until they have
// built GateSentenceCount sentences. The gate itself is not configurable.
type GatePlanner struct {
	// DefaultLimit replaces a missing limit. Zero means the package DefaultLimit.
	DefaultLimit int
}

// NewPlanner returns a planner with the standard gate.
func NewPlanner() *GatePlanner {
	return &GatePlanner{DefaultLimit: DefaultLimit}
}

// DecidePlan applies the sentence-count gate and fills in a missing limit.
func (p *GatePlanner) DecidePlan(in PlanInput) Plan {
	limit := in.Limit
	if limit == 0 {
		limit = p.DefaultLimit
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	requested := in.Requested
	if requested == "" {
		requested = TypeNewOnly
	}

	plan := Plan{
		Type:      requested,
		Requested: requested,
		Limit:     limit,
		Levels:    NewItemLevels(in.UserLevel),
	}
	if in.BuiltSentenceCount < GateSentenceCount && requested != TypeNewOnly {
		plan.Type = TypeNewOnly
		plan.Gated = true
	}
	return plan
}

// DecidePlan applies the standard gate.
func DecidePlan(in PlanInput) Plan {
	return NewPlanner().DecidePlan(in)
}

// NewItemLevels is the span new items are drawn from for a learner at
// userLevel: one level either side, kept within the level bounds.
func NewItemLevels(userLevel int) LevelRange {
	l := level.Clamp(userLevel)
	return LevelRange{
		Min: max(level.MinLevel, l-1),
		Max: min(level.MaxLevel, l+1),
	}
}
