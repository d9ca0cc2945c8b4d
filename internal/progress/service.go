package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/level"
	"github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/spacedrep"
	"github.com/abhisek/lingo/internal/store"
)

// ReasonNoPolicy is reported when no promotion policy exists for the next level.
const ReasonNoPolicy = "no_policy"

// Level change sources.
const (
	SourceAuto   = "auto"
	SourceManual = "manual"
)

// Options holds the collaborators of a Service.
type Options struct {
	Sessions SessionStore
	Sink     PersistenceSink
	Results  ResultSource
	Stats    StatsProvider
	Levels   LevelRepo
	Policies PolicySource
	Planner  session.Planner
	Logger   *slog.Logger
	Now      func() time.Time
}

// Service grades sessions, evaluates promotions and plans sessions.
type Service struct {
	sessions SessionStore
	sink     PersistenceSink
	results  ResultSource
	stats    StatsProvider
	levels   LevelRepo
	policies PolicySource
	planner  session.Planner
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. A nil planner uses the standard gate.
func NewService(opts Options) *Service {
	s := &Service{
		sessions: opts.Sessions,
		sink:     opts.Sink,
		results:  opts.Results,
		stats:    opts.Stats,
		levels:   opts.Levels,
		policies: opts.Policies,
		planner:  opts.Planner,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.planner == nil {
		s.planner = session.NewPlanner()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "progress")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// GradeOutcome is the result of grading a batch of session answers.
type GradeOutcome struct {
	SessionID string               `json:"session_id"`
	UserID    string               `json:"user_id"`
	Results   []grading.ItemResult `json:"results"`
	Moves     []spacedrep.Move     `json:"box_moves,omitempty"`
	Summary   *session.Summary     `json:"summary"`
}

// GradeSession grades submissions against the session's snapshots and
// stores the results.
func (s *Service) GradeSession(ctx context.Context, sessionID string, subs []grading.Submission) (*GradeOutcome, error) {
	if len(subs) == 0 {
		return nil, grading.ErrEmptyBatch
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ItemID
	}
	snaps, err := s.sessions.Snapshots(ctx, sessionID, ids)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	results, err := grading.GradeBatch(subs, snaps)
	if err != nil {
		return nil, err
	}

	moves, err := s.sink.SaveResults(ctx, sess.UserID, sessionID, results)
	if err != nil {
		return nil, fmt.Errorf("save results: %w", err)
	}

	return &GradeOutcome{
		SessionID: sessionID,
		UserID:    sess.UserID,
		Results:   results,
		Moves:     moves,
		Summary:   session.BuildSummary(results, s.now().Sub(sess.StartedAt)),
	}, nil
}

// CompleteSession marks a session as ended.
func (s *Service) CompleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Complete(ctx, sessionID); err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return nil
}

// SessionDetail is a stored session read back with its items, graded
// attempts and the adjustment recorded when it was planned.
type SessionDetail struct {
	Session    *store.Session       `json:"session"`
	Adjustment level.Adjustment     `json:"adjustment"`
	Items      []store.SessionItem  `json:"items"`
	Results    []grading.ItemResult `json:"results"`
	Summary    *session.Summary     `json:"summary"`
}

// Session returns a session with its items and everything graded so far.
// The summary covers the session up to its end, or up to now while it
// is still open.
func (s *Service) Session(ctx context.Context, sessionID string) (*SessionDetail, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	items, err := s.sessions.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	var results []grading.ItemResult
	if s.results != nil {
		if results, err = s.results.SessionResults(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("load results: %w", err)
		}
	}

	adj, err := level.ExtractAdjustment(sess.Strategy)
	if err != nil {
		return nil, err
	}

	end := sess.EndedAt
	if end.IsZero() {
		end = s.now()
	}
	if items == nil {
		items = []store.SessionItem{}
	}
	if results == nil {
		results = []grading.ItemResult{}
	}
	return &SessionDetail{
		Session:    sess,
		Adjustment: adj,
		Items:      items,
		Results:    results,
		Summary:    session.BuildSummary(results, end.Sub(sess.StartedAt)),
	}, nil
}

// EvaluatePromotion decides whether the learner can move up one level.
func (s *Service) EvaluatePromotion(ctx context.Context, userID string) (level.Decision, error) {
	current, err := s.levels.CurrentLevel(ctx, userID)
	if err != nil {
		return level.Decision{}, fmt.Errorf("current level: %w", err)
	}
	stats, err := s.stats.LevelStats(ctx, userID)
	if err != nil {
		return level.Decision{}, fmt.Errorf("level stats: %w", err)
	}

	if current >= level.MaxLevel {
		return level.Evaluate(current, stats, level.Policy{}), nil
	}

	target := current + 1
	policy, ok, err := s.policies.PromotionPolicy(ctx, target)
	if err != nil {
		return level.Decision{}, fmt.Errorf("promotion policy: %w", err)
	}
	if !ok {
		return level.Decision{
			CurrentLevel: current,
			TargetLevel:  target,
			Reason:       ReasonNoPolicy,
			Stats:        &stats,
		}, nil
	}
	return level.Evaluate(current, stats, policy), nil
}

// LevelInfo is a learner's current level with its history.
type LevelInfo struct {
	UserID             string             `json:"user_id"`
	Level              int                `json:"level"`
	BuiltSentenceCount int                `json:"built_sentence_count"`
	History            []store.LevelEvent `json:"history"`
}

// Level returns the learner's level, built-sentence count and level history.
func (s *Service) Level(ctx context.Context, userID string) (*LevelInfo, error) {
	current, err := s.levels.CurrentLevel(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("current level: %w", err)
	}
	built, err := s.levels.BuiltSentenceCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("built sentences: %w", err)
	}
	history, err := s.levels.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("level history: %w", err)
	}
	return &LevelInfo{UserID: userID, Level: current, BuiltSentenceCount: built, History: history}, nil
}

// LevelUpResult reports the outcome of an automatic level-up.
type LevelUpResult struct {
	LeveledUp bool              `json:"leveled_up"`
	NewLevel  int               `json:"new_level"`
	Source    string            `json:"source"`
	Reason    string            `json:"reason"`
	Decision  level.Decision    `json:"decision"`
	Event     *store.LevelEvent `json:"event,omitempty"`
}

// AutoLevelUp promotes the learner when the promotion policy allows it.
func (s *Service) AutoLevelUp(ctx context.Context, userID, source string) (*LevelUpResult, error) {
	if source == "" {
		source = SourceAuto
	}
	d, err := s.EvaluatePromotion(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &LevelUpResult{
		NewLevel: d.CurrentLevel,
		Source:   source,
		Reason:   d.Reason,
		Decision: d,
	}
	if !d.Eligible {
		s.logger.Debug("level unchanged", "user", userID, "level", d.CurrentLevel, "reason", d.Reason)
		return res, nil
	}

	ev, err := s.levels.SetLevel(ctx, userID, d.TargetLevel, source, d.Reason)
	if err != nil {
		return nil, fmt.Errorf("set level: %w", err)
	}
	res.LeveledUp = true
	res.NewLevel = ev.ToLevel
	res.Event = ev
	s.logger.Info("level up", "user", userID, "from", ev.FromLevel, "to", ev.ToLevel, "source", source)
	return res, nil
}

// PlanRequest asks for a new practice session.
type PlanRequest struct {
	UserID string
	// Type is the client's session type; unknown values mean new_only.
	Type  string
	Limit int
	// Candidates are the items the session may draw from.
	Candidates []store.SessionItem
}

// SessionPlan is a created session with the decisions behind it.
type SessionPlan struct {
	SessionID    string              `json:"session_id"`
	Plan         session.Plan        `json:"plan"`
	Adjustment   level.Adjustment    `json:"adjustment"`
	DueConcepts  []string            `json:"due_concepts,omitempty"`
	WeakConcepts []string            `json:"weak_concepts,omitempty"`
	Items        []store.SessionItem `json:"items"`
}

// strategyDoc is stored with each session so the adjustment can be read back.
type strategyDoc struct {
	Adjustment      level.Adjustment   `json:"adjustment"`
	AppliedLevelMix map[string]float64 `json:"applied_level_mix,omitempty"`
	LevelRange      session.LevelRange `json:"level_range"`
	DueConcepts     []string           `json:"due_concepts,omitempty"`
	WeakConcepts    []string           `json:"weak_concepts,omitempty"`
}

// PlanSession applies the session gate and the difficulty adjustment,
// picks items from the candidates and creates the session.
func (s *Service) PlanSession(ctx context.Context, req PlanRequest) (*SessionPlan, error) {
	if err := s.levels.Ensure(ctx, req.UserID); err != nil {
		return nil, err
	}
	current, err := s.levels.CurrentLevel(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("current level: %w", err)
	}
	built, err := s.levels.BuiltSentenceCount(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("built sentences: %w", err)
	}

	plan := s.planner.DecidePlan(session.PlanInput{
		Requested:          session.FromClient(req.Type),
		UserLevel:          current,
		BuiltSentenceCount: built,
		Limit:              req.Limit,
	})

	stats, err := s.stats.LevelStats(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("level stats: %w", err)
	}
	cond, rel, err := s.policies.AdjustmentPolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("adjustment policy: %w", err)
	}
	adj := level.Adjust(current, stats, cond, rel.Resolve(current))

	boxes, err := s.stats.ConceptBoxes(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("concept boxes: %w", err)
	}
	due := spacedrep.DueConcepts(boxes, s.now())
	weak := spacedrep.WeakConcepts(boxes)

	items := selectItems(plan, adj, due, weak, req.Candidates)

	strategy, err := json.Marshal(strategyDoc{
		Adjustment:      adj,
		AppliedLevelMix: labelMix(adj.AppliedMix),
		LevelRange:      plan.Levels,
		DueConcepts:     due,
		WeakConcepts:    weak,
	})
	if err != nil {
		return nil, fmt.Errorf("encode strategy: %w", err)
	}

	sess := &store.Session{
		UserID:        req.UserID,
		Type:          plan.Type,
		RequestedType: plan.Requested,
		Limit:         plan.Limit,
		Strategy:      strategy,
	}
	if err := s.sessions.Create(ctx, sess, items); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session planned",
		"user", req.UserID, "session", sess.ID, "type", plan.Type,
		"gated", plan.Gated, "adjusted", adj.Applied, "items", len(items))

	return &SessionPlan{
		SessionID:    sess.ID,
		Plan:         plan,
		Adjustment:   adj,
		DueConcepts:  due,
		WeakConcepts: weak,
		Items:        items,
	}, nil
}

// selectItems filters candidates for the plan's session type and trims
// them to the plan's limit. With an applied adjustment, new items are
// drawn from the easier mix's levels instead of the regular window.
// A candidate listed twice is kept once, at its first position.
func selectItems(plan session.Plan, adj level.Adjustment, due, weak []string, candidates []store.SessionItem) []store.SessionItem {
	inLevels := func(l int) bool {
		if l == 0 {
			return true
		}
		if adj.Applied && len(adj.AppliedMix) > 0 {
			_, ok := adj.AppliedMix[l]
			return ok
		}
		return l >= plan.Levels.Min && l <= plan.Levels.Max
	}

	var keep func(store.SessionItem) bool
	switch plan.Type {
	case session.TypeNewOnly:
		keep = func(it store.SessionItem) bool { return inLevels(it.Snapshot.Level) }
	case session.TypeReviewOnly:
		set := toSet(due)
		keep = func(it store.SessionItem) bool { return set[it.Snapshot.ConceptKey] }
	case session.TypeWeakness:
		set := toSet(weak)
		keep = func(it store.SessionItem) bool { return set[it.Snapshot.ConceptKey] }
	case session.TypeStandard:
		keep = func(store.SessionItem) bool { return true }
	default:
		panic("progress: unhandled session type " + string(plan.Type))
	}

	if plan.Limit <= 0 {
		return []store.SessionItem{}
	}
	out := make([]store.SessionItem, 0, min(plan.Limit, len(candidates)))
	seen := make(map[string]bool, len(candidates))
	for _, it := range candidates {
		if len(out) == plan.Limit {
			break
		}
		if seen[it.ItemID] || !keep(it) {
			continue
		}
		seen[it.ItemID] = true
		out = append(out, it)
	}
	return out
}

func labelMix(m level.Mix) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for l, w := range m {
		out[fmt.Sprintf("L%d", l)] = w
	}
	return out
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
