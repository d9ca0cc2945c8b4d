// Package progress wires grading, promotion and session planning to the
// stores and policies behind them.
package progress

import (
	"context"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/level"
	"github.com/abhisek/lingo/internal/spacedrep"
	"github.com/abhisek/lingo/internal/store"
)

// StatsProvider aggregates a learner's statistics.
type StatsProvider interface {
	LevelStats(ctx context.Context, userID string) (level.Stats, error)
	ConceptBoxes(ctx context.Context, userID string) ([]*spacedrep.ConceptBox, error)
}

// SnapshotSource returns the frozen answer keys of a session's items.
type SnapshotSource interface {
	Snapshots(ctx context.Context, sessionID string, itemIDs []string) (map[string]grading.Snapshot, error)
}

// SessionStore creates and reads practice sessions.
type SessionStore interface {
	SnapshotSource
	Create(ctx context.Context, sess *store.Session, items []store.SessionItem) error
	Get(ctx context.Context, id string) (*store.Session, error)
	Items(ctx context.Context, sessionID string) ([]store.SessionItem, error)
	Complete(ctx context.Context, id string) error
}

// ResultSource reads back the graded attempts of a session.
type ResultSource interface {
	SessionResults(ctx context.Context, sessionID string) ([]grading.ItemResult, error)
}

// PersistenceSink stores graded results and reports the resulting box moves.
type PersistenceSink interface {
	SaveResults(ctx context.Context, userID, sessionID string, results []grading.ItemResult) ([]spacedrep.Move, error)
}

// LevelRepo reads and changes a learner's level.
type LevelRepo interface {
	Ensure(ctx context.Context, userID string) error
	CurrentLevel(ctx context.Context, userID string) (int, error)
	BuiltSentenceCount(ctx context.Context, userID string) (int, error)
	SetLevel(ctx context.Context, userID string, newLevel int, source, reason string) (*store.LevelEvent, error)
	History(ctx context.Context, userID string) ([]store.LevelEvent, error)
}

// PolicySource provides promotion and adjustment policies.
type PolicySource interface {
	// PromotionPolicy returns the policy for promotion into targetLevel.
	// ok is false when no policy is configured for that level.
	PromotionPolicy(ctx context.Context, targetLevel int) (p level.Policy, ok bool, err error)
	AdjustmentPolicy(ctx context.Context) (level.Condition, level.RelativeMix, error)
}
