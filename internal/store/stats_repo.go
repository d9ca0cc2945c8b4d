package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lingo/ent"
	"github.com/abhisek/lingo/ent/attempt"
	"github.com/abhisek/lingo/ent/conceptbox"
	"github.com/abhisek/lingo/ent/grade"
	entsession "github.com/abhisek/lingo/ent/session"
	"github.com/abhisek/lingo/internal/level"
	"github.com/abhisek/lingo/internal/spacedrep"
)

// StatsRepo aggregates learner statistics from attempts and concept boxes.
type StatsRepo struct {
	store *Store
}

// LevelStats computes the statistics promotion and adjustment are
// evaluated on. The recent session is the latest session with at least
// one attempt. Rates and ratios with no underlying data are missing.
func (r *StatsRepo) LevelStats(ctx context.Context, userID string) (level.Stats, error) {
	var stats level.Stats
	client := r.store.client

	recent, err := r.recentSession(ctx, userID)
	if err != nil {
		return stats, err
	}
	if recent == nil {
		stats.RecentAttempts = level.SomeInt(0)
		stats.RecentCorrectAttempts = level.SomeInt(0)
	} else {
		stats.RecentSessionID = recent.ID
		stats.RecentSessionStartedAt = recent.StartedAt.UTC().Format(time.RFC3339Nano)
		if recent.EndedAt != nil {
			stats.RecentSessionEndedAt = recent.EndedAt.UTC().Format(time.RFC3339Nano)
		}

		ids, err := client.Attempt.Query().
			Where(attempt.SessionID(recent.ID)).
			IDs(ctx)
		if err != nil {
			return stats, fmt.Errorf("query recent attempts: %w", err)
		}
		correct, err := client.Grade.Query().
			Where(
				grade.AttemptIDIn(ids...),
				grade.LabelIn(grade.LabelCorrect, grade.LabelVariant),
			).
			Count(ctx)
		if err != nil {
			return stats, fmt.Errorf("query recent grades: %w", err)
		}
		stats.RecentAttempts = level.SomeInt(len(ids))
		stats.RecentCorrectAttempts = level.SomeInt(correct)
		if len(ids) > 0 {
			stats.RecentCorrectRate = level.Some(float64(correct) / float64(len(ids)))
		}
	}

	total, err := client.Attempt.Query().
		Where(attempt.UserID(userID)).
		Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("query total attempts: %w", err)
	}
	stats.TotalAttempts = level.SomeInt(total)

	boxes, err := r.ConceptBoxes(ctx, userID)
	if err != nil {
		return stats, err
	}
	tally := spacedrep.Summarize(boxes)
	stats.StableConceptCount = level.SomeInt(tally.Stable)
	stats.LowBoxConceptCount = level.SomeInt(tally.Low)
	if tally.Concepts > 0 {
		stats.StableConceptRatio = level.Some(tally.StableRatio)
	}
	return stats, nil
}

// recentSession returns the learner's latest started session that has at
// least one attempt, or nil when there is none.
func (r *StatsRepo) recentSession(ctx context.Context, userID string) (*ent.Session, error) {
	sessionIDs, err := r.store.client.Attempt.Query().
		Where(attempt.UserID(userID)).
		Unique(true).
		Select(attempt.FieldSessionID).
		Strings(ctx)
	if err != nil {
		return nil, fmt.Errorf("query attempted sessions: %w", err)
	}
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	recent, err := r.store.client.Session.Query().
		Where(
			entsession.UserID(userID),
			entsession.IDIn(sessionIDs...),
		).
		Order(ent.Desc(entsession.FieldStartedAt)).
		First(ctx)
	if ent.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query recent session: %w", err)
	}
	return recent, nil
}

// ConceptBoxes returns every concept box of the learner ordered by concept.
func (r *StatsRepo) ConceptBoxes(ctx context.Context, userID string) ([]*spacedrep.ConceptBox, error) {
	rows, err := r.store.client.ConceptBox.Query().
		Where(conceptbox.UserID(userID)).
		Order(ent.Asc(conceptbox.FieldConceptKey)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query boxes: %w", err)
	}

	boxes := make([]*spacedrep.ConceptBox, len(rows))
	for i, row := range rows {
		boxes[i] = entBoxToConceptBox(row)
	}
	return boxes, nil
}
