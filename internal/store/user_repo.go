package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lingo/ent"
	"github.com/abhisek/lingo/ent/levelevent"
	"github.com/abhisek/lingo/ent/user"
	"github.com/abhisek/lingo/internal/level"
)

// LevelEvent records one change of a learner's level.
type LevelEvent struct {
	Sequence  int64     `json:"sequence"`
	UserID    string    `json:"user_id"`
	FromLevel int       `json:"from_level"`
	ToLevel   int       `json:"to_level"`
	Source    string    `json:"source"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepo manages learners, their level and built-sentence count.
type UserRepo struct {
	store *Store
}

// Ensure creates the learner at the first level if they do not exist yet.
func (r *UserRepo) Ensure(ctx context.Context, userID string) error {
	exists, err := r.store.client.User.Query().Where(user.ID(userID)).Exist(ctx)
	if err != nil {
		return fmt.Errorf("query user %s: %w", userID, err)
	}
	if exists {
		return nil
	}

	now := r.store.now()
	err = r.store.client.User.Create().
		SetID(userID).
		SetCurrentLevel(level.MinLevel).
		SetCreatedAt(now).
		SetUpdatedAt(now).
		Exec(ctx)
	if err != nil && !ent.IsConstraintError(err) {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

// CurrentLevel returns the learner's level.
func (r *UserRepo) CurrentLevel(ctx context.Context, userID string) (int, error) {
	u, err := r.get(ctx, r.store.client, userID)
	if err != nil {
		return 0, err
	}
	return u.CurrentLevel, nil
}

// BuiltSentenceCount returns how many sentences the learner has produced
// correctly so far.
func (r *UserRepo) BuiltSentenceCount(ctx context.Context, userID string) (int, error) {
	u, err := r.get(ctx, r.store.client, userID)
	if err != nil {
		return 0, err
	}
	return u.BuiltSentenceCount, nil
}

// SetLevel moves the learner to newLevel and appends a level event.
func (r *UserRepo) SetLevel(ctx context.Context, userID string, newLevel int, source, reason string) (*LevelEvent, error) {
	seq, err := r.store.seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	ev := &LevelEvent{
		Sequence:  seq,
		UserID:    userID,
		ToLevel:   newLevel,
		Source:    source,
		Reason:    reason,
		CreatedAt: r.store.now(),
	}
	err = r.store.withTx(ctx, func(tx *ent.Tx) error {
		u, err := r.get(ctx, tx.Client(), userID)
		if err != nil {
			return err
		}
		ev.FromLevel = u.CurrentLevel

		if _, err := u.Update().
			SetCurrentLevel(newLevel).
			SetUpdatedAt(ev.CreatedAt).
			Save(ctx); err != nil {
			return fmt.Errorf("update level: %w", err)
		}

		if _, err := tx.LevelEvent.Create().
			SetSequence(seq).
			SetCreatedAt(ev.CreatedAt).
			SetUserID(userID).
			SetFromLevel(ev.FromLevel).
			SetToLevel(newLevel).
			SetSource(source).
			SetReason(reason).
			Save(ctx); err != nil {
			return fmt.Errorf("insert level event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// History returns the learner's level events, oldest first.
func (r *UserRepo) History(ctx context.Context, userID string) ([]LevelEvent, error) {
	rows, err := r.store.client.LevelEvent.Query().
		Where(levelevent.UserID(userID)).
		Order(ent.Asc(levelevent.FieldSequence)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query level events: %w", err)
	}

	events := make([]LevelEvent, len(rows))
	for i, row := range rows {
		events[i] = LevelEvent{
			Sequence:  row.Sequence,
			UserID:    row.UserID,
			FromLevel: row.FromLevel,
			ToLevel:   row.ToLevel,
			Source:    row.Source,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return events, nil
}

func (r *UserRepo) get(ctx context.Context, client *ent.Client, userID string) (*ent.User, error) {
	u, err := client.User.Get(ctx, userID)
	if ent.IsNotFound(err) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}
