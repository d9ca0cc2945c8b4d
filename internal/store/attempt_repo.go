package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/lingo/ent"
	"github.com/abhisek/lingo/ent/attempt"
	"github.com/abhisek/lingo/ent/conceptbox"
	"github.com/abhisek/lingo/ent/grade"
	"github.com/abhisek/lingo/ent/user"
	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/spacedrep"
)

// judgeRule marks grades produced by the rule-based grader.
const judgeRule = "rule"

// AttemptRepo stores attempts with their grades and advances concept boxes.
type AttemptRepo struct {
	store *Store
}

// SaveResults stores one attempt and grade per result, moves every graded
// concept through its boxes and adds accepted answers to the learner's
// built-sentence count. Everything is written in one transaction.
func (r *AttemptRepo) SaveResults(ctx context.Context, userID, sessionID string, results []grading.ItemResult) ([]spacedrep.Move, error) {
	if len(results) == 0 {
		return nil, nil
	}
	first, err := r.store.seq.Reserve(ctx, len(results))
	if err != nil {
		return nil, err
	}

	now := r.store.now()
	var moves []spacedrep.Move

	err = r.store.withTx(ctx, func(tx *ent.Tx) error {
		accepted := 0
		for i, res := range results {
			attemptID := uuid.NewString()
			if _, err := tx.Attempt.Create().
				SetID(attemptID).
				SetSequence(first + int64(i)).
				SetCreatedAt(now).
				SetSessionID(sessionID).
				SetItemID(res.ItemID).
				SetUserID(userID).
				SetUserAnswer(res.UserAnswer).
				SetLatencyMs(max(res.LatencyMs, 0)).
				SetConceptKey(res.ConceptKey).
				Save(ctx); err != nil {
				return fmt.Errorf("insert attempt %s: %w", res.ItemID, err)
			}

			if _, err := tx.Grade.Create().
				SetAttemptID(attemptID).
				SetLabel(grade.Label(res.Label)).
				SetFeedback(res.Feedback).
				SetMinimalRewrite(res.MinimalRewrite).
				SetJudge(judgeRule).
				SetCreatedAt(now).
				Save(ctx); err != nil {
				return fmt.Errorf("insert grade %s: %w", res.ItemID, err)
			}

			if res.Label.Accepted() {
				accepted++
			}
			if res.ConceptKey == "" {
				continue
			}
			mv, err := r.advanceBox(ctx, tx, userID, res.ConceptKey, res.Label)
			if err != nil {
				return err
			}
			moves = append(moves, mv)
		}

		if accepted > 0 {
			if _, err := tx.User.Update().
				Where(user.ID(userID)).
				AddBuiltSentenceCount(accepted).
				Save(ctx); err != nil {
				return fmt.Errorf("update built sentences: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moves, nil
}

func (r *AttemptRepo) advanceBox(ctx context.Context, tx *ent.Tx, userID, conceptKey string, label grading.Label) (spacedrep.Move, error) {
	now := r.store.now()
	row, err := tx.ConceptBox.Query().
		Where(conceptbox.UserID(userID), conceptbox.ConceptKey(conceptKey)).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return spacedrep.Move{}, fmt.Errorf("query box: %w", err)
	}

	var cb *spacedrep.ConceptBox
	if row == nil {
		cb = spacedrep.NewConceptBox(conceptKey, now)
	} else {
		cb = entBoxToConceptBox(row)
	}
	mv := cb.Record(label, now)

	if row == nil {
		_, err = tx.ConceptBox.Create().
			SetUserID(userID).
			SetConceptKey(conceptKey).
			SetBox(cb.Box).
			SetStreak(cb.Streak).
			SetLastReviewedAt(cb.LastReviewedAt).
			SetNextReviewAt(cb.NextReviewAt).
			Save(ctx)
	} else {
		_, err = row.Update().
			SetBox(cb.Box).
			SetStreak(cb.Streak).
			SetLastReviewedAt(cb.LastReviewedAt).
			SetNextReviewAt(cb.NextReviewAt).
			Save(ctx)
	}
	if err != nil {
		return spacedrep.Move{}, fmt.Errorf("save box %s: %w", conceptKey, err)
	}
	return mv, nil
}

// SessionResults returns the graded attempts of a session in the order
// they were made.
func (r *AttemptRepo) SessionResults(ctx context.Context, sessionID string) ([]grading.ItemResult, error) {
	attempts, err := r.store.client.Attempt.Query().
		Where(attempt.SessionID(sessionID)).
		Order(ent.Asc(attempt.FieldSequence)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(attempts))
	for i, a := range attempts {
		ids[i] = a.ID
	}
	grades, err := r.store.client.Grade.Query().
		Where(grade.AttemptIDIn(ids...)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query grades: %w", err)
	}
	byAttempt := make(map[string]*ent.Grade, len(grades))
	for _, g := range grades {
		byAttempt[g.AttemptID] = g
	}

	out := make([]grading.ItemResult, 0, len(attempts))
	for _, a := range attempts {
		g, ok := byAttempt[a.ID]
		if !ok {
			continue
		}
		label, err := grading.ParseLabel(string(g.Label))
		if err != nil {
			return nil, err
		}
		out = append(out, grading.ItemResult{
			ItemID:     a.ItemID,
			UserAnswer: a.UserAnswer,
			LatencyMs:  a.LatencyMs,
			ConceptKey: a.ConceptKey,
			Result: grading.Result{
				Label:          label,
				Feedback:       g.Feedback,
				MinimalRewrite: g.MinimalRewrite,
			},
		})
	}
	return out, nil
}

func entBoxToConceptBox(row *ent.ConceptBox) *spacedrep.ConceptBox {
	cb := &spacedrep.ConceptBox{
		ConceptKey:   row.ConceptKey,
		Box:          row.Box,
		Streak:       row.Streak,
		NextReviewAt: row.NextReviewAt.UTC(),
	}
	if row.LastReviewedAt != nil {
		cb.LastReviewedAt = row.LastReviewedAt.UTC()
	}
	return cb
}
