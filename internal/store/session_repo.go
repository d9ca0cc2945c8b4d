package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingo/ent"
	entsession "github.com/abhisek/lingo/ent/session"
	"github.com/abhisek/lingo/ent/sessionitem"
	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/session"
)

// Session is a stored practice session.
type Session struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          session.Type    `json:"session_type"`
	RequestedType session.Type    `json:"requested_type"`
	Limit         int             `json:"limit"`
	Strategy      json.RawMessage `json:"strategy,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	EndedAt       time.Time       `json:"ended_at,omitzero"`
}

// SessionItem is one item of a session with its frozen answer key.
type SessionItem struct {
	ItemID   string           `json:"item_id"`
	Snapshot grading.Snapshot `json:"snapshot"`
}

// SessionRepo manages sessions and their item snapshots.
type SessionRepo struct {
	store *Store
}

// Create stores a session and its items. An empty ID is filled with a new
// UUID. Listing the same item twice fails with ErrConflict.
func (r *SessionRepo) Create(ctx context.Context, sess *Session, items []SessionItem) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = r.store.now()
	}
	if sess.Type == "" {
		sess.Type = session.TypeNewOnly
	}
	if sess.RequestedType == "" {
		sess.RequestedType = sess.Type
	}

	return r.store.withTx(ctx, func(tx *ent.Tx) error {
		create := tx.Session.Create().
			SetID(sess.ID).
			SetUserID(sess.UserID).
			SetSessionType(sess.Type.StorageName()).
			SetRequestedType(sess.RequestedType.StorageName()).
			SetItemLimit(sess.Limit).
			SetStartedAt(sess.StartedAt)
		if len(sess.Strategy) > 0 {
			create.SetStrategy(string(sess.Strategy))
		}
		if _, err := create.Save(ctx); err != nil {
			if ent.IsConstraintError(err) {
				return fmt.Errorf("session %s: %w", sess.ID, ErrConflict)
			}
			return fmt.Errorf("insert session: %w", err)
		}

		if len(items) == 0 {
			return nil
		}
		builders := make([]*ent.SessionItemCreate, len(items))
		for i, it := range items {
			builders[i] = tx.SessionItem.Create().
				SetSessionID(sess.ID).
				SetItemID(it.ItemID).
				SetPosition(i).
				SetSnapshot(it.Snapshot)
		}
		if _, err := tx.SessionItem.CreateBulk(builders...).Save(ctx); err != nil {
			if ent.IsConstraintError(err) {
				return fmt.Errorf("session items: %w", ErrConflict)
			}
			return fmt.Errorf("insert items: %w", err)
		}
		return nil
	})
}

// Get returns a session by ID.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	row, err := r.store.client.Session.Get(ctx, id)
	if ent.IsNotFound(err) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return entSessionToSession(row), nil
}

// Complete marks the session as ended.
func (r *SessionRepo) Complete(ctx context.Context, id string) error {
	n, err := r.store.client.Session.Update().
		Where(entsession.ID(id), entsession.EndedAtIsNil()).
		SetEndedAt(r.store.now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("open session %s: %w", id, ErrNotFound)
	}
	return nil
}

// Items returns the session's items in their original order.
func (r *SessionRepo) Items(ctx context.Context, sessionID string) ([]SessionItem, error) {
	rows, err := r.store.client.SessionItem.Query().
		Where(sessionitem.SessionID(sessionID)).
		Order(ent.Asc(sessionitem.FieldPosition)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	items := make([]SessionItem, len(rows))
	for i, row := range rows {
		items[i] = SessionItem{ItemID: row.ItemID, Snapshot: row.Snapshot}
	}
	return items, nil
}

// Snapshots returns the answer keys of the requested items. Items that are
// not part of the session are simply absent from the result.
func (r *SessionRepo) Snapshots(ctx context.Context, sessionID string, itemIDs []string) (map[string]grading.Snapshot, error) {
	out := make(map[string]grading.Snapshot, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	rows, err := r.store.client.SessionItem.Query().
		Where(
			sessionitem.SessionID(sessionID),
			sessionitem.ItemIDIn(itemIDs...),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	for _, row := range rows {
		out[row.ItemID] = row.Snapshot
	}
	return out, nil
}

func entSessionToSession(row *ent.Session) *Session {
	sess := &Session{
		ID:            row.ID,
		UserID:        row.UserID,
		Type:          session.FromClient(row.SessionType),
		RequestedType: session.FromClient(row.RequestedType),
		Limit:         row.ItemLimit,
		StartedAt:     row.StartedAt.UTC(),
	}
	if row.Strategy != "" {
		sess.Strategy = json.RawMessage(row.Strategy)
	}
	if row.EndedAt != nil {
		sess.EndedAt = row.EndedAt.UTC()
	}
	return sess
}
