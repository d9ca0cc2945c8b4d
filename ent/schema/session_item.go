package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/lingo/internal/grading"
)

// SessionItem is an item served in a session together with the answer key
// frozen at session creation.
type SessionItem struct {
	ent.Schema
}

func (SessionItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Immutable(),
		field.String("item_id").
			NotEmpty().
			Immutable(),
		field.Int("position").
			NonNegative().
			Comment("Order the item is served in"),
		field.JSON("snapshot", grading.Snapshot{}).
			Comment("Answer key as it was when the session started"),
	}
}

func (SessionItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "item_id").Unique(),
		index.Fields("session_id", "position"),
	}
}
