package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Session is one practice session. Type and requested type are stored
// under their storage names.
type Session struct {
	ent.Schema
}

func (Session) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("user_id").
			NotEmpty().
			Immutable(),
		field.String("session_type").
			NotEmpty().
			Comment("Effective type after gating"),
		field.String("requested_type").
			NotEmpty().
			Comment("Type the client asked for"),
		field.Int("item_limit"),
		field.Text("strategy").
			Optional().
			Comment("Strategy JSON, including any applied adjustment"),
		field.Time("started_at").
			Default(time.Now).
			Immutable(),
		field.Time("ended_at").
			Optional().
			Nillable(),
	}
}

func (Session) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "started_at"),
	}
}
