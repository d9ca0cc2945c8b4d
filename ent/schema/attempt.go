package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Attempt records one submitted answer.
type Attempt struct {
	ent.Schema
}

func (Attempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Attempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("session_id").
			NotEmpty().
			Comment("Links to Session"),
		field.String("item_id").
			NotEmpty(),
		field.String("user_id").
			NotEmpty(),
		field.String("user_answer").
			Comment("What the learner typed, may be empty"),
		field.Int("latency_ms").
			NonNegative().
			Default(0),
		field.String("concept_key").
			Optional().
			Comment("Concept of the item, copied from its snapshot"),
	}
}

func (Attempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("user_id"),
	}
}
