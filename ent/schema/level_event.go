package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LevelEvent records one change of a learner's level.
type LevelEvent struct {
	ent.Schema
}

func (LevelEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LevelEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty(),
		field.Int("from_level"),
		field.Int("to_level"),
		field.String("source").
			NotEmpty().
			Comment("auto or manual"),
		field.String("reason").
			Optional(),
	}
}

func (LevelEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
	}
}
