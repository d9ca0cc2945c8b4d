package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Grade is the judgement of an attempt.
type Grade struct {
	ent.Schema
}

func (Grade) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("Links to Attempt"),
		field.Enum("label").
			Values("correct", "variant", "near_miss", "wrong"),
		field.String("feedback"),
		field.String("minimal_rewrite").
			Optional(),
		field.String("judge").
			Default("rule").
			Comment("Grader that produced the label"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
