package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// User is a learner with a current level and a running count of
// sentences they have built correctly.
type User struct {
	ent.Schema
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.Int("current_level").
			Default(1).
			Comment("1 through 6"),
		field.Int("built_sentence_count").
			Default(0).
			NonNegative().
			Comment("Accepted answers across all sessions"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
