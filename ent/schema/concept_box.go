package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ConceptBox tracks a learner's Leitner box for one concept.
type ConceptBox struct {
	ent.Schema
}

func (ConceptBox) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "concept_boxes"},
	}
}

func (ConceptBox) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty(),
		field.String("concept_key").
			NotEmpty(),
		field.Int("box").
			Range(1, 5),
		field.Int("streak").
			Default(0).
			NonNegative(),
		field.Time("last_reviewed_at").
			Optional().
			Nillable(),
		field.Time("next_review_at"),
	}
}

func (ConceptBox) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "concept_key").Unique(),
		index.Fields("user_id", "next_review_at"),
	}
}
