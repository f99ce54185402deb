package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Chapter is one imported chapter of the question bank.
type Chapter struct {
	ent.Schema
}

func (Chapter) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Chapter) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty().
			Unique().
			Immutable().
			Comment("Stable identifier used on the command line and in content files"),
		field.String("title").
			Default("").
			Comment("Display title shown on the chapter menu"),
		field.Int("position").
			Comment("Menu order; new chapters are appended"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("Time of the last import"),
	}
}

func (Chapter) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("problems", Problem.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Chapter) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("position"),
	}
}
