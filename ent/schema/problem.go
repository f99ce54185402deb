package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Problem is one multiple-choice question at a difficulty level.
type Problem struct {
	ent.Schema
}

func (Problem) Fields() []ent.Field {
	return []ent.Field{
		field.Int("level").
			Range(1, 5).
			Comment("Difficulty level, 1 easiest"),
		field.Int("position").
			NonNegative().
			Comment("Order within the level's pool"),
		field.Text("question").
			NotEmpty().
			Comment("Prompt text"),
		field.Strings("choices").
			Comment("Exactly four answer choices"),
		field.Int("correct_index").
			Range(0, 3).
			Comment("Index into choices of the right answer"),
	}
}

func (Problem) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("chapter", Chapter.Type).
			Ref("problems").
			Unique().
			Required(),
	}
}

func (Problem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("level", "position").
			Edges("chapter").
			Unique(),
	}
}
