package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/tirepoint/garage-docs/db/ent/schema/utils"
)

type Extraction struct{ ent.Schema }

func (Extraction) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "extractions"},
	}
}

func (Extraction) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("document_id", uuid.UUID{}).Unique(),
		field.String("raw_text").
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.JSON("payload", json.RawMessage{}),
		field.Int("confidence").Min(0).Max(100),
		field.String("source_kind").NotEmpty().
			Validate(utils.EnumValidator("TEXT_LAYER", "OCR")),
		field.Time("created_at").Default(time.Now),
	}
}

func (Extraction) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", Document.Type).
			Ref("extraction").
			Field("document_id").
			Unique().
			Required(),
	}
}

func (Extraction) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
	}
}
