package schema

import (
	"regexp"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/db/ent/schema/utils"
)

type PatternRule struct{ ent.Schema }

func (PatternRule) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "pattern_rules"},
	}
}

func (PatternRule) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id"),
		field.String("name").NotEmpty(),
		field.String("field").NotEmpty().
			Validate(utils.EnumValidator(constants.FieldNames()...)),
		field.String("pattern").NotEmpty().
			Validate(func(s string) error {
				_, err := regexp.Compile(s)
				return err
			}),
		field.Int("capture_group").Default(1).Min(0),
		field.Int("priority").Default(100),
		field.Bool("enabled").Default(true),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (PatternRule) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("field", "priority"),
	}
}
