package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/common"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// PGRuleRepository loads pattern rules from Postgres. Ordering by priority
// then id preserves insertion order among equal priorities.
type PGRuleRepository struct {
	pool *pgxpool.Pool
}

func NewPGRuleRepository(pool *pgxpool.Pool) *PGRuleRepository {
	return &PGRuleRepository{pool: pool}
}

func (r *PGRuleRepository) ActiveRules(ctx context.Context) ([]entity.PatternRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, field, pattern, capture_group, priority, enabled, updated_at
		 FROM pattern_rules
		 WHERE enabled
		 ORDER BY priority, id`)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to load pattern rules", err)
	}
	defer rows.Close()

	var out []entity.PatternRule
	for rows.Next() {
		var rule entity.PatternRule
		var field string
		if err := rows.Scan(&rule.ID, &rule.Name, &field, &rule.Pattern,
			&rule.CaptureGroup, &rule.Priority, &rule.Enabled, &rule.UpdatedAt); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to scan pattern rule", err)
		}
		rule.Field = constants.FieldKind(field)
		out = append(out, rule)
	}
	return out, rows.Err()
}
