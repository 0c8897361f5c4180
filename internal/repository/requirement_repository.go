package repository

import (
	"context"

	"hrcore/internal/database"
	"hrcore/internal/domain/rolefit"
)

type RequirementRepository interface {
	// ListByRole returns the role's soft-skill requirements ordered by priority.
	ListByRole(ctx context.Context, roleID int64) ([]rolefit.Requirement, error)
	Upsert(ctx context.Context, req rolefit.Requirement) error
}

type PostgresRequirementRepository struct {
	db database.DB
}

func NewPostgresRequirementRepository(db database.DB) *PostgresRequirementRepository {
	return &PostgresRequirementRepository{db: db}
}

func (r *PostgresRequirementRepository) ListByRole(ctx context.Context, roleID int64) ([]rolefit.Requirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rq.role_id, rq.soft_skill_id, ss.code, ss.name, ss.category,
		        rq.priority, rq.weight, rq.is_required, rq.min_score, rq.target_score
		 FROM role_soft_skill_requirements rq
		 JOIN soft_skills ss ON ss.id = rq.soft_skill_id
		 WHERE rq.role_id = $1
		 ORDER BY rq.priority, ss.priority, ss.id`,
		roleID,
	)
	if err != nil {
		return nil, translate("list requirements", err)
	}
	defer rows.Close()

	out := make([]rolefit.Requirement, 0)
	for rows.Next() {
		var q rolefit.Requirement
		if err := rows.Scan(&q.RoleID, &q.SoftSkillID, &q.SoftSkillCode, &q.SoftSkillName, &q.Category,
			&q.Priority, &q.Weight, &q.IsRequired, &q.MinScore, &q.TargetScore); err != nil {
			return nil, translate("scan requirement", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list requirements", err)
	}
	return out, nil
}

// Upsert stores a requirement with its priority defaults applied.
func (r *PostgresRequirementRepository) Upsert(ctx context.Context, req rolefit.Requirement) error {
	req = req.WithDefaults()
	_, err := r.db.Exec(ctx,
		`INSERT INTO role_soft_skill_requirements
		   (role_id, soft_skill_id, priority, weight, is_required, min_score, target_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (role_id, soft_skill_id) DO UPDATE
		 SET priority = EXCLUDED.priority, weight = EXCLUDED.weight, is_required = EXCLUDED.is_required,
		     min_score = EXCLUDED.min_score, target_score = EXCLUDED.target_score`,
		req.RoleID, req.SoftSkillID, req.Priority, req.Weight, req.IsRequired, req.MinScore, req.TargetScore,
	)
	return translate("upsert requirement", err)
}
