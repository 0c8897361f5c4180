package repository

import (
	"context"

	"hrcore/internal/database"
	"hrcore/internal/domain/softskill"

	"github.com/google/uuid"
)

type SoftSkillRepository interface {
	List(ctx context.Context) ([]softskill.SoftSkill, error)
	Upsert(ctx context.Context, s softskill.SoftSkill) (softskill.SoftSkill, error)

	// InsertScores appends one row per score in a single transaction and
	// fills in the generated ids.
	InsertScores(ctx context.Context, scores []softskill.Score) ([]softskill.Score, error)
	// Latest returns the effective score per soft skill keyed by soft skill id.
	Latest(ctx context.Context, employeeID uuid.UUID) (map[int64]softskill.Score, error)
	// RecentScores returns up to depth normalized scores per soft skill,
	// newest first.
	RecentScores(ctx context.Context, employeeID uuid.UUID, depth int) (map[int64][]int, error)
	// Distributions counts the tenant's stored scores per soft skill.
	Distributions(ctx context.Context, tenantID string) (map[int64]softskill.Distribution, error)
	// ByAssessments returns the scores written by each assessment, keyed by
	// assessment id then soft skill id.
	ByAssessments(ctx context.Context, employeeID uuid.UUID, assessmentIDs []uuid.UUID) (map[uuid.UUID]map[int64]softskill.Score, error)
}

type PostgresSoftSkillRepository struct {
	db database.DB
}

func NewPostgresSoftSkillRepository(db database.DB) *PostgresSoftSkillRepository {
	return &PostgresSoftSkillRepository{db: db}
}

func (r *PostgresSoftSkillRepository) List(ctx context.Context) ([]softskill.SoftSkill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, category, priority FROM soft_skills ORDER BY priority, id`)
	if err != nil {
		return nil, translate("list soft skills", err)
	}
	defer rows.Close()

	out := make([]softskill.SoftSkill, 0)
	for rows.Next() {
		var s softskill.SoftSkill
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Category, &s.Priority); err != nil {
			return nil, translate("scan soft skill", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list soft skills", err)
	}
	return out, nil
}

func (r *PostgresSoftSkillRepository) Upsert(ctx context.Context, s softskill.SoftSkill) (softskill.SoftSkill, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO soft_skills (code, name, category, priority)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (code) DO UPDATE
		 SET name = EXCLUDED.name, category = EXCLUDED.category, priority = EXCLUDED.priority
		 RETURNING id`,
		s.Code, s.Name, s.Category, s.Priority,
	).Scan(&s.ID)
	if err != nil {
		return softskill.SoftSkill{}, translate("upsert soft skill", err)
	}
	return s, nil
}

func (r *PostgresSoftSkillRepository) InsertScores(ctx context.Context, scores []softskill.Score) ([]softskill.Score, error) {
	out := make([]softskill.Score, len(scores))
	copy(out, scores)

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for i := range out {
			s := &out[i]
			if err := tx.QueryRow(ctx,
				`INSERT INTO soft_skill_scores
				   (employee_id, soft_skill_id, assessment_id, raw_score, normalized_score,
				    percentile, level, confidence, calculated_at, score_details)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				 RETURNING id`,
				s.EmployeeID, s.SoftSkillID, s.AssessmentID, s.RawScore, s.NormalizedScore,
				s.Percentile, string(s.Level), s.Confidence, s.CalculatedAt, s.Details,
			).Scan(&s.ID); err != nil {
				return translate("insert soft skill score", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const scoreColumns = `s.id, s.employee_id, s.soft_skill_id, ss.code, ss.name, s.assessment_id, s.raw_score,
	s.normalized_score, s.percentile, s.level, s.confidence, s.calculated_at`

func scanScore(row database.Row) (softskill.Score, error) {
	var s softskill.Score
	var level string
	err := row.Scan(&s.ID, &s.EmployeeID, &s.SoftSkillID, &s.SoftSkillCode, &s.SoftSkillName, &s.AssessmentID,
		&s.RawScore, &s.NormalizedScore, &s.Percentile, &level, &s.Confidence, &s.CalculatedAt)
	s.Level = softskill.Level(level)
	return s, err
}

func (r *PostgresSoftSkillRepository) Latest(ctx context.Context, employeeID uuid.UUID) (map[int64]softskill.Score, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT ON (s.soft_skill_id) `+scoreColumns+`
		 FROM soft_skill_scores s
		 JOIN soft_skills ss ON ss.id = s.soft_skill_id
		 WHERE s.employee_id = $1
		 ORDER BY s.soft_skill_id, s.calculated_at DESC, s.id DESC`,
		employeeID,
	)
	if err != nil {
		return nil, translate("latest soft skill scores", err)
	}
	defer rows.Close()

	out := make(map[int64]softskill.Score)
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, translate("scan soft skill score", err)
		}
		out[s.SoftSkillID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, translate("latest soft skill scores", err)
	}
	return out, nil
}

func (r *PostgresSoftSkillRepository) RecentScores(ctx context.Context, employeeID uuid.UUID, depth int) (map[int64][]int, error) {
	if depth <= 0 {
		depth = 2
	}
	rows, err := r.db.Query(ctx,
		`SELECT soft_skill_id, normalized_score
		 FROM (
		   SELECT soft_skill_id, normalized_score,
		          row_number() OVER (PARTITION BY soft_skill_id ORDER BY calculated_at DESC, id DESC) AS rn
		   FROM soft_skill_scores
		   WHERE employee_id = $1
		 ) ranked
		 WHERE rn <= $2
		 ORDER BY soft_skill_id, rn`,
		employeeID, depth,
	)
	if err != nil {
		return nil, translate("recent soft skill scores", err)
	}
	defer rows.Close()

	out := make(map[int64][]int)
	for rows.Next() {
		var id int64
		var score int
		if err := rows.Scan(&id, &score); err != nil {
			return nil, translate("scan recent score", err)
		}
		out[id] = append(out[id], score)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("recent soft skill scores", err)
	}
	return out, nil
}

func (r *PostgresSoftSkillRepository) Distributions(ctx context.Context, tenantID string) (map[int64]softskill.Distribution, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.soft_skill_id, s.normalized_score, count(*)
		 FROM soft_skill_scores s
		 JOIN employees e ON e.id = s.employee_id
		 WHERE e.tenant_id = $1
		 GROUP BY s.soft_skill_id, s.normalized_score`,
		tenantID,
	)
	if err != nil {
		return nil, translate("score distributions", err)
	}
	defer rows.Close()

	out := make(map[int64]softskill.Distribution)
	for rows.Next() {
		var id int64
		var score, n int
		if err := rows.Scan(&id, &score, &n); err != nil {
			return nil, translate("scan distribution", err)
		}
		d, ok := out[id]
		if !ok {
			d = softskill.Distribution{}
			out[id] = d
		}
		d[score] = n
	}
	if err := rows.Err(); err != nil {
		return nil, translate("score distributions", err)
	}
	return out, nil
}

func (r *PostgresSoftSkillRepository) ByAssessments(ctx context.Context, employeeID uuid.UUID, assessmentIDs []uuid.UUID) (map[uuid.UUID]map[int64]softskill.Score, error) {
	out := make(map[uuid.UUID]map[int64]softskill.Score)
	if len(assessmentIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT ON (s.assessment_id, s.soft_skill_id) `+scoreColumns+`
		 FROM soft_skill_scores s
		 JOIN soft_skills ss ON ss.id = s.soft_skill_id
		 WHERE s.employee_id = $1 AND s.assessment_id = ANY($2::uuid[])
		 ORDER BY s.assessment_id, s.soft_skill_id, s.calculated_at DESC, s.id DESC`,
		employeeID, assessmentIDs,
	)
	if err != nil {
		return nil, translate("scores by assessment", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, translate("scan soft skill score", err)
		}
		m, ok := out[s.AssessmentID]
		if !ok {
			m = make(map[int64]softskill.Score)
			out[s.AssessmentID] = m
		}
		m[s.SoftSkillID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, translate("scores by assessment", err)
	}
	return out, nil
}
