package repository

import (
	"context"
	"fmt"

	"hrcore/internal/database"
	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/search"

	"github.com/google/uuid"
)

type SkillSearchOptions struct {
	TenantID string
	// SubRoleID, when set, attaches that sub-role's grading to each row.
	SubRoleID *int64
	Limit     int
	Offset    int
}

// SkillHit is a skill row with the optional grading edge of the requested
// sub-role.
type SkillHit struct {
	Skill   catalog.Skill
	Grading *float64
	Value   *float64
}

type SkillRepository interface {
	// Search lists visible active skills. An empty q lists everything.
	Search(ctx context.Context, q string, opts SkillSearchOptions) ([]SkillHit, error)
	FindNameScope(ctx context.Context, name, tenantID string) (scope string, found bool, err error)
	CreateCustom(ctx context.Context, in catalog.NewCustomSkill) (catalog.Skill, error)
	SoftDeleteCustom(ctx context.Context, id int64, tenantID string) error
	GetGrading(ctx context.Context, subRoleID, skillID int64, tenantID string) (catalog.GradingEdge, error)
	// Gradings returns the edges between the given sub-roles and skills.
	Gradings(ctx context.Context, subRoleIDs, skillIDs []int64) ([]catalog.GradingEdge, error)
	UpsertGlobal(ctx context.Context, s catalog.Skill) (catalog.Skill, error)
	UpsertGrading(ctx context.Context, edge catalog.GradingEdge) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `s.id, s.canonical_name, s.known_name, s.synonyms, s.category, s.tenant_id,
	s.is_custom, s.is_active, s.created_by, s.created_at`

func skillDest(s *catalog.Skill) []any {
	return []any{&s.ID, &s.CanonicalName, &s.KnownName, &s.Synonyms, &s.Category, &s.TenantID,
		&s.IsCustom, &s.IsActive, &s.CreatedBy, &s.CreatedAt}
}

func (r *PostgresSkillRepository) Search(ctx context.Context, q string, opts SkillSearchOptions) ([]SkillHit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	args := []any{opts.TenantID, opts.SubRoleID, limit, offset}
	where := `s.is_active AND ` + visibleTo("s", 1)
	order := `s.is_custom, lower(s.canonical_name) COLLATE "C", s.canonical_name COLLATE "C", s.id`
	if q != "" {
		args = append(args, search.LikePattern(q), q)
		where += ` AND ` + matchPredicate("s", 5)
		order = rankOrder("s", 6)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+`, g.grading, g.value
		 FROM skills s
		 LEFT JOIN sub_role_skills g ON g.skill_id = s.id AND g.sub_role_id = $2::bigint
		 WHERE `+where+`
		 ORDER BY `+order+`
		 LIMIT $3 OFFSET $4`,
		args...,
	)
	if err != nil {
		return nil, translate("search skills", err)
	}
	defer rows.Close()

	out := make([]SkillHit, 0)
	for rows.Next() {
		var h SkillHit
		dest := append(skillDest(&h.Skill), &h.Grading, &h.Value)
		if err := rows.Scan(dest...); err != nil {
			return nil, translate("scan skill", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("search skills", err)
	}
	return out, nil
}

func (r *PostgresSkillRepository) FindNameScope(ctx context.Context, name, tenantID string) (string, bool, error) {
	return findNameScope(ctx, r.db, "skills", " AND is_active", name, tenantID)
}

func (r *PostgresSkillRepository) CreateCustom(ctx context.Context, in catalog.NewCustomSkill) (catalog.Skill, error) {
	synonyms := in.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	tenantID := in.TenantID
	actorID := in.ActorID

	out := catalog.Skill{
		CanonicalName: in.CanonicalName,
		Synonyms:      synonyms,
		Category:      in.Category,
		TenantID:      &tenantID,
		IsCustom:      true,
		IsActive:      true,
	}
	if actorID != uuid.Nil {
		out.CreatedBy = &actorID
	}

	if err := r.db.QueryRow(ctx,
		`INSERT INTO skills (canonical_name, known_name, synonyms, category, tenant_id, is_custom, is_active, created_by)
		 VALUES ($1, '', $2, $3, $4, TRUE, TRUE, $5)
		 RETURNING id, created_at`,
		in.CanonicalName, synonyms, in.Category, tenantID, out.CreatedBy,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return catalog.Skill{}, translateCreate("insert skill", "skill", in.CanonicalName, err)
	}
	return out, nil
}

// SoftDeleteCustom deactivates a tenant's custom skill. Skills are never hard
// deleted because employee and grading rows may still reference them.
func (r *PostgresSkillRepository) SoftDeleteCustom(ctx context.Context, id int64, tenantID string) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var owner *string
		var isCustom, isActive bool
		if err := tx.QueryRow(ctx,
			`SELECT tenant_id, is_custom, is_active FROM skills WHERE id = $1 FOR UPDATE`, id,
		).Scan(&owner, &isCustom, &isActive); err != nil {
			return translate("load skill", err)
		}
		if !isActive {
			return fmt.Errorf("%w: skill %d", domain.ErrNotFound, id)
		}
		if !isCustom || owner == nil || *owner != tenantID {
			return fmt.Errorf("%w: skill %d is not a custom skill of this tenant", domain.ErrAuthorization, id)
		}
		if _, err := tx.Exec(ctx, `UPDATE skills SET is_active = FALSE WHERE id = $1`, id); err != nil {
			return translate("deactivate skill", err)
		}
		return nil
	})
}

// GetGrading returns the edge between a visible sub-role and a visible skill.
// A missing edge yields a nil grading rather than an error.
func (r *PostgresSkillRepository) GetGrading(ctx context.Context, subRoleID, skillID int64, tenantID string) (catalog.GradingEdge, error) {
	edge := catalog.GradingEdge{SubRoleID: subRoleID, SkillID: skillID}
	var value *float64
	err := r.db.QueryRow(ctx,
		`SELECT g.grading, g.value
		 FROM sub_roles sr
		 JOIN skills s ON s.id = $2 AND s.is_active AND `+visibleTo("s", 3)+`
		 LEFT JOIN sub_role_skills g ON g.sub_role_id = sr.id AND g.skill_id = s.id
		 WHERE sr.id = $1 AND `+visibleTo("sr", 3),
		subRoleID, skillID, tenantID,
	).Scan(&edge.Grading, &value)
	if err != nil {
		return catalog.GradingEdge{}, translate("get grading", err)
	}
	if value != nil {
		edge.Value = *value
	}
	return edge, nil
}

func (r *PostgresSkillRepository) Gradings(ctx context.Context, subRoleIDs, skillIDs []int64) ([]catalog.GradingEdge, error) {
	out := make([]catalog.GradingEdge, 0)
	if len(subRoleIDs) == 0 || len(skillIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT sub_role_id, skill_id, grading, value
		 FROM sub_role_skills
		 WHERE sub_role_id = ANY($1::bigint[]) AND skill_id = ANY($2::bigint[])`,
		subRoleIDs, skillIDs,
	)
	if err != nil {
		return nil, translate("list gradings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e catalog.GradingEdge
		if err := rows.Scan(&e.SubRoleID, &e.SkillID, &e.Grading, &e.Value); err != nil {
			return nil, translate("scan grading", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list gradings", err)
	}
	return out, nil
}

func (r *PostgresSkillRepository) UpsertGlobal(ctx context.Context, s catalog.Skill) (catalog.Skill, error) {
	synonyms := s.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	out := s
	out.Synonyms = synonyms
	out.TenantID = nil
	out.IsCustom = false
	out.IsActive = true

	if err := r.db.QueryRow(ctx,
		`INSERT INTO skills (canonical_name, known_name, synonyms, category)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT ((lower(canonical_name)), (COALESCE(tenant_id, '*'))) WHERE is_active DO UPDATE
		 SET known_name = EXCLUDED.known_name, synonyms = EXCLUDED.synonyms, category = EXCLUDED.category
		 RETURNING id, created_at`,
		s.CanonicalName, s.KnownName, synonyms, s.Category,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return catalog.Skill{}, translate("upsert skill", err)
	}
	return out, nil
}

func (r *PostgresSkillRepository) UpsertGrading(ctx context.Context, edge catalog.GradingEdge) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sub_role_skills (sub_role_id, skill_id, grading, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (sub_role_id, skill_id) DO UPDATE
		 SET grading = EXCLUDED.grading, value = EXCLUDED.value`,
		edge.SubRoleID, edge.SkillID, edge.Grading, edge.Value,
	)
	return translate("upsert grading", err)
}
