package repository

import (
	"context"
	"fmt"
	"strings"

	"hrcore/internal/database"
	"hrcore/internal/database/postgres"
	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/search"

	"github.com/google/uuid"
)

type SubRoleSearchOptions struct {
	TenantID     string
	ParentRoleID *int64
	Limit        int
}

type SubRoleRepository interface {
	FindByID(ctx context.Context, id int64, tenantID string) (catalog.SubRole, error)
	List(ctx context.Context, parentRoleID *int64, tenantID string) ([]catalog.SubRole, error)
	// Search returns visible rows matching the normalized query q, already in
	// ranking order.
	Search(ctx context.Context, q string, opts SubRoleSearchOptions) ([]catalog.SubRole, error)
	// FindNameScope reports which visible scope already holds name.
	FindNameScope(ctx context.Context, name, tenantID string) (scope string, found bool, err error)
	CreateCustom(ctx context.Context, in catalog.NewCustomSubRole) (catalog.SubRole, error)
	DeleteCustom(ctx context.Context, id int64, tenantID string) error
	UpsertGlobal(ctx context.Context, sr catalog.SubRole) (catalog.SubRole, error)
}

type PostgresSubRoleRepository struct {
	db database.DB
}

func NewPostgresSubRoleRepository(db database.DB) *PostgresSubRoleRepository {
	return &PostgresSubRoleRepository{db: db}
}

const subRoleSelect = `SELECT sr.id, sr.canonical_name, sr.known_name, sr.synonyms, sr.tenant_id,
	sr.is_custom, sr.created_by, COALESCE(rsr.role_id, 0), sr.created_at
	FROM sub_roles sr
	LEFT JOIN role_sub_roles rsr ON rsr.sub_role_id = sr.id`

// visibleTo is the tenant visibility predicate shared by every catalog read.
func visibleTo(alias string, param int) string {
	return fmt.Sprintf("(%s.tenant_id IS NULL OR %s.tenant_id = $%d)", alias, alias, param)
}

// matchPredicate mirrors search.MatchCandidate; $param holds a LIKE pattern.
func matchPredicate(alias string, param int) string {
	return fmt.Sprintf(`(lower(%[1]s.canonical_name) LIKE $%[2]d ESCAPE '\'
		OR lower(%[1]s.known_name) LIKE $%[2]d ESCAPE '\'
		OR EXISTS (SELECT 1 FROM unnest(%[1]s.synonyms) AS syn WHERE lower(syn) LIKE $%[2]d ESCAPE '\'))`, alias, param)
}

// rankOrder mirrors search.Less; $param holds the normalized query.
func rankOrder(alias string, param int) string {
	return fmt.Sprintf(`CASE
			WHEN lower(%[1]s.canonical_name) = $%[2]d THEN %[3]d
			WHEN %[1]s.known_name <> '' AND lower(%[1]s.known_name) = $%[2]d THEN %[4]d
			ELSE %[5]d
		END,
		%[1]s.is_custom,
		lower(%[1]s.canonical_name) COLLATE "C",
		%[1]s.canonical_name COLLATE "C",
		%[1]s.id`, alias, param, search.KindExactName, search.KindExactKnownName, search.KindPartial)
}

func scanSubRole(row database.Row) (catalog.SubRole, error) {
	var sr catalog.SubRole
	err := row.Scan(&sr.ID, &sr.CanonicalName, &sr.KnownName, &sr.Synonyms, &sr.TenantID,
		&sr.IsCustom, &sr.CreatedBy, &sr.ParentRoleID, &sr.CreatedAt)
	return sr, err
}

func collectSubRoles(rows database.Rows, op string) ([]catalog.SubRole, error) {
	defer rows.Close()
	out := make([]catalog.SubRole, 0)
	for rows.Next() {
		sr, err := scanSubRole(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return out, nil
}

func (r *PostgresSubRoleRepository) FindByID(ctx context.Context, id int64, tenantID string) (catalog.SubRole, error) {
	sr, err := scanSubRole(r.db.QueryRow(ctx,
		subRoleSelect+` WHERE sr.id = $1 AND `+visibleTo("sr", 2),
		id, tenantID,
	))
	if err != nil {
		return catalog.SubRole{}, translate("find sub-role", err)
	}
	return sr, nil
}

func (r *PostgresSubRoleRepository) List(ctx context.Context, parentRoleID *int64, tenantID string) ([]catalog.SubRole, error) {
	rows, err := r.db.Query(ctx,
		subRoleSelect+` WHERE `+visibleTo("sr", 1)+`
		 AND ($2::bigint IS NULL OR rsr.role_id = $2)
		 ORDER BY sr.is_custom, lower(sr.canonical_name) COLLATE "C", sr.id`,
		tenantID, parentRoleID,
	)
	if err != nil {
		return nil, translate("list sub-roles", err)
	}
	return collectSubRoles(rows, "list sub-roles")
}

func (r *PostgresSubRoleRepository) Search(ctx context.Context, q string, opts SubRoleSearchOptions) ([]catalog.SubRole, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	rows, err := r.db.Query(ctx,
		subRoleSelect+` WHERE `+visibleTo("sr", 1)+`
		 AND ($2::bigint IS NULL OR rsr.role_id = $2)
		 AND `+matchPredicate("sr", 3)+`
		 ORDER BY `+rankOrder("sr", 4)+`
		 LIMIT $5`,
		opts.TenantID, opts.ParentRoleID, search.LikePattern(q), q, limit,
	)
	if err != nil {
		return nil, translate("search sub-roles", err)
	}
	return collectSubRoles(rows, "search sub-roles")
}

func (r *PostgresSubRoleRepository) FindNameScope(ctx context.Context, name, tenantID string) (string, bool, error) {
	return findNameScope(ctx, r.db, "sub_roles", "", name, tenantID)
}

// findNameScope looks for a visible row with the same case-insensitive name.
// A global hit wins over a tenant hit.
func findNameScope(ctx context.Context, q database.Querier, table, extra, name, tenantID string) (string, bool, error) {
	var owner *string
	err := q.QueryRow(ctx,
		`SELECT tenant_id FROM `+table+`
		 WHERE lower(canonical_name) = lower($1) AND (tenant_id IS NULL OR tenant_id = $2)`+extra+`
		 ORDER BY tenant_id NULLS FIRST
		 LIMIT 1`,
		strings.TrimSpace(name), tenantID,
	).Scan(&owner)
	if err != nil {
		if postgres.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, translate("check "+table+" name", err)
	}
	return scopeOf(owner), true, nil
}

// CreateCustom inserts the sub-role and its parent link in one transaction.
func (r *PostgresSubRoleRepository) CreateCustom(ctx context.Context, in catalog.NewCustomSubRole) (catalog.SubRole, error) {
	synonyms := in.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	tenantID := in.TenantID
	actorID := in.ActorID

	out := catalog.SubRole{
		CanonicalName: in.CanonicalName,
		Synonyms:      synonyms,
		TenantID:      &tenantID,
		IsCustom:      true,
		ParentRoleID:  in.ParentRoleID,
	}
	if actorID != uuid.Nil {
		out.CreatedBy = &actorID
	}

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO sub_roles (canonical_name, known_name, synonyms, tenant_id, is_custom, created_by)
			 VALUES ($1, '', $2, $3, TRUE, $4)
			 RETURNING id, created_at`,
			in.CanonicalName, synonyms, tenantID, out.CreatedBy,
		).Scan(&out.ID, &out.CreatedAt); err != nil {
			return translateCreate("insert sub-role", "sub-role", in.CanonicalName, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO role_sub_roles (sub_role_id, role_id) VALUES ($1, $2)`,
			out.ID, in.ParentRoleID,
		); err != nil {
			if postgres.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: parent role %d", domain.ErrNotFound, in.ParentRoleID)
			}
			return translate("link sub-role", err)
		}
		return nil
	})
	if err != nil {
		return catalog.SubRole{}, err
	}
	return out, nil
}

// DeleteCustom removes a tenant's custom sub-role and its parent link in one
// transaction. Global rows and rows of other tenants are not deletable.
func (r *PostgresSubRoleRepository) DeleteCustom(ctx context.Context, id int64, tenantID string) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var owner *string
		var isCustom bool
		if err := tx.QueryRow(ctx,
			`SELECT tenant_id, is_custom FROM sub_roles WHERE id = $1 FOR UPDATE`, id,
		).Scan(&owner, &isCustom); err != nil {
			return translate("load sub-role", err)
		}
		if !isCustom || owner == nil || *owner != tenantID {
			return fmt.Errorf("%w: sub-role %d is not a custom sub-role of this tenant", domain.ErrAuthorization, id)
		}

		var referenced bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM employee_roles WHERE sub_role_id = $1)`, id,
		).Scan(&referenced); err != nil {
			return translate("check sub-role references", err)
		}
		if referenced {
			return fmt.Errorf("%w: sub-role %d is assigned to employees", domain.ErrConflict, id)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM role_sub_roles WHERE sub_role_id = $1`, id); err != nil {
			return translate("unlink sub-role", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sub_roles WHERE id = $1`, id); err != nil {
			return translate("delete sub-role", err)
		}
		return nil
	})
}

// UpsertGlobal is used by the seeder to maintain the shared catalog.
func (r *PostgresSubRoleRepository) UpsertGlobal(ctx context.Context, sr catalog.SubRole) (catalog.SubRole, error) {
	synonyms := sr.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	out := sr
	out.Synonyms = synonyms
	out.TenantID = nil
	out.IsCustom = false

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO sub_roles (canonical_name, known_name, synonyms)
			 VALUES ($1, $2, $3)
			 ON CONFLICT ((lower(canonical_name)), (COALESCE(tenant_id, '*'))) DO UPDATE
			 SET known_name = EXCLUDED.known_name, synonyms = EXCLUDED.synonyms
			 RETURNING id, created_at`,
			sr.CanonicalName, sr.KnownName, synonyms,
		).Scan(&out.ID, &out.CreatedAt); err != nil {
			return translate("upsert sub-role", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_sub_roles (sub_role_id, role_id) VALUES ($1, $2)
			 ON CONFLICT (sub_role_id) DO UPDATE SET role_id = EXCLUDED.role_id`,
			out.ID, sr.ParentRoleID,
		); err != nil {
			return translate("link sub-role", err)
		}
		return nil
	})
	if err != nil {
		return catalog.SubRole{}, err
	}
	return out, nil
}
