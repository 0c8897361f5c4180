package repository

import (
	"context"

	"hrcore/internal/database"
	"hrcore/internal/domain/catalog"
)

type RoleRepository interface {
	List(ctx context.Context) ([]catalog.Role, error)
	FindByID(ctx context.Context, id int64) (catalog.Role, error)
	Upsert(ctx context.Context, role catalog.Role) (catalog.Role, error)
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

const roleColumns = `id, canonical_name, known_name, synonyms, created_at`

func scanRole(row database.Row) (catalog.Role, error) {
	var r catalog.Role
	err := row.Scan(&r.ID, &r.CanonicalName, &r.KnownName, &r.Synonyms, &r.CreatedAt)
	return r, err
}

func (r *PostgresRoleRepository) List(ctx context.Context) ([]catalog.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY lower(canonical_name) COLLATE "C", id`)
	if err != nil {
		return nil, translate("list roles", err)
	}
	defer rows.Close()

	out := make([]catalog.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, translate("scan role", err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list roles", err)
	}
	return out, nil
}

func (r *PostgresRoleRepository) FindByID(ctx context.Context, id int64) (catalog.Role, error) {
	role, err := scanRole(r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		return catalog.Role{}, translate("find role", err)
	}
	return role, nil
}

// Upsert is used by the seeder; roles are immutable at runtime.
func (r *PostgresRoleRepository) Upsert(ctx context.Context, role catalog.Role) (catalog.Role, error) {
	synonyms := role.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	out, err := scanRole(r.db.QueryRow(ctx,
		`INSERT INTO roles (canonical_name, known_name, synonyms)
		 VALUES ($1, $2, $3)
		 ON CONFLICT ((lower(canonical_name))) DO UPDATE
		 SET known_name = EXCLUDED.known_name, synonyms = EXCLUDED.synonyms
		 RETURNING `+roleColumns,
		role.CanonicalName, role.KnownName, synonyms,
	))
	if err != nil {
		return catalog.Role{}, translate("upsert role", err)
	}
	return out, nil
}
