package repository

import (
	"context"

	"hrcore/internal/database"
	"hrcore/internal/domain/employee"
	"hrcore/internal/domain/grading"

	"github.com/google/uuid"
)

// EmployeeRepository is the read-only employee profile port.
type EmployeeRepository interface {
	FindProfile(ctx context.Context, id uuid.UUID, tenantID string) (employee.Profile, error)
	ListCurrentRoles(ctx context.Context, employeeID uuid.UUID) ([]employee.Role, error)
	// SkillsForSubRole joins the employee's skills with the sub-role's grading.
	SkillsForSubRole(ctx context.Context, employeeID uuid.UUID, subRoleID int64) ([]grading.SkillInput, error)
	// RoleSubRoles resolves employee role ids of the tenant to their sub-role
	// ids. Roles without a sub-role are omitted.
	RoleSubRoles(ctx context.Context, tenantID string, employeeRoleIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type PostgresEmployeeRepository struct {
	db database.DB
}

func NewPostgresEmployeeRepository(db database.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func (r *PostgresEmployeeRepository) FindProfile(ctx context.Context, id uuid.UUID, tenantID string) (employee.Profile, error) {
	var p employee.Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, full_name, hire_date FROM employees WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&p.ID, &p.TenantID, &p.FullName, &p.HireDate)
	if err != nil {
		return employee.Profile{}, translate("find employee", err)
	}
	return p, nil
}

func (r *PostgresEmployeeRepository) ListCurrentRoles(ctx context.Context, employeeID uuid.UUID) ([]employee.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT er.id, er.employee_id, COALESCE(er.role_id, rsr.role_id), COALESCE(r.canonical_name, ''),
		        er.sub_role_id, COALESCE(sr.canonical_name, ''), er.is_current, er.years_in_role
		 FROM employee_roles er
		 LEFT JOIN sub_roles sr ON sr.id = er.sub_role_id
		 LEFT JOIN role_sub_roles rsr ON rsr.sub_role_id = er.sub_role_id
		 LEFT JOIN roles r ON r.id = COALESCE(er.role_id, rsr.role_id)
		 WHERE er.employee_id = $1 AND er.is_current
		 ORDER BY er.created_at, er.id`,
		employeeID,
	)
	if err != nil {
		return nil, translate("list employee roles", err)
	}
	defer rows.Close()

	out := make([]employee.Role, 0)
	for rows.Next() {
		var er employee.Role
		if err := rows.Scan(&er.ID, &er.EmployeeID, &er.RoleID, &er.RoleName,
			&er.SubRoleID, &er.SubRoleName, &er.IsCurrent, &er.YearsInRole); err != nil {
			return nil, translate("scan employee role", err)
		}
		out = append(out, er)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list employee roles", err)
	}
	return out, nil
}

func (r *PostgresEmployeeRepository) SkillsForSubRole(ctx context.Context, employeeID uuid.UUID, subRoleID int64) ([]grading.SkillInput, error) {
	rows, err := r.db.Query(ctx,
		`SELECT es.skill_id, s.canonical_name, es.proficiency_level, g.grading, COALESCE(g.value, 0)
		 FROM employee_skills es
		 JOIN skills s ON s.id = es.skill_id
		 LEFT JOIN sub_role_skills g ON g.skill_id = es.skill_id AND g.sub_role_id = $2
		 WHERE es.employee_id = $1 AND es.proficiency_level > 0
		 ORDER BY s.id`,
		employeeID, subRoleID,
	)
	if err != nil {
		return nil, translate("employee skills for sub-role", err)
	}
	defer rows.Close()

	out := make([]grading.SkillInput, 0)
	for rows.Next() {
		var in grading.SkillInput
		if err := rows.Scan(&in.ID, &in.Name, &in.ProficiencyLevel, &in.Grading, &in.Value); err != nil {
			return nil, translate("scan graded skill", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("employee skills for sub-role", err)
	}
	return out, nil
}

func (r *PostgresEmployeeRepository) RoleSubRoles(ctx context.Context, tenantID string, employeeRoleIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	if len(employeeRoleIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT er.id, er.sub_role_id
		 FROM employee_roles er
		 JOIN employees e ON e.id = er.employee_id
		 WHERE er.id = ANY($1::uuid[]) AND e.tenant_id = $2 AND er.sub_role_id IS NOT NULL`,
		employeeRoleIDs, tenantID,
	)
	if err != nil {
		return nil, translate("resolve employee roles", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var subRoleID int64
		if err := rows.Scan(&id, &subRoleID); err != nil {
			return nil, translate("scan employee role", err)
		}
		out[id] = subRoleID
	}
	if err := rows.Err(); err != nil {
		return nil, translate("resolve employee roles", err)
	}
	return out, nil
}
