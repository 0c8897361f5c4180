package employee

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the read-only slice of the employee record the core needs.
type Profile struct {
	ID       uuid.UUID
	TenantID string
	FullName string
	HireDate *time.Time
}

type Role struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	RoleID      *int64
	RoleName    string
	SubRoleID   *int64
	SubRoleName string
	IsCurrent   bool
	YearsInRole *float64
}

// DisplayName prefers the sub-role name, then the role name.
func (r Role) DisplayName() string {
	if r.SubRoleName != "" {
		return r.SubRoleName
	}
	return r.RoleName
}

type Skill struct {
	EmployeeID       uuid.UUID
	SkillID          int64
	SkillName        string
	ProficiencyLevel int
}
