package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Role is a global catalog entry. Roles are never owned by a tenant.
type Role struct {
	ID            int64
	CanonicalName string
	KnownName     string
	Synonyms      []string
	CreatedAt     time.Time
}

// SubRole is global when TenantID is nil, otherwise a tenant's custom entry.
type SubRole struct {
	ID            int64
	CanonicalName string
	KnownName     string
	Synonyms      []string
	TenantID      *string
	IsCustom      bool
	CreatedBy     *uuid.UUID
	ParentRoleID  int64
	CreatedAt     time.Time
}

func (s SubRole) IsGlobal() bool { return s.TenantID == nil }

type Skill struct {
	ID            int64
	CanonicalName string
	KnownName     string
	Synonyms      []string
	Category      string
	TenantID      *string
	IsCustom      bool
	IsActive      bool
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}

func (s Skill) IsGlobal() bool { return s.TenantID == nil }

// GradingEdge describes how characteristic a skill is of a sub-role.
// A nil Grading is distinct from a zero grading.
type GradingEdge struct {
	SubRoleID int64
	SkillID   int64
	Grading   *float64
	Value     float64
}

type NewCustomSubRole struct {
	TenantID      string
	ActorID       uuid.UUID
	CanonicalName string
	Synonyms      []string
	ParentRoleID  int64
}

type NewCustomSkill struct {
	TenantID      string
	ActorID       uuid.UUID
	CanonicalName string
	Synonyms      []string
	Category      string
}

// VisibleTo reports whether a row owned by ownerTenant is readable by tenantID.
func VisibleTo(ownerTenant *string, tenantID string) bool {
	return ownerTenant == nil || *ownerTenant == tenantID
}
