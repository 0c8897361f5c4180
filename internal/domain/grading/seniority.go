package grading

import "time"

type Seniority string

const (
	SeniorityJunior Seniority = "Junior"
	SeniorityMiddle Seniority = "Middle"
	SenioritySenior Seniority = "Senior"
)

func (s Seniority) rank() int {
	switch s {
	case SenioritySenior:
		return 3
	case SeniorityMiddle:
		return 2
	case SeniorityJunior:
		return 1
	default:
		return 0
	}
}

type SenioritySource string

const (
	SourceRoles    SenioritySource = "years_in_role"
	SourceHireDate SenioritySource = "hire_date"
	SourceUnknown  SenioritySource = "unknown"
)

func SeniorityFromYears(years float64) Seniority {
	switch {
	case years >= 5:
		return SenioritySenior
	case years >= 2:
		return SeniorityMiddle
	default:
		return SeniorityJunior
	}
}

// RoleTenure is the years an employee has spent in one current role.
type RoleTenure struct {
	RoleID      *int64
	SubRoleID   *int64
	YearsInRole *float64
}

type RoleSeniority struct {
	RoleID    *int64
	SubRoleID *int64
	Years     float64
	Level     Seniority
}

type SeniorityResult struct {
	Overall Seniority
	Source  SenioritySource
	PerRole []RoleSeniority
}

// DeriveSeniority takes the maximum seniority across roles that carry
// years in role, falling back to years since hire.
func DeriveSeniority(roles []RoleTenure, hireDate *time.Time, now time.Time) SeniorityResult {
	res := SeniorityResult{PerRole: []RoleSeniority{}}
	for _, r := range roles {
		if r.YearsInRole == nil {
			continue
		}
		lvl := SeniorityFromYears(*r.YearsInRole)
		res.PerRole = append(res.PerRole, RoleSeniority{
			RoleID:    r.RoleID,
			SubRoleID: r.SubRoleID,
			Years:     *r.YearsInRole,
			Level:     lvl,
		})
		if lvl.rank() > res.Overall.rank() {
			res.Overall = lvl
		}
	}
	if len(res.PerRole) > 0 {
		res.Source = SourceRoles
		return res
	}

	if hireDate != nil && !hireDate.IsZero() {
		years := now.Sub(*hireDate).Hours() / (24 * 365.25)
		if years < 0 {
			years = 0
		}
		res.Overall = SeniorityFromYears(years)
		res.Source = SourceHireDate
		return res
	}

	res.Overall = SeniorityJunior
	res.Source = SourceUnknown
	return res
}
