package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrcore/internal/domain"
	"hrcore/internal/domain/employee"
	"hrcore/internal/domain/grading"

	"github.com/google/uuid"
)

func projectionFixture() (*fakeEmployees, uuid.UUID) {
	emp := uuid.New()
	employees := &fakeEmployees{
		profiles: map[uuid.UUID]employee.Profile{emp: {ID: emp, TenantID: "t1", FullName: "Ana"}},
		roles: map[uuid.UUID][]employee.Role{emp: {
			{ID: uuid.New(), EmployeeID: emp, RoleID: i64(1), RoleName: "Software Engineer", SubRoleID: i64(12), SubRoleName: "Frontend Developer", IsCurrent: true},
			{ID: uuid.New(), EmployeeID: emp, RoleID: i64(3), RoleName: "Team Lead", IsCurrent: true},
		}},
		skills: map[uuid.UUID][]employee.Skill{emp: {
			{SkillID: 1, SkillName: "S1", ProficiencyLevel: 4},
			{SkillID: 2, SkillName: "S2", ProficiencyLevel: 3},
			{SkillID: 3, SkillName: "S3", ProficiencyLevel: 5},
			{SkillID: 4, SkillName: "S4", ProficiencyLevel: 2},
			{SkillID: 5, SkillName: "S5", ProficiencyLevel: 1},
			{SkillID: 6, SkillName: "Unrated", ProficiencyLevel: 0},
		}},
		edges: map[edgeKey]*float64{
			{12, 1}: f64(0.90),
			{12, 2}: f64(0.60),
			{12, 4}: f64(0.20),
			{12, 6}: f64(0.99),
		},
	}
	return employees, emp
}

func TestGetEmployeeRoleSkillProjection_Radar(t *testing.T) {
	employees, emp := projectionFixture()
	uc := NewProjectionUsecase(employees, 0, 0, nil)

	got, err := uc.GetEmployeeRoleSkillProjection(context.Background(), ProjectionParams{TenantID: "t1", EmployeeID: emp, Limit: 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("roles without a sub-role are not projected, got %d", len(got))
	}
	p := got[0]
	if p.SubRoleID != 12 || p.DisplayName != "Frontend Developer" {
		t.Fatalf("unexpected projection: %+v", p)
	}
	want := []struct {
		id  int64
		rel grading.Relevance
	}{{1, grading.RelevanceCore}, {2, grading.RelevanceSecondary}, {3, grading.RelevanceNonCore}}
	if len(p.Skills) != len(want) {
		t.Fatalf("expected %d skills, got %d", len(want), len(p.Skills))
	}
	for i, w := range want {
		if p.Skills[i].ID != w.id || p.Skills[i].Relevance != w.rel {
			t.Fatalf("position %d: got (%d,%s), want (%d,%s)", i, p.Skills[i].ID, p.Skills[i].Relevance, w.id, w.rel)
		}
	}
}

func TestGetEmployeeRoleSkillProjection_DefaultsAndThreshold(t *testing.T) {
	employees, emp := projectionFixture()
	uc := NewProjectionUsecase(employees, 0, 0, nil)

	got, err := uc.GetEmployeeRoleSkillProjection(context.Background(), ProjectionParams{TenantID: "t1", EmployeeID: emp, CoreThreshold: 0.5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	skills := got[0].Skills
	if len(skills) != 5 {
		t.Fatalf("zero proficiency must be dropped, got %d skills", len(skills))
	}
	if skills[0].Relevance != grading.RelevanceCore || skills[1].Relevance != grading.RelevanceCore {
		t.Fatalf("a lower threshold promotes both graded skills: %+v", skills[:2])
	}
}

func TestGetEmployeeRoleSkillProjection_Validation(t *testing.T) {
	employees, emp := projectionFixture()
	uc := NewProjectionUsecase(employees, 0, 0, nil)
	ctx := context.Background()

	cases := map[string]ProjectionParams{
		"limit":     {TenantID: "t1", EmployeeID: emp, Limit: 101},
		"negative":  {TenantID: "t1", EmployeeID: emp, Limit: -1},
		"threshold": {TenantID: "t1", EmployeeID: emp, CoreThreshold: 1.5},
	}
	for name, p := range cases {
		if _, err := uc.GetEmployeeRoleSkillProjection(ctx, p); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := uc.GetEmployeeRoleSkillProjection(ctx, ProjectionParams{TenantID: "t2", EmployeeID: emp}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign tenant: expected not found, got %v", err)
	}
}

func TestGetEmployeeSeniority(t *testing.T) {
	employees, emp := projectionFixture()
	uc := NewProjectionUsecase(employees, 0, 0, nil)
	uc.now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	hire := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	p := employees.profiles[emp]
	p.HireDate = &hire
	employees.profiles[emp] = p

	got, err := uc.GetEmployeeSeniority(ctx, "t1", emp)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Source != grading.SourceHireDate || got.Overall != grading.SeniorityMiddle {
		t.Fatalf("expected middle from hire date, got %+v", got)
	}

	roles := employees.roles[emp]
	roles[0].YearsInRole = f64(1.5)
	roles[1].YearsInRole = f64(6)
	got, err = uc.GetEmployeeSeniority(ctx, "t1", emp)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Source != grading.SourceRoles || got.Overall != grading.SenioritySenior || len(got.PerRole) != 2 {
		t.Fatalf("expected senior from years in role, got %+v", got)
	}
}
