package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/domain/employee"
	"hrcore/internal/domain/rolefit"
	"hrcore/internal/domain/softskill"

	"github.com/google/uuid"
)

func roleFitFixture() (*RoleFit, *fakeSoftSkills, *fakeRequirements, uuid.UUID) {
	emp := uuid.New()
	roles := &fakeRoles{roles: []catalog.Role{{ID: 7, CanonicalName: "Product Manager"}}}
	reqs := &fakeRequirements{byRole: map[int64][]rolefit.Requirement{7: {
		{RoleID: 7, SoftSkillID: 2, SoftSkillCode: "B", Priority: 3, Weight: 1, TargetScore: intp(60)},
		{RoleID: 7, SoftSkillID: 1, SoftSkillCode: "A", Priority: 1, Weight: 1, TargetScore: intp(80)},
	}}}
	employees := &fakeEmployees{profiles: map[uuid.UUID]employee.Profile{emp: {ID: emp, TenantID: "t1"}}}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	softSkills := &fakeSoftSkills{scores: []softskill.Score{
		{ID: 1, EmployeeID: emp, SoftSkillID: 1, NormalizedScore: 40, CalculatedAt: base},
		{ID: 2, EmployeeID: emp, SoftSkillID: 1, NormalizedScore: 72, CalculatedAt: base.Add(time.Hour)},
		{ID: 3, EmployeeID: emp, SoftSkillID: 2, NormalizedScore: 65, CalculatedAt: base},
	}, nextID: 3}

	return NewRoleFitUsecase(roles, reqs, employees, softSkills, nil), softSkills, reqs, emp
}

func TestGetRoleFit_Gaps(t *testing.T) {
	uc, _, _, emp := roleFitFixture()

	got, err := uc.GetRoleFit(context.Background(), "t1", emp, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.OverallFitScore != 95 || got.Role.CanonicalName != "Product Manager" {
		t.Fatalf("unexpected report: %+v", got)
	}
	a, b := got.Gaps[0], got.Gaps[1]
	if a.SoftSkillCode != "A" || a.CurrentScore != 72 || a.Gap != 8 || a.Status != rolefit.StatusClose {
		t.Fatalf("latest score must be used: %+v", a)
	}
	if b.SoftSkillCode != "B" || b.Gap != -5 || b.Status != rolefit.StatusAchieved {
		t.Fatalf("unexpected gap: %+v", b)
	}
}

func TestGetRoleFit_ImprovingScoreNeverLowersFit(t *testing.T) {
	uc, softSkills, _, emp := roleFitFixture()
	ctx := context.Background()

	prev := -1
	for i, score := range []int{65, 70, 90, 100} {
		softSkills.scores = append(softSkills.scores, softskill.Score{
			ID: int64(10 + i), EmployeeID: emp, SoftSkillID: 2, NormalizedScore: score,
			CalculatedAt: time.Date(2026, 4, 1, i, 0, 0, 0, time.UTC),
		})
		got, err := uc.GetRoleFit(ctx, "t1", emp, 7)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got.OverallFitScore < prev {
			t.Fatalf("fit dropped from %d to %d at score %d", prev, got.OverallFitScore, score)
		}
		prev = got.OverallFitScore
	}
}

func TestGetRoleFit_NoRequirementsAndErrors(t *testing.T) {
	uc, _, reqs, emp := roleFitFixture()
	ctx := context.Background()

	reqs.byRole[7] = nil
	got, err := uc.GetRoleFit(ctx, "t1", emp, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.OverallFitScore != 0 || len(got.Gaps) != 0 {
		t.Fatalf("expected empty report, got %+v", got)
	}

	if _, err := uc.GetRoleFit(ctx, "t1", emp, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown role: expected not found, got %v", err)
	}
	if _, err := uc.GetRoleFit(ctx, "t2", emp, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign tenant: expected not found, got %v", err)
	}
	if _, err := uc.GetRoleFit(ctx, "", emp, 7); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("missing tenant: expected authorization error, got %v", err)
	}
}

func TestGetRoleSkillRequirements(t *testing.T) {
	uc, _, reqs, _ := roleFitFixture()
	reqs.byRole[7] = append(reqs.byRole[7],
		rolefit.Requirement{RoleID: 7, SoftSkillID: 3, Priority: 2},
		rolefit.Requirement{RoleID: 7, SoftSkillID: 4, Priority: 6, Weight: 0.5},
	)

	got, err := uc.GetRoleSkillRequirements(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Critical) != 2 || len(got.Important) != 1 || len(got.Supportive) != 1 {
		t.Fatalf("unexpected tiers: %d/%d/%d", len(got.Critical), len(got.Important), len(got.Supportive))
	}
	c := got.Critical[1]
	if c.SoftSkillID != 3 || *c.MinScore != 50 || *c.TargetScore != 80 || c.Weight != 1 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	s := got.Supportive[0]
	if *s.MinScore != 40 || *s.TargetScore != 60 || s.Weight != 0.5 {
		t.Fatalf("unexpected supportive requirement: %+v", s)
	}

	if _, err := uc.GetRoleSkillRequirements(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRoleFitAndRequirementsAgreeOnDefaultTarget(t *testing.T) {
	uc, softSkills, reqs, emp := roleFitFixture()
	ctx := context.Background()
	reqs.byRole[7] = []rolefit.Requirement{
		{RoleID: 7, SoftSkillID: 3, SoftSkillCode: "C", Priority: 1},
		{RoleID: 7, SoftSkillID: 4, SoftSkillCode: "D", Priority: 4},
	}
	softSkills.scores = append(softSkills.scores,
		softskill.Score{ID: 20, EmployeeID: emp, SoftSkillID: 3, NormalizedScore: 75, CalculatedAt: time.Now()},
		softskill.Score{ID: 21, EmployeeID: emp, SoftSkillID: 4, NormalizedScore: 65, CalculatedAt: time.Now()},
	)

	listed, err := uc.GetRoleSkillRequirements(ctx, 7)
	if err != nil {
		t.Fatalf("requirements: %v", err)
	}
	fit, err := uc.GetRoleFit(ctx, "t1", emp, 7)
	if err != nil {
		t.Fatalf("role fit: %v", err)
	}

	targets := map[int64]int{}
	for _, r := range append(listed.Critical, listed.Important...) {
		targets[r.SoftSkillID] = *r.TargetScore
	}
	if targets[3] != 80 || targets[4] != 60 {
		t.Fatalf("unexpected listed targets: %v", targets)
	}
	for _, g := range fit.Gaps {
		if g.Target != targets[g.SoftSkillID] {
			t.Fatalf("soft skill %d: fit target %d, listed target %d", g.SoftSkillID, g.Target, targets[g.SoftSkillID])
		}
	}
	c, d := fit.Gaps[0], fit.Gaps[1]
	if c.Gap != 5 || c.Status != rolefit.StatusClose || d.Gap != -5 || d.Status != rolefit.StatusAchieved {
		t.Fatalf("unexpected gaps: %+v / %+v", c, d)
	}
}
