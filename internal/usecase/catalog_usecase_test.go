package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/search"

	"github.com/google/uuid"
)

func catalogFixture() (*fakeSubRoles, *fakeSkills, *fakeEmployees) {
	subRoles := &fakeSubRoles{nextID: 100, rows: []catalog.SubRole{
		{ID: 12, CanonicalName: "Frontend Developer", Synonyms: []string{"Front-end Developer", "FE Dev"}, ParentRoleID: 1},
		{ID: 13, CanonicalName: "Backend Developer", KnownName: "Server-side Developer", ParentRoleID: 1},
		{ID: 14, CanonicalName: "Developer", ParentRoleID: 1},
		{ID: 50, CanonicalName: "Developer Advocate", TenantID: str("t1"), IsCustom: true, ParentRoleID: 2},
		{ID: 51, CanonicalName: "Developer Relations", TenantID: str("t2"), IsCustom: true, ParentRoleID: 2},
	}}
	skills := &fakeSkills{nextID: 200, rows: []catalog.Skill{
		{ID: 1, CanonicalName: "Go", Synonyms: []string{"Golang"}, IsActive: true},
		{ID: 2, CanonicalName: "PostgreSQL", Synonyms: []string{"Postgres"}, IsActive: true},
		{ID: 3, CanonicalName: "Kotlin", IsActive: true},
		{ID: 4, CanonicalName: "Internal DSL", TenantID: str("t2"), IsCustom: true, IsActive: true},
	}, edges: map[edgeKey]*float64{
		{13, 1}: f64(0.9),
		{13, 2}: f64(0.7),
		{12, 2}: f64(0.7),
		{12, 3}: f64(0.4),
	}}
	employees := &fakeEmployees{roleSubRoles: map[uuid.UUID]int64{}}
	return subRoles, skills, employees
}

func newCatalog(subRoles *fakeSubRoles, skills *fakeSkills, employees *fakeEmployees, cache SearchCache) *Catalog {
	roles := &fakeRoles{roles: []catalog.Role{{ID: 1, CanonicalName: "Software Engineer"}, {ID: 2, CanonicalName: "Developer Relations"}}}
	return NewCatalogUsecase(roles, subRoles, skills, employees, cache, nil)
}

func TestSearchSubRoles_SynonymMatch(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)

	got, err := uc.SearchSubRoles(context.Background(), SubRoleSearchParams{TenantID: "t1", Query: "fe dev"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].SubRole.ID != 12 || got[0].MatchedOn != search.MatchedOnSynonym || got[0].MatchedSynonym != "FE Dev" {
		t.Fatalf("unexpected match: %+v", got[0])
	}
}

func TestSearchSubRoles_TenantVisibilityAndRanking(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)

	got, err := uc.SearchSubRoles(context.Background(), SubRoleSearchParams{TenantID: "t1", Query: "  Developer "})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ids := make([]int64, 0, len(got))
	for _, m := range got {
		if m.SubRole.TenantID != nil && *m.SubRole.TenantID != "t1" {
			t.Fatalf("foreign tenant row leaked: %+v", m.SubRole)
		}
		ids = append(ids, m.SubRole.ID)
	}
	// exact name first, then globals by name, then the tenant's custom row
	want := []int64{14, 13, 12, 50}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	if subRoles.lastTenant != "t1" {
		t.Fatalf("tenant not forwarded to the store")
	}

	again, _ := uc.SearchSubRoles(context.Background(), SubRoleSearchParams{TenantID: "t1", Query: "developer"})
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("ranking is not deterministic")
	}
}

func TestSearchSubRoles_Validation(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)
	ctx := context.Background()

	if _, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{TenantID: "t1", Query: "a"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short query: expected validation error, got %v", err)
	}
	if _, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{TenantID: "t1", Query: "dev", Limit: intp(0)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("limit 0: expected validation error, got %v", err)
	}
	got, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{TenantID: "t1", Query: "dev", Limit: intp(500)})
	if err != nil || len(got) == 0 {
		t.Fatalf("large limit must clamp, got err=%v", err)
	}
	if _, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{Query: "dev"}); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("missing tenant: expected authorization error, got %v", err)
	}
}

func TestSearchSubRoles_ParentFilterAndLimit(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)

	got, err := uc.SearchSubRoles(context.Background(), SubRoleSearchParams{TenantID: "t1", Query: "developer", ParentRoleID: i64(1), Limit: intp(2)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].SubRole.ID != 14 || got[1].SubRole.ID != 13 {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestSearchSubRoles_UsesCache(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	cache := newFakeCache()
	uc := newCatalog(subRoles, skills, employees, cache)
	ctx := context.Background()

	first, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{TenantID: "t1", Query: "fe dev"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{TenantID: "t1", Query: "FE DEV"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if subRoles.searchCalls != 1 {
		t.Fatalf("expected one store search, got %d", subRoles.searchCalls)
	}
	if second[0].SubRole.ID != first[0].SubRole.ID || second[0].MatchedSynonym != "FE Dev" {
		t.Fatalf("cached result differs: %+v", second)
	}

	if _, err := uc.SearchSubRoles(ctx, SubRoleSearchParams{TenantID: "t2", Query: "fe dev"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if subRoles.searchCalls != 2 {
		t.Fatalf("cache must be tenant scoped")
	}
}

func TestSearchSkills_GradingAndMaxSource(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	backend, frontend := uuid.New(), uuid.New()
	employees.roleSubRoles[backend] = 13
	employees.roleSubRoles[frontend] = 12
	uc := newCatalog(subRoles, skills, employees, nil)

	got, err := uc.SearchSkills(context.Background(), SkillSearchParams{
		TenantID:        "t1",
		SubRoleID:       i64(12),
		EmployeeRoleIDs: []uuid.UUID{frontend, backend},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected the 3 visible skills, got %d", len(got))
	}
	byID := map[int64]SkillResult{}
	for _, r := range got {
		byID[r.Skill.ID] = r
	}

	goSkill := byID[1]
	if goSkill.Grading != nil || goSkill.GradingStars == nil || !goSkill.GradingStars.IsNull {
		t.Fatalf("go has no frontend grading: %+v", goSkill)
	}
	if goSkill.MaxGradingSource == nil || *goSkill.MaxGradingSource != 13 || *goSkill.MaxGrading != 0.9 {
		t.Fatalf("go max grading must come from backend: %+v", goSkill)
	}
	if goSkill.MaxGradingStars.FullStars != 4 || goSkill.MaxGradingStars.PartialStar != 50 {
		t.Fatalf("unexpected stars: %+v", goSkill.MaxGradingStars)
	}

	pg := byID[2]
	if pg.MaxGradingSource == nil || *pg.MaxGradingSource != 12 {
		t.Fatalf("tie must keep the first supplied role: %+v", pg)
	}
	if pg.GradingStars.FullStars != 3 || pg.GradingStars.PartialStar != 50 {
		t.Fatalf("unexpected grading stars: %+v", pg.GradingStars)
	}

	kotlin := byID[3]
	if *kotlin.MaxGradingSource != 12 {
		t.Fatalf("kotlin only graded under frontend: %+v", kotlin)
	}
}

func TestSearchSkills_QueryPagingAndValidation(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)
	ctx := context.Background()

	got, err := uc.SearchSkills(ctx, SkillSearchParams{TenantID: "t1", Query: "golang"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Skill.ID != 1 || got[0].MatchedOn != search.MatchedOnSynonym || got[0].GradingStars != nil {
		t.Fatalf("unexpected results: %+v", got)
	}

	if _, err := uc.SearchSkills(ctx, SkillSearchParams{TenantID: "t1", Limit: intp(2), Page: 2}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if skills.lastOpts.Offset != 2 || skills.lastOpts.Limit != 2 {
		t.Fatalf("unexpected paging: %+v", skills.lastOpts)
	}

	if _, err := uc.SearchSkills(ctx, SkillSearchParams{TenantID: "t1", Page: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for page, got %v", err)
	}
	if _, err := uc.SearchSkills(ctx, SkillSearchParams{TenantID: "t1", SubRoleID: i64(51)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign sub-role must be invisible, got %v", err)
	}
}

func TestGetGrading(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)

	v, err := uc.GetGrading(context.Background(), "t1", 13, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Stars.FullStars != 4 || v.Stars.PartialStar != 50 {
		t.Fatalf("unexpected stars: %+v", v.Stars)
	}
	if _, err := uc.GetGrading(context.Background(), "t1", 0, 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListAndFindSubRoles(t *testing.T) {
	subRoles, skills, employees := catalogFixture()
	uc := newCatalog(subRoles, skills, employees, nil)
	ctx := context.Background()

	list, err := uc.ListSubRoles(ctx, "t2", i64(2))
	if err != nil || len(list) != 1 || list[0].ID != 51 {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}
	if _, err := uc.FindSubRole(ctx, "t1", 51); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign sub-role must be not found, got %v", err)
	}
	if _, err := uc.FindRole(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
