package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"hrcore/internal/ai"
	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/domain/employee"
	"hrcore/internal/domain/grading"
	"hrcore/internal/domain/rolefit"
	"hrcore/internal/domain/softskill"
	"hrcore/internal/repository"
	"hrcore/internal/search"

	"github.com/google/uuid"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func intp(v int) *int        { return &v }

type fakeRoles struct {
	roles []catalog.Role
	err   error
}

func (f *fakeRoles) List(context.Context) ([]catalog.Role, error) {
	return f.roles, f.err
}

func (f *fakeRoles) FindByID(_ context.Context, id int64) (catalog.Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return catalog.Role{}, fmt.Errorf("%w: role", domain.ErrNotFound)
}

func (f *fakeRoles) Upsert(_ context.Context, r catalog.Role) (catalog.Role, error) {
	return r, nil
}

// fakeSubRoles applies the same visibility and ranking rules as the SQL.
type fakeSubRoles struct {
	rows       []catalog.SubRole
	referenced map[int64]bool
	nextID     int64

	searchCalls int
	lastTenant  string
}

func (f *fakeSubRoles) FindByID(_ context.Context, id int64, tenantID string) (catalog.SubRole, error) {
	for _, sr := range f.rows {
		if sr.ID == id && catalog.VisibleTo(sr.TenantID, tenantID) {
			return sr, nil
		}
	}
	return catalog.SubRole{}, fmt.Errorf("%w: sub-role", domain.ErrNotFound)
}

func (f *fakeSubRoles) List(_ context.Context, parentRoleID *int64, tenantID string) ([]catalog.SubRole, error) {
	out := []catalog.SubRole{}
	for _, sr := range f.rows {
		if catalog.VisibleTo(sr.TenantID, tenantID) && (parentRoleID == nil || sr.ParentRoleID == *parentRoleID) {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (f *fakeSubRoles) Search(_ context.Context, q string, opts repository.SubRoleSearchOptions) ([]catalog.SubRole, error) {
	f.searchCalls++
	f.lastTenant = opts.TenantID
	byID := map[int64]catalog.SubRole{}
	candidates := []search.Candidate{}
	for _, sr := range f.rows {
		if !catalog.VisibleTo(sr.TenantID, opts.TenantID) {
			continue
		}
		if opts.ParentRoleID != nil && sr.ParentRoleID != *opts.ParentRoleID {
			continue
		}
		byID[sr.ID] = sr
		candidates = append(candidates, search.Candidate{ID: sr.ID, CanonicalName: sr.CanonicalName, KnownName: sr.KnownName, Synonyms: sr.Synonyms, IsCustom: sr.IsCustom})
	}
	out := []catalog.SubRole{}
	for _, m := range search.Rank(candidates, q, opts.Limit) {
		out = append(out, byID[m.ID])
	}
	return out, nil
}

func (f *fakeSubRoles) FindNameScope(_ context.Context, name, tenantID string) (string, bool, error) {
	scope, found := "", false
	for _, sr := range f.rows {
		if !strings.EqualFold(sr.CanonicalName, name) || !catalog.VisibleTo(sr.TenantID, tenantID) {
			continue
		}
		if sr.TenantID == nil {
			return domain.ScopeGlobal, true, nil
		}
		scope, found = domain.ScopeTenant, true
	}
	return scope, found, nil
}

func (f *fakeSubRoles) CreateCustom(_ context.Context, in catalog.NewCustomSubRole) (catalog.SubRole, error) {
	for _, sr := range f.rows {
		if sr.TenantID != nil && *sr.TenantID == in.TenantID && strings.EqualFold(sr.CanonicalName, in.CanonicalName) {
			return catalog.SubRole{}, domain.NewDuplicateError("sub-role", in.CanonicalName, domain.ScopeTenant)
		}
	}
	f.nextID++
	actor := in.ActorID
	sr := catalog.SubRole{
		ID:            f.nextID,
		CanonicalName: in.CanonicalName,
		Synonyms:      in.Synonyms,
		TenantID:      str(in.TenantID),
		IsCustom:      true,
		CreatedBy:     &actor,
		ParentRoleID:  in.ParentRoleID,
	}
	f.rows = append(f.rows, sr)
	return sr, nil
}

func (f *fakeSubRoles) DeleteCustom(_ context.Context, id int64, tenantID string) error {
	for i, sr := range f.rows {
		if sr.ID != id {
			continue
		}
		if !sr.IsCustom || sr.TenantID == nil || *sr.TenantID != tenantID {
			return fmt.Errorf("%w: sub-role", domain.ErrAuthorization)
		}
		if f.referenced[id] {
			return fmt.Errorf("%w: sub-role", domain.ErrConflict)
		}
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: sub-role", domain.ErrNotFound)
}

func (f *fakeSubRoles) UpsertGlobal(_ context.Context, sr catalog.SubRole) (catalog.SubRole, error) {
	return sr, nil
}

func (f *fakeSubRoles) countNamed(name, tenantID string) int {
	n := 0
	for _, sr := range f.rows {
		if sr.CanonicalName == name && sr.TenantID != nil && *sr.TenantID == tenantID {
			n++
		}
	}
	return n
}

type edgeKey struct{ subRole, skill int64 }

type fakeSkills struct {
	rows   []catalog.Skill
	edges  map[edgeKey]*float64
	nextID int64

	lastOpts repository.SkillSearchOptions
}

func (f *fakeSkills) Search(_ context.Context, q string, opts repository.SkillSearchOptions) ([]repository.SkillHit, error) {
	f.lastOpts = opts
	out := []repository.SkillHit{}
	for _, s := range f.rows {
		if !s.IsActive || !catalog.VisibleTo(s.TenantID, opts.TenantID) {
			continue
		}
		if q != "" {
			if _, ok := search.MatchCandidate(skillCandidate(s), q); !ok {
				continue
			}
		}
		h := repository.SkillHit{Skill: s}
		if opts.SubRoleID != nil {
			if g, ok := f.edges[edgeKey{*opts.SubRoleID, s.ID}]; ok {
				h.Grading = g
				h.Value = f64(1)
			}
		}
		out = append(out, h)
	}
	if opts.Offset >= len(out) {
		return []repository.SkillHit{}, nil
	}
	out = out[opts.Offset:]
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeSkills) FindNameScope(_ context.Context, name, tenantID string) (string, bool, error) {
	for _, s := range f.rows {
		if s.IsActive && strings.EqualFold(s.CanonicalName, name) && catalog.VisibleTo(s.TenantID, tenantID) {
			if s.TenantID == nil {
				return domain.ScopeGlobal, true, nil
			}
			return domain.ScopeTenant, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeSkills) CreateCustom(_ context.Context, in catalog.NewCustomSkill) (catalog.Skill, error) {
	f.nextID++
	s := catalog.Skill{ID: f.nextID, CanonicalName: in.CanonicalName, Synonyms: in.Synonyms, Category: in.Category,
		TenantID: str(in.TenantID), IsCustom: true, IsActive: true}
	f.rows = append(f.rows, s)
	return s, nil
}

func (f *fakeSkills) SoftDeleteCustom(_ context.Context, id int64, tenantID string) error {
	for i := range f.rows {
		s := &f.rows[i]
		if s.ID != id {
			continue
		}
		if !s.IsActive {
			return domain.ErrNotFound
		}
		if !s.IsCustom || s.TenantID == nil || *s.TenantID != tenantID {
			return domain.ErrAuthorization
		}
		s.IsActive = false
		return nil
	}
	return domain.ErrNotFound
}

func (f *fakeSkills) GetGrading(_ context.Context, subRoleID, skillID int64, _ string) (catalog.GradingEdge, error) {
	return catalog.GradingEdge{SubRoleID: subRoleID, SkillID: skillID, Grading: f.edges[edgeKey{subRoleID, skillID}]}, nil
}

func (f *fakeSkills) Gradings(_ context.Context, subRoleIDs, skillIDs []int64) ([]catalog.GradingEdge, error) {
	out := []catalog.GradingEdge{}
	for _, sr := range subRoleIDs {
		for _, sk := range skillIDs {
			if g, ok := f.edges[edgeKey{sr, sk}]; ok {
				out = append(out, catalog.GradingEdge{SubRoleID: sr, SkillID: sk, Grading: g})
			}
		}
	}
	return out, nil
}

func (f *fakeSkills) UpsertGlobal(_ context.Context, s catalog.Skill) (catalog.Skill, error) {
	return s, nil
}

func (f *fakeSkills) UpsertGrading(context.Context, catalog.GradingEdge) error { return nil }

type fakeEmployees struct {
	profiles     map[uuid.UUID]employee.Profile
	roles        map[uuid.UUID][]employee.Role
	skills       map[uuid.UUID][]employee.Skill
	edges        map[edgeKey]*float64
	roleSubRoles map[uuid.UUID]int64
}

func (f *fakeEmployees) FindProfile(_ context.Context, id uuid.UUID, tenantID string) (employee.Profile, error) {
	p, ok := f.profiles[id]
	if !ok || p.TenantID != tenantID {
		return employee.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeEmployees) ListCurrentRoles(_ context.Context, id uuid.UUID) ([]employee.Role, error) {
	return f.roles[id], nil
}

func (f *fakeEmployees) SkillsForSubRole(_ context.Context, id uuid.UUID, subRoleID int64) ([]grading.SkillInput, error) {
	out := []grading.SkillInput{}
	for _, s := range f.skills[id] {
		if s.ProficiencyLevel <= 0 {
			continue
		}
		out = append(out, grading.SkillInput{ID: s.SkillID, Name: s.SkillName, ProficiencyLevel: s.ProficiencyLevel, Grading: f.edges[edgeKey{subRoleID, s.SkillID}]})
	}
	return out, nil
}

func (f *fakeEmployees) RoleSubRoles(_ context.Context, _ string, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	for _, id := range ids {
		if sr, ok := f.roleSubRoles[id]; ok {
			out[id] = sr
		}
	}
	return out, nil
}

type fakeSoftSkills struct {
	skills []softskill.SoftSkill
	scores []softskill.Score
	nextID int64
}

func (f *fakeSoftSkills) List(context.Context) ([]softskill.SoftSkill, error) { return f.skills, nil }

func (f *fakeSoftSkills) Upsert(_ context.Context, s softskill.SoftSkill) (softskill.SoftSkill, error) {
	return s, nil
}

func (f *fakeSoftSkills) InsertScores(_ context.Context, scores []softskill.Score) ([]softskill.Score, error) {
	out := make([]softskill.Score, 0, len(scores))
	for _, s := range scores {
		f.nextID++
		s.ID = f.nextID
		f.scores = append(f.scores, s)
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSoftSkills) sortedDesc(employeeID uuid.UUID) []softskill.Score {
	out := []softskill.Score{}
	for _, s := range f.scores {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CalculatedAt.Equal(out[j].CalculatedAt) {
			return out[i].CalculatedAt.After(out[j].CalculatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeSoftSkills) Latest(_ context.Context, employeeID uuid.UUID) (map[int64]softskill.Score, error) {
	out := map[int64]softskill.Score{}
	for _, s := range f.sortedDesc(employeeID) {
		if _, ok := out[s.SoftSkillID]; !ok {
			out[s.SoftSkillID] = s
		}
	}
	return out, nil
}

func (f *fakeSoftSkills) RecentScores(_ context.Context, employeeID uuid.UUID, depth int) (map[int64][]int, error) {
	out := map[int64][]int{}
	for _, s := range f.sortedDesc(employeeID) {
		if len(out[s.SoftSkillID]) < depth {
			out[s.SoftSkillID] = append(out[s.SoftSkillID], s.NormalizedScore)
		}
	}
	return out, nil
}

func (f *fakeSoftSkills) Distributions(context.Context, string) (map[int64]softskill.Distribution, error) {
	out := map[int64]softskill.Distribution{}
	for _, s := range f.scores {
		if out[s.SoftSkillID] == nil {
			out[s.SoftSkillID] = softskill.Distribution{}
		}
		out[s.SoftSkillID][s.NormalizedScore]++
	}
	return out, nil
}

func (f *fakeSoftSkills) ByAssessments(_ context.Context, employeeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]map[int64]softskill.Score, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := map[uuid.UUID]map[int64]softskill.Score{}
	for _, s := range f.sortedDesc(employeeID) {
		if !want[s.AssessmentID] {
			continue
		}
		if out[s.AssessmentID] == nil {
			out[s.AssessmentID] = map[int64]softskill.Score{}
		}
		if _, ok := out[s.AssessmentID][s.SoftSkillID]; !ok {
			out[s.AssessmentID][s.SoftSkillID] = s
		}
	}
	return out, nil
}

type fakeRequirements struct {
	byRole map[int64][]rolefit.Requirement
}

func (f *fakeRequirements) ListByRole(_ context.Context, roleID int64) ([]rolefit.Requirement, error) {
	return f.byRole[roleID], nil
}

func (f *fakeRequirements) Upsert(context.Context, rolefit.Requirement) error { return nil }

type fakeCache struct {
	data    map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type fakeNotifier struct {
	events []CatalogEvent
}

func (n *fakeNotifier) NotifyCatalogChanged(evt CatalogEvent) {
	n.events = append(n.events, evt)
}

type fakeClassifier struct {
	result   ai.Classification
	err      error
	synonyms []string

	classifyCalls int
	lastParents   []ai.ParentRole
}

func (f *fakeClassifier) ClassifySubRole(_ context.Context, _ string, parents []ai.ParentRole) (ai.Classification, error) {
	f.classifyCalls++
	f.lastParents = parents
	if f.err != nil {
		return ai.Classification{}, f.err
	}
	return f.result, nil
}

func (f *fakeClassifier) GenerateSynonyms(context.Context, string) []string {
	if f.synonyms == nil {
		return []string{}
	}
	return f.synonyms
}
