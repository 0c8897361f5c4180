package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/domain/grading"
	"hrcore/internal/logger"
	"hrcore/internal/repository"
	"hrcore/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubRoleSearchParams struct {
	TenantID     string
	Query        string
	Limit        *int
	ParentRoleID *int64
}

type SubRoleMatch struct {
	SubRole        catalog.SubRole
	MatchedOn      search.MatchedOn
	MatchedSynonym string
}

type SkillSearchParams struct {
	TenantID  string
	Query     string
	SubRoleID *int64
	// EmployeeRoleIDs selects the sub-roles whose best grading is reported
	// per skill. Earlier ids win ties.
	EmployeeRoleIDs []uuid.UUID
	Limit           *int
	Page            int
}

type SkillResult struct {
	Skill          catalog.Skill
	MatchedOn      search.MatchedOn
	MatchedSynonym string

	Grading      *float64
	Value        *float64
	GradingStars *grading.Stars

	MaxGrading       *float64
	MaxGradingSource *int64
	MaxGradingStars  *grading.Stars
}

type GradingView struct {
	Edge  catalog.GradingEdge
	Stars grading.Stars
}

type CatalogUsecase interface {
	ListRoles(ctx context.Context) ([]catalog.Role, error)
	FindRole(ctx context.Context, id int64) (catalog.Role, error)
	ListSubRoles(ctx context.Context, tenantID string, parentRoleID *int64) ([]catalog.SubRole, error)
	FindSubRole(ctx context.Context, tenantID string, id int64) (catalog.SubRole, error)
	SearchSubRoles(ctx context.Context, params SubRoleSearchParams) ([]SubRoleMatch, error)
	SearchSkills(ctx context.Context, params SkillSearchParams) ([]SkillResult, error)
	GetGrading(ctx context.Context, tenantID string, subRoleID, skillID int64) (GradingView, error)
}

type Catalog struct {
	roles     repository.RoleRepository
	subRoles  repository.SubRoleRepository
	skills    repository.SkillRepository
	employees repository.EmployeeRepository
	cache     SearchCache
	logger    *zap.Logger
}

func NewCatalogUsecase(
	roles repository.RoleRepository,
	subRoles repository.SubRoleRepository,
	skills repository.SkillRepository,
	employees repository.EmployeeRepository,
	cache SearchCache,
	log *zap.Logger,
) *Catalog {
	return &Catalog{
		roles:     roles,
		subRoles:  subRoles,
		skills:    skills,
		employees: employees,
		cache:     cache,
		logger:    logger.OrNop(log).Named("catalog"),
	}
}

func (u *Catalog) ListRoles(ctx context.Context) ([]catalog.Role, error) {
	return u.roles.List(ctx)
}

func (u *Catalog) FindRole(ctx context.Context, id int64) (catalog.Role, error) {
	if id <= 0 {
		return catalog.Role{}, invalid("role id must be positive")
	}
	return u.roles.FindByID(ctx, id)
}

func (u *Catalog) ListSubRoles(ctx context.Context, tenantID string, parentRoleID *int64) ([]catalog.SubRole, error) {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}
	return u.subRoles.List(ctx, parentRoleID, tenantID)
}

func (u *Catalog) FindSubRole(ctx context.Context, tenantID string, id int64) (catalog.SubRole, error) {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return catalog.SubRole{}, err
	}
	if id <= 0 {
		return catalog.SubRole{}, invalid("sub-role id must be positive")
	}
	return u.subRoles.FindByID(ctx, id, tenantID)
}

func (u *Catalog) SearchSubRoles(ctx context.Context, params SubRoleSearchParams) ([]SubRoleMatch, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return nil, err
	}
	q, err := search.ValidateQuery(params.Query)
	if err != nil {
		return nil, invalid("%v", err)
	}
	limit, err := search.ClampLimit(params.Limit)
	if err != nil {
		return nil, invalid("%v", err)
	}

	key := SubRoleSearchCacheKey(tenantID, q, limit, params.ParentRoleID)
	var cached []SubRoleMatch
	if u.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := u.subRoles.Search(ctx, q, repository.SubRoleSearchOptions{
		TenantID:     tenantID,
		ParentRoleID: params.ParentRoleID,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]catalog.SubRole, len(rows))
	candidates := make([]search.Candidate, 0, len(rows))
	for _, sr := range rows {
		if !catalog.VisibleTo(sr.TenantID, tenantID) {
			continue
		}
		byID[sr.ID] = sr
		candidates = append(candidates, search.Candidate{
			ID:            sr.ID,
			CanonicalName: sr.CanonicalName,
			KnownName:     sr.KnownName,
			Synonyms:      sr.Synonyms,
			IsCustom:      sr.IsCustom,
		})
	}

	ranked := search.Rank(candidates, q, limit)
	out := make([]SubRoleMatch, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, SubRoleMatch{
			SubRole:        byID[m.ID],
			MatchedOn:      m.MatchedOn,
			MatchedSynonym: m.MatchedSynonym,
		})
	}

	u.cacheSet(ctx, key, out)
	return out, nil
}

func (u *Catalog) SearchSkills(ctx context.Context, params SkillSearchParams) ([]SkillResult, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return nil, err
	}
	q := ""
	if strings.TrimSpace(params.Query) != "" {
		if q, err = search.ValidateQuery(params.Query); err != nil {
			return nil, invalid("%v", err)
		}
	}
	limit, err := search.ClampLimit(params.Limit)
	if err != nil {
		return nil, invalid("%v", err)
	}
	page := params.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, invalid("page must be at least 1")
	}

	if params.SubRoleID != nil {
		if _, err := u.subRoles.FindByID(ctx, *params.SubRoleID, tenantID); err != nil {
			return nil, err
		}
	}
	sources, err := u.gradingSources(ctx, tenantID, params.EmployeeRoleIDs)
	if err != nil {
		return nil, err
	}

	key := SkillSearchCacheKey(tenantID, q, params.SubRoleID, sources, limit, page)
	var cached []SkillResult
	if u.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	hits, err := u.skills.Search(ctx, q, repository.SkillSearchOptions{
		TenantID:  tenantID,
		SubRoleID: params.SubRoleID,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]SkillResult, 0, len(hits))
	skillIDs := make([]int64, 0, len(hits))
	for _, h := range hits {
		res := SkillResult{Skill: h.Skill, Grading: h.Grading, Value: h.Value}
		if q != "" {
			if m, ok := search.MatchCandidate(skillCandidate(h.Skill), q); ok {
				res.MatchedOn = m.MatchedOn
				res.MatchedSynonym = m.MatchedSynonym
			}
		}
		if params.SubRoleID != nil {
			stars := grading.ToStars(h.Grading)
			res.GradingStars = &stars
		}
		out = append(out, res)
		skillIDs = append(skillIDs, h.Skill.ID)
	}

	if len(sources) > 0 && len(out) > 0 {
		if err := u.attachMaxGrading(ctx, out, sources, skillIDs); err != nil {
			return nil, err
		}
	}

	u.cacheSet(ctx, key, out)
	return out, nil
}

func skillCandidate(s catalog.Skill) search.Candidate {
	return search.Candidate{
		ID:            s.ID,
		CanonicalName: s.CanonicalName,
		KnownName:     s.KnownName,
		Synonyms:      s.Synonyms,
		IsCustom:      s.IsCustom,
	}
}

// gradingSources resolves employee roles to sub-role ids, keeping the
// caller's order and dropping duplicates.
func (u *Catalog) gradingSources(ctx context.Context, tenantID string, employeeRoleIDs []uuid.UUID) ([]int64, error) {
	if len(employeeRoleIDs) == 0 {
		return nil, nil
	}
	resolved, err := u.employees.RoleSubRoles(ctx, tenantID, employeeRoleIDs)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(resolved))
	seen := make(map[int64]bool, len(resolved))
	for _, id := range employeeRoleIDs {
		sr, ok := resolved[id]
		if !ok || seen[sr] {
			continue
		}
		seen[sr] = true
		out = append(out, sr)
	}
	return out, nil
}

func (u *Catalog) attachMaxGrading(ctx context.Context, out []SkillResult, sources, skillIDs []int64) error {
	edges, err := u.skills.Gradings(ctx, sources, skillIDs)
	if err != nil {
		return err
	}
	type pair struct{ subRole, skill int64 }
	bySource := make(map[pair]*float64, len(edges))
	for _, e := range edges {
		bySource[pair{e.SubRoleID, e.SkillID}] = e.Grading
	}

	for i := range out {
		entries := make([]grading.SourceGrading, 0, len(sources))
		for _, sr := range sources {
			entries = append(entries, grading.SourceGrading{SubRoleID: sr, Grading: bySource[pair{sr, out[i].Skill.ID}]})
		}
		best, source, ok := grading.MaxGrading(entries)
		stars := grading.ToStars(best)
		out[i].MaxGradingStars = &stars
		if !ok {
			continue
		}
		out[i].MaxGrading = best
		out[i].MaxGradingSource = &source
	}
	return nil
}

func (u *Catalog) GetGrading(ctx context.Context, tenantID string, subRoleID, skillID int64) (GradingView, error) {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return GradingView{}, err
	}
	if subRoleID <= 0 || skillID <= 0 {
		return GradingView{}, invalid("sub_role_id and skill_id are required")
	}
	edge, err := u.skills.GetGrading(ctx, subRoleID, skillID, tenantID)
	if err != nil {
		return GradingView{}, err
	}
	return GradingView{Edge: edge, Stars: grading.ToStars(edge.Grading)}, nil
}

func (u *Catalog) cacheGet(ctx context.Context, key string, out any) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.GetJSON(ctx, key, out)
	if err != nil {
		u.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if hit {
		u.logger.Debug("cache hit", zap.String("key", key))
	}
	return hit
}

func (u *Catalog) cacheSet(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, 0); err != nil {
		u.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// notFoundAs rewrites a not-found error for a named entity.
func notFoundAs(err error, entity string, id any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %v", domain.ErrNotFound, entity, id)
	}
	return err
}
