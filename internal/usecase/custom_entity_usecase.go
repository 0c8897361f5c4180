package usecase

import (
	"context"
	"fmt"
	"strings"

	"hrcore/internal/ai"
	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/logger"
	"hrcore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxCustomSynonyms = 20

type CreateSubRoleParams struct {
	TenantID   string
	ActorID    uuid.UUID
	CustomName string
}

type CreatedSubRole struct {
	SubRole        catalog.SubRole
	Classification ai.Classification
	// LowConfidence asks the caller to offer Classification.Alternatives.
	LowConfidence bool
}

type CreateSkillParams struct {
	TenantID string
	ActorID  uuid.UUID
	Name     string
	Synonyms []string
	Category string
}

type CustomEntityUsecase interface {
	CreateCustomSubRole(ctx context.Context, params CreateSubRoleParams) (CreatedSubRole, error)
	DeleteCustomSubRole(ctx context.Context, tenantID string, id int64) error
	CreateCustomSkill(ctx context.Context, params CreateSkillParams) (catalog.Skill, error)
	DeleteCustomSkill(ctx context.Context, tenantID string, id int64) error
}

type CustomEntities struct {
	roles      repository.RoleRepository
	subRoles   repository.SubRoleRepository
	skills     repository.SkillRepository
	classifier Classifier
	cache      SearchCache
	notifier   CatalogNotifier
	logger     *zap.Logger
}

func NewCustomEntityUsecase(
	roles repository.RoleRepository,
	subRoles repository.SubRoleRepository,
	skills repository.SkillRepository,
	classifier Classifier,
	cache SearchCache,
	notifier CatalogNotifier,
	log *zap.Logger,
) *CustomEntities {
	return &CustomEntities{
		roles:      roles,
		subRoles:   subRoles,
		skills:     skills,
		classifier: classifier,
		cache:      cache,
		notifier:   notifier,
		logger:     logger.OrNop(log).Named("custom_entities"),
	}
}

// CreateCustomSubRole classifies the name before any write so the
// transaction never spans the AI call. A classification failure persists
// nothing.
func (u *CustomEntities) CreateCustomSubRole(ctx context.Context, params CreateSubRoleParams) (CreatedSubRole, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return CreatedSubRole{}, err
	}
	name, err := normalizeName("custom_name", params.CustomName)
	if err != nil {
		return CreatedSubRole{}, err
	}

	if scope, found, err := u.subRoles.FindNameScope(ctx, name, tenantID); err != nil {
		return CreatedSubRole{}, err
	} else if found {
		return CreatedSubRole{}, domain.NewDuplicateError("sub-role", name, scope)
	}

	roles, err := u.roles.List(ctx)
	if err != nil {
		return CreatedSubRole{}, err
	}
	if len(roles) == 0 {
		return CreatedSubRole{}, fmt.Errorf("%w: no parent roles available", domain.ErrClassification)
	}
	parents := make([]ai.ParentRole, 0, len(roles))
	for _, r := range roles {
		parents = append(parents, ai.ParentRole{ID: r.ID, Name: r.CanonicalName})
	}

	if u.classifier == nil {
		return CreatedSubRole{}, fmt.Errorf("%w: classifier is not configured", domain.ErrClassification)
	}

	var classification ai.Classification
	var synonyms []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := u.classifier.ClassifySubRole(gctx, name, parents)
		if err != nil {
			return err
		}
		classification = c
		return nil
	})
	g.Go(func() error {
		synonyms = u.classifier.GenerateSynonyms(gctx, name)
		return nil
	})
	if err := g.Wait(); err != nil {
		u.logger.Warn("sub-role classification failed",
			logger.Tenant(tenantID), zap.String("name", name), zap.Error(err))
		return CreatedSubRole{}, err
	}

	created, err := u.subRoles.CreateCustom(ctx, catalog.NewCustomSubRole{
		TenantID:      tenantID,
		ActorID:       params.ActorID,
		CanonicalName: name,
		Synonyms:      cleanSynonyms(name, synonyms),
		ParentRoleID:  classification.ParentRoleID,
	})
	if err != nil {
		return CreatedSubRole{}, err
	}

	u.logger.Info("custom sub-role created",
		logger.Tenant(tenantID),
		zap.Int64("sub_role_id", created.ID),
		zap.Int64("parent_role_id", created.ParentRoleID),
		zap.Float64("confidence", classification.Confidence),
		zap.Int("synonyms", len(created.Synonyms)),
	)
	u.afterChange(ctx, CatalogEvent{Type: EventCreated, Entity: EntitySubRole, ID: created.ID, Name: created.CanonicalName, TenantID: tenantID})

	return CreatedSubRole{
		SubRole:        created,
		Classification: classification,
		LowConfidence:  classification.IsLowConfidence(),
	}, nil
}

func (u *CustomEntities) DeleteCustomSubRole(ctx context.Context, tenantID string, id int64) error {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return err
	}
	if id <= 0 {
		return invalid("sub-role id must be positive")
	}
	if err := u.subRoles.DeleteCustom(ctx, id, tenantID); err != nil {
		return err
	}
	u.logger.Info("custom sub-role deleted", logger.Tenant(tenantID), zap.Int64("sub_role_id", id))
	u.afterChange(ctx, CatalogEvent{Type: EventDeleted, Entity: EntitySubRole, ID: id, TenantID: tenantID})
	return nil
}

func (u *CustomEntities) CreateCustomSkill(ctx context.Context, params CreateSkillParams) (catalog.Skill, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return catalog.Skill{}, err
	}
	name, err := normalizeName("name", params.Name)
	if err != nil {
		return catalog.Skill{}, err
	}
	if len(params.Synonyms) > maxCustomSynonyms {
		return catalog.Skill{}, invalid("at most %d synonyms are allowed", maxCustomSynonyms)
	}
	synonyms := make([]string, 0, len(params.Synonyms))
	for _, s := range params.Synonyms {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		if len([]rune(s)) > maxNameLength {
			return catalog.Skill{}, invalid("synonym %q is longer than %d characters", s, maxNameLength)
		}
		synonyms = append(synonyms, s)
	}

	if scope, found, err := u.skills.FindNameScope(ctx, name, tenantID); err != nil {
		return catalog.Skill{}, err
	} else if found {
		return catalog.Skill{}, domain.NewDuplicateError("skill", name, scope)
	}

	created, err := u.skills.CreateCustom(ctx, catalog.NewCustomSkill{
		TenantID:      tenantID,
		ActorID:       params.ActorID,
		CanonicalName: name,
		Synonyms:      cleanSynonyms(name, synonyms),
		Category:      strings.TrimSpace(params.Category),
	})
	if err != nil {
		return catalog.Skill{}, err
	}

	u.logger.Info("custom skill created", logger.Tenant(tenantID), zap.Int64("skill_id", created.ID))
	u.afterChange(ctx, CatalogEvent{Type: EventCreated, Entity: EntitySkill, ID: created.ID, Name: created.CanonicalName, TenantID: tenantID})
	return created, nil
}

func (u *CustomEntities) DeleteCustomSkill(ctx context.Context, tenantID string, id int64) error {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return err
	}
	if id <= 0 {
		return invalid("skill id must be positive")
	}
	if err := u.skills.SoftDeleteCustom(ctx, id, tenantID); err != nil {
		return err
	}
	u.logger.Info("custom skill deactivated", logger.Tenant(tenantID), zap.Int64("skill_id", id))
	u.afterChange(ctx, CatalogEvent{Type: EventDeleted, Entity: EntitySkill, ID: id, TenantID: tenantID})
	return nil
}

// afterChange drops the tenant's cached searches and notifies listeners.
// Neither step can fail the operation.
func (u *CustomEntities) afterChange(ctx context.Context, evt CatalogEvent) {
	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, TenantCachePattern(evt.TenantID)); err != nil {
			u.logger.Warn("cache invalidation failed", logger.Tenant(evt.TenantID), zap.Error(err))
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyCatalogChanged(evt)
	}
}

// cleanSynonyms drops blanks, the name itself and case-insensitive repeats.
func cleanSynonyms(name string, synonyms []string) []string {
	out := make([]string, 0, len(synonyms))
	seen := map[string]bool{strings.ToLower(name): true}
	for _, s := range synonyms {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
