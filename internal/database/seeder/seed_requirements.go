package seeder

import (
	"context"
	"fmt"
	"strings"

	"hrcore/internal/database"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/domain/rolefit"
	"hrcore/internal/domain/softskill"
	"hrcore/internal/repository"
)

type RequirementsSeeder struct{}

func (RequirementsSeeder) Name() string { return "role_soft_skill_requirements" }

func (RequirementsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "role_soft_skill_requirements",
		"role_id", "soft_skill_id", "priority", "weight", "is_required", "min_score", "target_score"); err != nil {
		return err
	}
	return seedRequirements(ctx, requirementRepos{
		roles:        repository.NewPostgresRoleRepository(db),
		softSkills:   repository.NewPostgresSoftSkillRepository(db),
		requirements: repository.NewPostgresRequirementRepository(db),
	}, defaultRequirements)
}

type requirementRepos struct {
	roles interface {
		List(ctx context.Context) ([]catalog.Role, error)
	}
	softSkills interface {
		List(ctx context.Context) ([]softskill.SoftSkill, error)
	}
	requirements interface {
		Upsert(ctx context.Context, req rolefit.Requirement) error
	}
}

type seedRequirement struct {
	Code       string
	Priority   int
	Weight     float64
	IsRequired bool
}

// defaultRequirements is keyed by role canonical name. Thresholds come from
// the priority defaults.
var defaultRequirements = map[string][]seedRequirement{
	"Software Engineer": {
		{Code: "problem_solving", Priority: 1, Weight: 1.5, IsRequired: true},
		{Code: "critical_thinking", Priority: 2, Weight: 1.2, IsRequired: true},
		{Code: "teamwork", Priority: 3, Weight: 1},
		{Code: "adaptability", Priority: 4, Weight: 0.8},
		{Code: "communication_effective", Priority: 5, Weight: 0.6},
	},
	"Mobile Engineer": {
		{Code: "problem_solving", Priority: 1, Weight: 1.4, IsRequired: true},
		{Code: "creativity", Priority: 3, Weight: 1},
		{Code: "teamwork", Priority: 4, Weight: 0.8},
	},
	"Data Engineer": {
		{Code: "critical_thinking", Priority: 1, Weight: 1.5, IsRequired: true},
		{Code: "problem_solving", Priority: 2, Weight: 1.2},
		{Code: "time_management", Priority: 5, Weight: 0.6},
	},
	"Product Manager": {
		{Code: "communication_effective", Priority: 1, Weight: 1.5, IsRequired: true},
		{Code: "leadership", Priority: 2, Weight: 1.3, IsRequired: true},
		{Code: "negotiation", Priority: 3, Weight: 1},
		{Code: "conflict_resolution", Priority: 4, Weight: 0.8},
		{Code: "time_management", Priority: 5, Weight: 0.6},
	},
	"Designer": {
		{Code: "creativity", Priority: 1, Weight: 1.5, IsRequired: true},
		{Code: "emotional_intelligence", Priority: 3, Weight: 1},
		{Code: "communication_effective", Priority: 4, Weight: 0.8},
	},
}

func seedRequirements(ctx context.Context, repos requirementRepos, data map[string][]seedRequirement) error {
	roles, err := repos.roles.List(ctx)
	if err != nil {
		return err
	}
	roleIDs := make(map[string]int64, len(roles))
	for _, r := range roles {
		roleIDs[strings.ToLower(r.CanonicalName)] = r.ID
	}

	skills, err := repos.softSkills.List(ctx)
	if err != nil {
		return err
	}
	skillIDs := make(map[string]int64, len(skills))
	for _, s := range skills {
		skillIDs[s.Code] = s.ID
	}

	for roleName, reqs := range data {
		roleID, ok := roleIDs[strings.ToLower(roleName)]
		if !ok {
			return fmt.Errorf("requirements reference unknown role %s", roleName)
		}
		for _, r := range reqs {
			skillID, ok := skillIDs[r.Code]
			if !ok {
				return fmt.Errorf("role %s references unknown soft skill %s", roleName, r.Code)
			}
			req := rolefit.Requirement{
				RoleID:      roleID,
				SoftSkillID: skillID,
				Priority:    r.Priority,
				Weight:      r.Weight,
				IsRequired:  r.IsRequired,
			}
			if err := repos.requirements.Upsert(ctx, req.WithDefaults()); err != nil {
				return fmt.Errorf("requirement %s/%s: %w", roleName, r.Code, err)
			}
		}
	}
	return nil
}
