package seeder

import (
	"context"
	"fmt"

	"hrcore/internal/database"
	"hrcore/internal/domain/softskill"
	"hrcore/internal/repository"
)

type SoftSkillsSeeder struct{}

func (SoftSkillsSeeder) Name() string { return "soft_skills" }

func (SoftSkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "soft_skills", "id", "code", "name", "category", "priority"); err != nil {
		return err
	}
	return seedSoftSkills(ctx, repository.NewPostgresSoftSkillRepository(db), softSkillCatalog)
}

type softSkillUpserter interface {
	Upsert(ctx context.Context, s softskill.SoftSkill) (softskill.SoftSkill, error)
}

// softSkillCatalog lists every skill the correlation table scores. Priority
// follows list order.
var softSkillCatalog = []softskill.SoftSkill{
	{Code: "communication_effective", Name: "Effective Communication", Category: "interpersonal"},
	{Code: "teamwork", Name: "Teamwork", Category: "interpersonal"},
	{Code: "leadership", Name: "Leadership", Category: "leadership"},
	{Code: "problem_solving", Name: "Problem Solving", Category: "cognitive"},
	{Code: "critical_thinking", Name: "Critical Thinking", Category: "cognitive"},
	{Code: "creativity", Name: "Creativity", Category: "cognitive"},
	{Code: "adaptability", Name: "Adaptability", Category: "self_management"},
	{Code: "resilience", Name: "Resilience", Category: "self_management"},
	{Code: "emotional_intelligence", Name: "Emotional Intelligence", Category: "interpersonal"},
	{Code: "conflict_resolution", Name: "Conflict Resolution", Category: "interpersonal"},
	{Code: "time_management", Name: "Time Management", Category: "self_management"},
	{Code: "negotiation", Name: "Negotiation", Category: "leadership"},
}

func seedSoftSkills(ctx context.Context, repo softSkillUpserter, items []softskill.SoftSkill) error {
	for i, s := range items {
		s.Priority = i + 1
		if _, err := repo.Upsert(ctx, s); err != nil {
			return fmt.Errorf("soft skill %s: %w", s.Code, err)
		}
	}
	return nil
}
