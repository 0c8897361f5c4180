package handler

import (
	"hrcore/internal/delivery/http/dto"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/domain/grading"
	"hrcore/internal/domain/rolefit"
	"hrcore/internal/usecase"
)

func strs(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toRoleResponse(r catalog.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:            r.ID,
		CanonicalName: r.CanonicalName,
		KnownName:     r.KnownName,
		Synonyms:      strs(r.Synonyms),
		CreatedAt:     r.CreatedAt,
	}
}

func toSubRoleResponse(s catalog.SubRole) dto.SubRoleResponse {
	return dto.SubRoleResponse{
		ID:            s.ID,
		CanonicalName: s.CanonicalName,
		KnownName:     s.KnownName,
		Synonyms:      strs(s.Synonyms),
		ParentRoleID:  s.ParentRoleID,
		IsCustom:      s.IsCustom,
		TenantID:      s.TenantID,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}

func toSkillResponse(s catalog.Skill) dto.SkillResponse {
	return dto.SkillResponse{
		ID:            s.ID,
		CanonicalName: s.CanonicalName,
		KnownName:     s.KnownName,
		Synonyms:      strs(s.Synonyms),
		Category:      s.Category,
		IsCustom:      s.IsCustom,
		TenantID:      s.TenantID,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}

func toSkillSearchItem(r usecase.SkillResult) dto.SkillSearchItemResponse {
	return dto.SkillSearchItemResponse{
		SkillResponse:    toSkillResponse(r.Skill),
		MatchedOn:        string(r.MatchedOn),
		MatchedSynonym:   r.MatchedSynonym,
		Grading:          r.Grading,
		Value:            r.Value,
		GradingStars:     r.GradingStars,
		MaxGrading:       r.MaxGrading,
		MaxGradingSource: r.MaxGradingSource,
		MaxGradingStars:  r.MaxGradingStars,
	}
}

func toProjectedSkills(skills []grading.ProjectedSkill) []dto.ProjectedSkillResponse {
	out := make([]dto.ProjectedSkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, dto.ProjectedSkillResponse{
			SkillID:          s.ID,
			Name:             s.Name,
			ProficiencyLevel: s.ProficiencyLevel,
			Grading:          s.Grading,
			Value:            s.Value,
			Relevance:        string(s.Relevance),
		})
	}
	return out
}

func toRequirements(reqs []rolefit.Requirement) []dto.RequirementResponse {
	out := make([]dto.RequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.RequirementResponse{
			SoftSkillID:   r.SoftSkillID,
			SoftSkillCode: r.SoftSkillCode,
			SoftSkillName: r.SoftSkillName,
			Category:      r.Category,
			Priority:      r.Priority,
			Weight:        r.Weight,
			IsRequired:    r.IsRequired,
			MinScore:      r.MinScore,
			TargetScore:   r.TargetScore,
		})
	}
	return out
}

func toGaps(gaps []rolefit.Gap) []dto.GapResponse {
	out := make([]dto.GapResponse, 0, len(gaps))
	for _, g := range gaps {
		out = append(out, dto.GapResponse{
			SoftSkillID:   g.SoftSkillID,
			SoftSkillCode: g.SoftSkillCode,
			SoftSkillName: g.SoftSkillName,
			Priority:      g.Priority,
			Tier:          string(g.Tier),
			CurrentScore:  g.CurrentScore,
			HasScore:      g.HasScore,
			Target:        g.Target,
			Gap:           g.Gap,
			Status:        string(g.Status),
		})
	}
	return out
}
