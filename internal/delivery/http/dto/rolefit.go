package dto

import "github.com/google/uuid"

type RequirementResponse struct {
	SoftSkillID   int64   `json:"soft_skill_id"`
	SoftSkillCode string  `json:"soft_skill_code"`
	SoftSkillName string  `json:"soft_skill_name"`
	Category      string  `json:"category,omitempty"`
	Priority      int     `json:"priority"`
	Weight        float64 `json:"weight"`
	IsRequired    bool    `json:"is_required"`
	MinScore      *int    `json:"min_score"`
	TargetScore   *int    `json:"target_score"`
}

type RoleRequirementsResponse struct {
	Role       RoleResponse          `json:"role"`
	Critical   []RequirementResponse `json:"critical"`
	Important  []RequirementResponse `json:"important"`
	Supportive []RequirementResponse `json:"supportive"`
}

type GapResponse struct {
	SoftSkillID   int64  `json:"soft_skill_id"`
	SoftSkillCode string `json:"soft_skill_code"`
	SoftSkillName string `json:"soft_skill_name"`
	Priority      int    `json:"priority"`
	Tier          string `json:"tier"`
	CurrentScore  int    `json:"current_score"`
	HasScore      bool   `json:"has_score"`
	Target        int    `json:"target"`
	Gap           int    `json:"gap"`
	Status        string `json:"status"`
}

type RoleFitSummary struct {
	Achieved  int `json:"achieved"`
	Close     int `json:"close"`
	NeedsWork int `json:"needs_work"`
}

type RoleFitResponse struct {
	Role            RoleResponse   `json:"role"`
	EmployeeID      uuid.UUID      `json:"employee_id"`
	OverallFitScore int            `json:"overall_fit_score"`
	Critical        []GapResponse  `json:"critical"`
	Important       []GapResponse  `json:"important"`
	Supportive      []GapResponse  `json:"supportive"`
	Summary         RoleFitSummary `json:"summary"`
}
