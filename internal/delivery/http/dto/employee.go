package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProjectedSkillResponse struct {
	SkillID          int64    `json:"skill_id"`
	Name             string   `json:"name"`
	ProficiencyLevel int      `json:"proficiency_level"`
	Grading          *float64 `json:"grading"`
	Value            float64  `json:"value"`
	Relevance        string   `json:"relevance"`
}

type RoleProjectionResponse struct {
	EmployeeRoleID uuid.UUID                `json:"employee_role_id"`
	RoleID         *int64                   `json:"role_id"`
	SubRoleID      int64                    `json:"sub_role_id"`
	DisplayName    string                   `json:"display_name"`
	Skills         []ProjectedSkillResponse `json:"skills"`
}

type RoleSeniorityResponse struct {
	RoleID    *int64  `json:"role_id"`
	SubRoleID *int64  `json:"sub_role_id"`
	Years     float64 `json:"years"`
	Level     string  `json:"level"`
}

type SeniorityResponse struct {
	Overall string                  `json:"overall"`
	Source  string                  `json:"source"`
	PerRole []RoleSeniorityResponse `json:"per_role"`
}

type ScoreAssessmentRequest struct {
	BigFive map[string]float64 `json:"big_five"`
	DISC    map[string]float64 `json:"disc"`
	Belbin  map[string]float64 `json:"belbin"`
}

type SoftSkillScoreResponse struct {
	ID              int64              `json:"id"`
	SoftSkillID     int64              `json:"soft_skill_id"`
	SoftSkillCode   string             `json:"soft_skill_code"`
	SoftSkillName   string             `json:"soft_skill_name"`
	AssessmentID    uuid.UUID          `json:"assessment_id"`
	RawScore        float64            `json:"raw_score"`
	NormalizedScore int                `json:"normalized_score"`
	Percentile      int                `json:"percentile"`
	Level           string             `json:"level"`
	Confidence      float64            `json:"confidence"`
	Contributions   map[string]float64 `json:"contributions"`
	Trend           string             `json:"trend"`
	History         []int              `json:"history"`
	CalculatedAt    time.Time          `json:"calculated_at"`
}

type FeedbackAggregateRequest struct {
	Self    *uuid.UUID `json:"self"`
	Peer    *uuid.UUID `json:"peer"`
	Manager *uuid.UUID `json:"manager"`
}

type AggregatedSkillResponse struct {
	SoftSkillID   int64          `json:"soft_skill_id"`
	SoftSkillCode string         `json:"soft_skill_code"`
	SoftSkillName string         `json:"soft_skill_name"`
	Scores        map[string]int `json:"scores"`
	Score         int            `json:"score"`
	Confidence    float64        `json:"confidence"`
	Sources       []string       `json:"sources"`
}
