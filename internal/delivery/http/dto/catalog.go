package dto

import (
	"time"

	"hrcore/internal/domain/grading"

	"github.com/google/uuid"
)

type RoleResponse struct {
	ID            int64     `json:"id"`
	CanonicalName string    `json:"canonical_name"`
	KnownName     string    `json:"known_name,omitempty"`
	Synonyms      []string  `json:"synonyms"`
	CreatedAt     time.Time `json:"created_at"`
}

type SubRoleResponse struct {
	ID            int64      `json:"id"`
	CanonicalName string     `json:"canonical_name"`
	KnownName     string     `json:"known_name,omitempty"`
	Synonyms      []string   `json:"synonyms"`
	ParentRoleID  int64      `json:"parent_role_id"`
	IsCustom      bool       `json:"is_custom"`
	TenantID      *string    `json:"tenant_id"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type SubRoleMatchResponse struct {
	SubRoleResponse
	MatchedOn      string `json:"matched_on"`
	MatchedSynonym string `json:"matched_synonym,omitempty"`
}

type CreateSubRoleRequest struct {
	CustomName string `json:"custom_name"`
}

type AIClassificationResponse struct {
	ParentRoleID   int64   `json:"parent_role_id"`
	ParentRoleName string  `json:"parent_role_name"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Alternatives   []int64 `json:"alternatives"`
	LowConfidence  bool    `json:"low_confidence"`
	Model          string  `json:"model,omitempty"`
}

type CreatedSubRoleResponse struct {
	SubRole          SubRoleResponse          `json:"sub_role"`
	AIClassification AIClassificationResponse `json:"ai_classification"`
}

type SkillResponse struct {
	ID            int64      `json:"id"`
	CanonicalName string     `json:"canonical_name"`
	KnownName     string     `json:"known_name,omitempty"`
	Synonyms      []string   `json:"synonyms"`
	Category      string     `json:"category,omitempty"`
	IsCustom      bool       `json:"is_custom"`
	TenantID      *string    `json:"tenant_id"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type SkillSearchItemResponse struct {
	SkillResponse
	MatchedOn        string         `json:"matched_on,omitempty"`
	MatchedSynonym   string         `json:"matched_synonym,omitempty"`
	Grading          *float64       `json:"grading"`
	Value            *float64       `json:"value,omitempty"`
	GradingStars     *grading.Stars `json:"grading_stars,omitempty"`
	MaxGrading       *float64       `json:"max_grading,omitempty"`
	MaxGradingSource *int64         `json:"max_grading_source,omitempty"`
	MaxGradingStars  *grading.Stars `json:"max_grading_stars,omitempty"`
}

type CreateSkillRequest struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
	Category string   `json:"category"`
}

type GradingResponse struct {
	SubRoleID int64         `json:"sub_role_id"`
	SkillID   int64         `json:"skill_id"`
	Grading   *float64      `json:"grading"`
	Value     float64       `json:"value"`
	Stars     grading.Stars `json:"stars"`
}
