package softskill

import (
	"time"

	"github.com/google/uuid"
)

type Model string

const (
	ModelBigFive Model = "big_five"
	ModelDISC    Model = "disc"
	ModelBelbin  Model = "belbin"
)

// Models lists the psychometric models in evaluation order.
var Models = []Model{ModelBigFive, ModelDISC, ModelBelbin}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// SoftSkill is a global catalog competency.
type SoftSkill struct {
	ID       int64
	Code     string
	Name     string
	Category string
	Priority int
}

// Responses holds the psychometric answers of one assessment. A nil or empty
// map means the template did not include that model.
type Responses struct {
	BigFive map[string]float64 `json:"big_five,omitempty"`
	DISC    map[string]float64 `json:"disc,omitempty"`
	Belbin  map[string]float64 `json:"belbin,omitempty"`
}

func (r Responses) values(m Model) map[string]float64 {
	switch m {
	case ModelBigFive:
		return r.BigFive
	case ModelDISC:
		return r.DISC
	case ModelBelbin:
		return r.Belbin
	default:
		return nil
	}
}

// IsEmpty reports whether no model carries any value.
func (r Responses) IsEmpty() bool {
	return len(r.BigFive) == 0 && len(r.DISC) == 0 && len(r.Belbin) == 0
}

// Score is one persisted SoftSkillScore row. Rows are append-only; the newest
// by CalculatedAt (then ID) is the effective score.
type Score struct {
	ID              int64
	EmployeeID      uuid.UUID
	SoftSkillID     int64
	SoftSkillCode   string
	SoftSkillName   string
	AssessmentID    uuid.UUID
	RawScore        float64
	NormalizedScore int
	Percentile      int
	Level           Level
	Confidence      float64
	CalculatedAt    time.Time
	Details         Details
}

// Details is stored alongside a score for audit.
type Details struct {
	Contributions map[Model]float64 `json:"contributions"`
	Models        []Model           `json:"models"`
	Trend         Trend             `json:"trend"`
	History       []int             `json:"history,omitempty"`
}
