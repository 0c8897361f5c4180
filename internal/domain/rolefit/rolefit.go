package rolefit

import (
	"math"
	"sort"
)

type Status string

const (
	StatusAchieved  Status = "achieved"
	StatusClose     Status = "close"
	StatusNeedsWork Status = "needs_work"
)

type Tier string

const (
	TierCritical   Tier = "critical"
	TierImportant  Tier = "important"
	TierSupportive Tier = "supportive"
)

const (
	defaultTarget = 70
	closeGap      = 10
)

// Requirement is a RoleSoftSkillRequirement joined with its soft skill.
type Requirement struct {
	RoleID        int64
	SoftSkillID   int64
	SoftSkillCode string
	SoftSkillName string
	Category      string
	Priority      int
	Weight        float64
	IsRequired    bool
	MinScore      *int
	TargetScore   *int
}

// DefaultThresholds are applied when a requirement omits its scores.
func DefaultThresholds(priority int) (minScore, targetScore int) {
	if priority <= 2 {
		return 50, 80
	}
	return 40, 60
}

// WithDefaults fills MinScore and TargetScore from the priority.
func (r Requirement) WithDefaults() Requirement {
	minScore, target := DefaultThresholds(r.Priority)
	if r.MinScore == nil {
		r.MinScore = &minScore
	}
	if r.TargetScore == nil {
		r.TargetScore = &target
	}
	if r.Weight <= 0 {
		r.Weight = 1
	}
	return r
}

func TierFor(priority int) Tier {
	switch {
	case priority <= 2:
		return TierCritical
	case priority <= 4:
		return TierImportant
	default:
		return TierSupportive
	}
}

type Gap struct {
	Requirement
	CurrentScore int
	Target       int
	Gap          int
	Status       Status
	HasScore     bool
	Tier         Tier
}

type Result struct {
	Gaps            []Gap
	Critical        []Gap
	Important       []Gap
	Supportive      []Gap
	OverallFitScore int
	Achieved        int
	Close           int
	NeedsWork       int
}

func statusFor(gap int) Status {
	switch {
	case gap <= 0:
		return StatusAchieved
	case gap <= closeGap:
		return StatusClose
	default:
		return StatusNeedsWork
	}
}

// Group orders requirements by priority and splits them into tiers.
func Group(reqs []Requirement) (critical, important, supportive []Requirement) {
	sorted := sortedByPriority(reqs)
	for _, r := range sorted {
		switch TierFor(r.Priority) {
		case TierCritical:
			critical = append(critical, r)
		case TierImportant:
			important = append(important, r)
		default:
			supportive = append(supportive, r)
		}
	}
	return critical, important, supportive
}

func sortedByPriority(reqs []Requirement) []Requirement {
	out := make([]Requirement, len(reqs))
	copy(out, reqs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].SoftSkillID < out[j].SoftSkillID
	})
	return out
}

// Calculate compares the latest normalized scores, keyed by soft-skill id,
// against the role requirements. Missing scores count as zero.
func Calculate(reqs []Requirement, latest map[int64]int) Result {
	res := Result{Gaps: []Gap{}, Critical: []Gap{}, Important: []Gap{}, Supportive: []Gap{}}

	var num, den float64
	for _, r := range sortedByPriority(reqs) {
		current, ok := latest[r.SoftSkillID]
		target := defaultTarget
		if r.TargetScore != nil {
			target = *r.TargetScore
		}
		weight := r.Weight
		if weight <= 0 {
			weight = 1
		}

		g := Gap{
			Requirement:  r,
			CurrentScore: current,
			Target:       target,
			Gap:          target - current,
			HasScore:     ok,
			Tier:         TierFor(r.Priority),
		}
		g.Status = statusFor(g.Gap)

		ratio := 1.0
		if target > 0 {
			ratio = math.Min(float64(current)/float64(target), 1)
		}
		if ratio < 0 {
			ratio = 0
		}
		num += weight * ratio
		den += weight

		switch g.Status {
		case StatusAchieved:
			res.Achieved++
		case StatusClose:
			res.Close++
		default:
			res.NeedsWork++
		}

		res.Gaps = append(res.Gaps, g)
		switch g.Tier {
		case TierCritical:
			res.Critical = append(res.Critical, g)
		case TierImportant:
			res.Important = append(res.Important, g)
		default:
			res.Supportive = append(res.Supportive, g)
		}
	}

	if den > 0 {
		res.OverallFitScore = int(math.Round(num / den * 100))
	}
	return res
}
