package grading

import "sort"

type Relevance string

const (
	RelevanceCore      Relevance = "core"
	RelevanceSecondary Relevance = "secondary"
	RelevanceTertiary  Relevance = "tertiary"
	RelevanceNonCore   Relevance = "non-core"
)

const (
	DefaultCoreThreshold = 0.85
	DefaultRadarLimit    = 7
	secondaryFloor       = 0.5
)

// Classify buckets a grading relative to one sub-role. A nil grading is
// non-core, same as zero.
func Classify(g *float64, coreThreshold float64) Relevance {
	if g == nil || *g <= 0 {
		return RelevanceNonCore
	}
	switch {
	case *g >= coreThreshold:
		return RelevanceCore
	case *g >= secondaryFloor:
		return RelevanceSecondary
	default:
		return RelevanceTertiary
	}
}

// SkillInput is an employee skill joined with its grading for one sub-role.
type SkillInput struct {
	ID               int64
	Name             string
	ProficiencyLevel int
	Grading          *float64
	Value            float64
}

type ProjectedSkill struct {
	ID               int64
	Name             string
	ProficiencyLevel int
	Grading          *float64
	Value            float64
	Relevance        Relevance
}

func gradingOrZero(g *float64) float64 {
	if g == nil {
		return 0
	}
	return *g
}

// Select picks at most limit skills for a radar chart: core first, then
// secondary, then the remaining skills by proficiency.
func Select(skills []SkillInput, limit int, coreThreshold float64) []ProjectedSkill {
	if limit <= 0 {
		limit = DefaultRadarLimit
	}
	if coreThreshold <= 0 {
		coreThreshold = DefaultCoreThreshold
	}

	all := make([]ProjectedSkill, 0, len(skills))
	for _, s := range skills {
		if s.ProficiencyLevel <= 0 {
			continue
		}
		all = append(all, ProjectedSkill{
			ID:               s.ID,
			Name:             s.Name,
			ProficiencyLevel: s.ProficiencyLevel,
			Grading:          s.Grading,
			Value:            s.Value,
			Relevance:        Classify(s.Grading, coreThreshold),
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		gi, gj := gradingOrZero(all[i].Grading), gradingOrZero(all[j].Grading)
		if gi != gj {
			return gi > gj
		}
		if all[i].ProficiencyLevel != all[j].ProficiencyLevel {
			return all[i].ProficiencyLevel > all[j].ProficiencyLevel
		}
		return all[i].ID < all[j].ID
	})

	var core, secondary, rest []ProjectedSkill
	for _, s := range all {
		switch s.Relevance {
		case RelevanceCore:
			core = append(core, s)
		case RelevanceSecondary:
			secondary = append(secondary, s)
		default:
			rest = append(rest, s)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].ProficiencyLevel != rest[j].ProficiencyLevel {
			return rest[i].ProficiencyLevel > rest[j].ProficiencyLevel
		}
		return gradingOrZero(rest[i].Grading) > gradingOrZero(rest[j].Grading)
	})

	out := make([]ProjectedSkill, 0, limit)
	for _, bucket := range [][]ProjectedSkill{core, secondary, rest} {
		for _, s := range bucket {
			if len(out) == limit {
				return out
			}
			out = append(out, s)
		}
	}
	return out
}
