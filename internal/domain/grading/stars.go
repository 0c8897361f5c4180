package grading

import "math"

// Stars is the five-star rendering of a grading.
type Stars struct {
	FullStars   int  `json:"full_stars"`
	PartialStar int  `json:"partial_star"`
	IsNull      bool `json:"is_null"`
}

// ToStars converts a grading in [0,1] to full stars plus the percentage fill
// of the next star. Work is done in hundredths of a star so the mapping stays
// monotonic.
func ToStars(g *float64) Stars {
	if g == nil {
		return Stars{IsNull: true}
	}
	if *g >= 1 {
		return Stars{FullStars: 5}
	}
	if *g <= 0 || math.IsNaN(*g) {
		return Stars{}
	}
	hundredths := int(math.Round(*g * 500))
	return Stars{FullStars: hundredths / 100, PartialStar: hundredths % 100}
}

// SourceGrading is the grading of one skill under one of the employee's
// sub-roles.
type SourceGrading struct {
	SubRoleID int64
	Grading   *float64
}

// MaxGrading returns the highest non-null grading and the sub-role it came
// from. Ties keep the earliest entry.
func MaxGrading(entries []SourceGrading) (*float64, int64, bool) {
	var best *float64
	var source int64
	for _, e := range entries {
		if e.Grading == nil {
			continue
		}
		if best == nil || *e.Grading > *best {
			v := *e.Grading
			best = &v
			source = e.SubRoleID
		}
	}
	return best, source, best != nil
}
