package softskill

import "math"

const (
	neutralScore     = 50.0
	defaultPercent   = 50
	trendSensitivity = 5
)

// Result is the outcome of scoring one soft skill from one assessment.
type Result struct {
	Code            string
	RawScore        float64
	NormalizedScore int
	Confidence      float64
	Level           Level
	Contributions   map[Model]float64
	Models          []Model
}

// Score computes the weighted soft-skill score over the models present in r.
// With no contributing model the score is neutral with zero confidence.
func (t *Table) Score(code string, r Responses) Result {
	res := Result{Code: code, Contributions: map[Model]float64{}, Models: []Model{}}

	var num, totalWeight float64
	for _, m := range Models {
		c, ok := t.Contribution(code, m, r.values(m))
		if !ok {
			continue
		}
		w := t.weights[m]
		num += w * c
		totalWeight += w
		res.Contributions[m] = c
		res.Models = append(res.Models, m)
	}

	if totalWeight == 0 {
		res.RawScore = neutralScore
		res.NormalizedScore = int(neutralScore)
		res.Confidence = 0
		res.Level = LevelFor(res.NormalizedScore)
		return res
	}

	// six decimals keeps x.5 boundaries from flipping on float error
	raw := math.Round(num/totalWeight*1e6) / 1e6
	res.RawScore = raw
	res.NormalizedScore = int(math.Round(clamp(raw, 0, 100)))
	res.Confidence = math.Round(totalWeight*100) / 100
	res.Level = LevelFor(res.NormalizedScore)
	return res
}

func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelExpert
	case score >= 60:
		return LevelAdvanced
	case score >= 40:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// Percentile is the share of population strictly below score, in [0,100].
// An empty population yields 50.
func Percentile(score int, population []int) int {
	if len(population) == 0 {
		return defaultPercent
	}
	below := 0
	for _, p := range population {
		if p < score {
			below++
		}
	}
	return int(math.Round(float64(below) * 100 / float64(len(population))))
}

// TrendFor compares current against the most recent prior score. prior is
// ordered newest first.
func TrendFor(current int, prior []int) Trend {
	if len(prior) == 0 {
		return TrendStable
	}
	diff := current - prior[0]
	switch {
	case diff > trendSensitivity:
		return TrendImproving
	case diff < -trendSensitivity:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Distribution counts stored normalized scores of one soft skill by value.
type Distribution map[int]int

// Percentile is the share of the distribution strictly below score.
func (d Distribution) Percentile(score int) int {
	var below, total int
	for v, n := range d {
		total += n
		if v < score {
			below += n
		}
	}
	if total == 0 {
		return defaultPercent
	}
	return int(math.Round(float64(below) * 100 / float64(total)))
}
