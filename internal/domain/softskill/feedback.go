package softskill

import "math"

type Source string

const (
	SourceSelf    Source = "self"
	SourcePeer    Source = "peer"
	SourceManager Source = "manager"
)

var sourceWeights = map[Source]float64{
	SourceSelf:    0.25,
	SourcePeer:    0.35,
	SourceManager: 0.40,
}

// Sources lists feedback sources in a stable order.
var Sources = []Source{SourceSelf, SourcePeer, SourceManager}

func (s Source) Valid() bool {
	_, ok := sourceWeights[s]
	return ok
}

// Aggregated is the 360° view of one soft skill.
type Aggregated struct {
	Score      int
	Confidence float64
	Sources    []Source
}

// Aggregate360 is the weighted mean of per-source normalized scores.
// Confidence grows with total weight and the number of sources.
func Aggregate360(scores map[Source]int) (Aggregated, bool) {
	var num, totalWeight float64
	used := make([]Source, 0, len(scores))
	for _, s := range Sources {
		v, ok := scores[s]
		if !ok {
			continue
		}
		w := sourceWeights[s]
		num += w * float64(v)
		totalWeight += w
		used = append(used, s)
	}
	if totalWeight == 0 {
		return Aggregated{}, false
	}

	sourceFactor := math.Min(float64(len(used))/3, 1)
	conf := clamp(totalWeight*sourceFactor, 0, 1)

	return Aggregated{
		Score:      int(math.Round(clamp(num/totalWeight, 0, 100))),
		Confidence: math.Round(conf*100) / 100,
		Sources:    used,
	}, true
}
