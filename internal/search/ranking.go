package search

import (
	"sort"
	"strings"
)

type MatchedOn string

const (
	MatchedOnName      MatchedOn = "name"
	MatchedOnKnownName MatchedOn = "knownName"
	MatchedOnSynonym   MatchedOn = "synonym"
)

type MatchKind int

const (
	KindExactName MatchKind = iota + 1
	KindExactKnownName
	KindPartial
)

// Candidate is any catalog row that can be searched.
type Candidate struct {
	ID            int64
	CanonicalName string
	KnownName     string
	Synonyms      []string
	IsCustom      bool
}

type Match struct {
	Candidate
	Kind           MatchKind
	MatchedOn      MatchedOn
	MatchedSynonym string
}

// MatchCandidate applies the contains predicate to c for the normalized
// query q. The first field that matches, in name/knownName/synonym order,
// is reported.
func MatchCandidate(c Candidate, q string) (Match, bool) {
	if q == "" {
		return Match{}, false
	}
	name := strings.ToLower(c.CanonicalName)
	known := strings.ToLower(c.KnownName)

	m := Match{Candidate: c, Kind: KindPartial}
	switch {
	case name == q:
		m.Kind = KindExactName
	case known != "" && known == q:
		m.Kind = KindExactKnownName
	}

	switch {
	case strings.Contains(name, q):
		m.MatchedOn = MatchedOnName
		return m, true
	case known != "" && strings.Contains(known, q):
		m.MatchedOn = MatchedOnKnownName
		return m, true
	}
	for _, s := range c.Synonyms {
		if strings.Contains(strings.ToLower(s), q) {
			m.MatchedOn = MatchedOnSynonym
			m.MatchedSynonym = s
			return m, true
		}
	}
	return Match{}, false
}

// Less is the total order used for search results: match kind, then global
// before custom, then canonical name, then id.
func Less(a, b Match) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.IsCustom != b.IsCustom {
		return !a.IsCustom
	}
	an, bn := strings.ToLower(a.CanonicalName), strings.ToLower(b.CanonicalName)
	if an != bn {
		return an < bn
	}
	if a.CanonicalName != b.CanonicalName {
		return a.CanonicalName < b.CanonicalName
	}
	return a.ID < b.ID
}

// Rank filters candidates by q and returns the matches in ranked order,
// truncated to limit when limit > 0.
func Rank(candidates []Candidate, q string, limit int) []Match {
	out := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if m, ok := MatchCandidate(c, q); ok {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
