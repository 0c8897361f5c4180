package softskill

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed correlations.yaml
var correlationsYAML []byte

type yamlTable struct {
	Models map[string]float64                       `yaml:"models"`
	Skills map[string]map[string]map[string]float64 `yaml:"skills"`
}

// Table maps psychometric dimensions to soft skills. It is loaded once and
// read concurrently.
type Table struct {
	weights map[Model]float64
	skills  map[string]map[Model]map[string]float64
}

// ParseTable parses a correlation table document.
func ParseTable(b []byte) (*Table, error) {
	var raw yamlTable
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse correlation table: %w", err)
	}

	t := &Table{
		weights: make(map[Model]float64, len(Models)),
		skills:  make(map[string]map[Model]map[string]float64, len(raw.Skills)),
	}
	for _, m := range Models {
		w, ok := raw.Models[string(m)]
		if !ok {
			return nil, fmt.Errorf("correlation table: missing weight for %s", m)
		}
		if w <= 0 {
			return nil, fmt.Errorf("correlation table: weight for %s must be positive", m)
		}
		t.weights[m] = w
	}

	for code, byModel := range raw.Skills {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("correlation table: empty skill code")
		}
		entry := make(map[Model]map[string]float64, len(byModel))
		for model, dims := range byModel {
			m := Model(model)
			if _, ok := t.weights[m]; !ok {
				return nil, fmt.Errorf("correlation table: unknown model %q for %s", model, code)
			}
			norm := make(map[string]float64, len(dims))
			for dim, w := range dims {
				norm[normalizeKey(dim)] = w
			}
			entry[m] = norm
		}
		t.skills[code] = entry
	}
	return t, nil
}

var defaultTable = mustParse(correlationsYAML)

func mustParse(b []byte) *Table {
	t, err := ParseTable(b)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the built-in correlation table.
func DefaultTable() *Table { return defaultTable }

func (t *Table) Weight(m Model) float64 { return t.weights[m] }

// Codes returns the soft-skill codes the table knows, sorted.
func (t *Table) Codes() []string {
	out := make([]string, 0, len(t.skills))
	for code := range t.skills {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Contribution returns the [0,100] contribution of model m to the soft skill,
// and false when the model has nothing to say about it.
func (t *Table) Contribution(code string, m Model, values map[string]float64) (float64, bool) {
	dims := t.skills[code][m]
	if len(dims) == 0 || len(values) == 0 {
		return 0, false
	}

	norm := make(map[string]float64, len(values))
	for k, v := range values {
		norm[normalizeKey(k)] = v
	}

	switch m {
	case ModelBigFive:
		sum := 50.0
		matched := false
		for dim, w := range dims {
			v, ok := norm[dim]
			if !ok {
				continue
			}
			matched = true
			sum += (v - 50) * w
		}
		if !matched {
			return 0, false
		}
		return clamp(sum, 0, 100), true
	default:
		var num, den float64
		matched := false
		for dim, w := range dims {
			v, ok := norm[dim]
			if !ok {
				continue
			}
			matched = true
			num += v * w
			den += w
		}
		if !matched || den <= 0 {
			return 0, false
		}
		return clamp(num/den, 0, 100), true
	}
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
