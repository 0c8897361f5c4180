package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"hrcore/internal/domain"
	"hrcore/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultClassifyTimeout = 15 * time.Second
	DefaultSynonymTimeout  = 8 * time.Second
	LowConfidence          = 0.7

	defaultTemperature  = 0.1
	defaultMaxTokens    = 800
	defaultMaxLogLength = 200
	maxSynonyms         = 10
	maxSynonymLength    = 100
	maxAlternatives     = 3
	// percentFloor separates a slightly overshot ratio (clamped to 1) from a
	// percentage.
	percentFloor = 1.5
)

// ParentRole is a candidate parent offered to the model.
type ParentRole struct {
	ID   int64
	Name string
}

type Classification struct {
	ParentRoleID   int64   `json:"parent_role_id"`
	ParentRoleName string  `json:"parent_role_name"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Alternatives   []int64 `json:"alternatives"`
	Model          string  `json:"model"`
}

// IsLowConfidence reports whether the caller should offer alternatives.
func (c Classification) IsLowConfidence() bool {
	return c.Confidence < LowConfidence
}

type ClassifierConfig struct {
	Model           string
	Temperature     float32
	MaxTokens       int32
	ClassifyTimeout time.Duration
	SynonymTimeout  time.Duration
	MaxLogLength    int
}

// Classifier assigns custom sub-roles to parent roles and proposes synonyms.
// Each call is a single attempt; results are not cached.
type Classifier struct {
	provider ChatProvider
	cfg      ClassifierConfig
	logger   *zap.Logger
}

func NewClassifier(provider ChatProvider, cfg ClassifierConfig, log *zap.Logger) *Classifier {
	if cfg.ClassifyTimeout <= 0 {
		cfg.ClassifyTimeout = DefaultClassifyTimeout
	}
	if cfg.SynonymTimeout <= 0 {
		cfg.SynonymTimeout = DefaultSynonymTimeout
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}
	return &Classifier{
		provider: provider,
		cfg:      cfg,
		logger:   logger.WithCommonFields(logger.OrNop(log), "classifier", cfg.Model),
	}
}

func classificationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrClassification, fmt.Sprintf(format, args...))
}

// ClassifySubRole asks the model to pick exactly one parent role for name.
// Any transport failure, timeout or schema violation is a classification
// error.
func (c *Classifier) ClassifySubRole(ctx context.Context, name string, parents []ParentRole) (Classification, error) {
	if c == nil || c.provider == nil {
		return Classification{}, classificationError("classifier is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Classification{}, classificationError("empty sub-role name")
	}
	if len(parents) == 0 {
		return Classification{}, classificationError("no parent roles to choose from")
	}

	msgs := classifyMessages(name, parents)
	raw, model, err := c.chat(ctx, msgs, c.cfg.ClassifyTimeout, "classify_sub_role", name)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Classification{}, classificationError("classification timed out")
		}
		return Classification{}, classificationError("chat request failed: %v", err)
	}

	out, err := parseClassification(raw, parents)
	if err != nil {
		c.logger.Warn("classification rejected",
			zap.String("sub_role", name),
			zap.Error(err),
			zap.String("response_preview", logger.TruncateForLog(raw, c.cfg.MaxLogLength)),
		)
		return Classification{}, err
	}
	out.Model = model

	c.logger.Info("sub-role classified",
		zap.String("sub_role", name),
		zap.Int64("parent_role_id", out.ParentRoleID),
		zap.Float64("confidence", out.Confidence),
		zap.Bool("low_confidence", out.IsLowConfidence()),
	)
	return out, nil
}

// GenerateSynonyms is best effort: every failure yields an empty list.
func (c *Classifier) GenerateSynonyms(ctx context.Context, name string) []string {
	if c == nil || c.provider == nil {
		return []string{}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{}
	}

	raw, _, err := c.chat(ctx, synonymMessages(name), c.cfg.SynonymTimeout, "generate_synonyms", name)
	if err != nil {
		c.logger.Warn("synonym generation failed", zap.String("name", name), zap.Error(err))
		return []string{}
	}
	syns, err := parseSynonyms(raw, name)
	if err != nil {
		c.logger.Warn("synonym response unparsable",
			zap.String("name", name),
			zap.Error(err),
			zap.String("response_preview", logger.TruncateForLog(raw, c.cfg.MaxLogLength)),
		)
		return []string{}
	}
	return syns
}

func (c *Classifier) chat(ctx context.Context, msgs []Message, timeout time.Duration, op, subject string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := msgs[len(msgs)-1].Content
	c.logger.Debug("chat request",
		zap.String("op", op),
		zap.String("subject", subject),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.cfg.MaxLogLength)),
	)

	resp, err := c.provider.Chat(ctx, msgs, ChatOptions{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Timeout:     timeout,
		JSON:        true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", "", fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return "", "", err
	}

	c.logger.Debug("chat response",
		zap.String("op", op),
		zap.String("subject", subject),
		zap.Int("response_length", utf8.RuneCountInString(resp.Content)),
		zap.String("response_preview", logger.TruncateForLog(resp.Content, c.cfg.MaxLogLength)),
	)

	model := resp.Model
	if model == "" {
		model = c.cfg.Model
	}
	return resp.Content, model, nil
}

func classifyMessages(name string, parents []ParentRole) []Message {
	var b strings.Builder
	b.WriteString("You classify job titles into a fixed catalog of parent roles.\n")
	b.WriteString("Allowed parent roles (id: name):\n")
	for _, p := range parents {
		fmt.Fprintf(&b, "- %d: %s\n", p.ID, p.Name)
	}
	b.WriteString("Respond with JSON only, no prose, using this schema:\n")
	b.WriteString(`{"parentRoleId": <id from the list>, "parentRoleName": "<name>", "confidence": <0..1>, "reasoning": "<one sentence>", "alternatives": [<up to 3 other ids from the list>]}`)

	user := fmt.Sprintf("Choose exactly one parent role for the sub-role %q. Use only ids from the list.", name)
	return []Message{
		{Role: RoleSystem, Content: b.String()},
		{Role: RoleUser, Content: user},
	}
}

func synonymMessages(name string) []Message {
	system := "You generate alternative job titles. Respond with JSON only: " +
		`{"synonyms": ["<title>", ...]} with at most 5 entries, no duplicates, no explanations.`
	user := fmt.Sprintf("List common alternative titles, abbreviations and spellings for %q.", name)
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

func parseClassification(raw string, parents []ParentRole) (Classification, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return Classification{}, classificationError("parse response: %v", err)
	}

	allowed := make(map[int64]string, len(parents))
	for _, p := range parents {
		allowed[p.ID] = p.Name
	}

	idRaw, ok := firstKey(data, "parentRoleId", "parent_role_id")
	if !ok {
		return Classification{}, classificationError("parentRoleId missing")
	}
	id, ok := coerceID(idRaw)
	if !ok {
		return Classification{}, classificationError("parentRoleId is not an id: %v", idRaw)
	}
	parentName, ok := allowed[id]
	if !ok {
		return Classification{}, classificationError("parentRoleId %d is not an allowed parent", id)
	}

	conf := 0.0
	if v, ok := firstKey(data, "confidence"); ok {
		conf = coerceFloat(v)
	}
	switch {
	case math.IsNaN(conf) || conf < 0:
		conf = 0
	case conf > percentFloor && conf <= 100:
		conf /= 100
	case conf > 1:
		conf = 1
	}

	reasoning := ""
	if v, ok := firstKey(data, "reasoning"); ok {
		reasoning = coerceString(v)
	}

	alts := make([]int64, 0, maxAlternatives)
	if v, ok := firstKey(data, "alternatives"); ok {
		items, _ := v.([]any)
		seen := map[int64]struct{}{id: {}}
		for _, it := range items {
			if obj, ok := it.(map[string]any); ok {
				it, _ = firstKey(obj, "parentRoleId", "id")
			}
			altID, ok := coerceID(it)
			if !ok {
				continue
			}
			if _, ok := allowed[altID]; !ok {
				continue
			}
			if _, dup := seen[altID]; dup {
				continue
			}
			seen[altID] = struct{}{}
			alts = append(alts, altID)
			if len(alts) == maxAlternatives {
				break
			}
		}
	}

	return Classification{
		ParentRoleID:   id,
		ParentRoleName: parentName,
		Confidence:     conf,
		Reasoning:      reasoning,
		Alternatives:   alts,
	}, nil
}

func parseSynonyms(raw, name string) ([]string, error) {
	cleaned := extractJSON(raw)

	var items []string
	if strings.HasPrefix(cleaned, "[") {
		var arr []any
		if err := jsonUnmarshal(cleaned, &arr); err != nil {
			return nil, err
		}
		items = coerceStrings(arr)
	} else {
		data, err := decodeObject(cleaned)
		if err != nil {
			return nil, err
		}
		v, _ := firstKey(data, "synonyms")
		items = coerceStrings(v)
	}

	out := make([]string, 0, len(items))
	seen := map[string]struct{}{strings.ToLower(strings.TrimSpace(name)): {}}
	for _, s := range items {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" || utf8.RuneCountInString(s) > maxSynonymLength {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == maxSynonyms {
			break
		}
	}
	return out, nil
}

func firstKey(data map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
