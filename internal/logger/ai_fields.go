package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldComponent is the structured log field key for the AI component name.
	FieldComponent = "ai_component"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// StringFields converts key/value pairs into zap fields, omitting entries
// with an empty key or value.
func StringFields(kv ...string) []zap.Field {
	result := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(kv[i])
		value := strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithCommonFields attaches the AI component and model to the logger.
// A nil logger becomes a no-op logger.
func WithCommonFields(l *zap.Logger, component, model string) *zap.Logger {
	l = OrNop(l)
	fields := StringFields(FieldComponent, component, FieldModel, model)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
