package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "  hello ", limit: 10, want: "hello"},
		{name: "truncated", in: "abcdef", limit: 3, want: "abc..."},
		{name: "multibyte", in: "éééé", limit: 2, want: "éé..."},
		{name: "zero limit", in: "abc", limit: 0, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestOrNopAndTenantField(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected no-op logger")
	}

	core, observed := observer.New(zapcore.InfoLevel)
	l := OrNop(zap.New(core))
	l.Info("created", Tenant(" t1 "))

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["tenant_id"] != "t1" {
		t.Fatalf("unexpected tenant field: %v", entries[0].ContextMap())
	}
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := WithCommonFields(zap.New(core), "classifier", " ")
	l.Info("classified")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldComponent] != "classifier" {
		t.Fatalf("expected component field, got %v", ctx)
	}
	if _, ok := ctx[FieldModel]; ok {
		t.Fatalf("empty model must be omitted")
	}
	if WithCommonFields(nil, "", "") == nil {
		t.Fatalf("expected no-op logger")
	}
}
