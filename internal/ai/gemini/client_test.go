package gemini

import (
	"context"
	"testing"

	"hrcore/internal/ai"

	"google.golang.org/genai"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "   ", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestBuildRequest(t *testing.T) {
	contents, cfg, err := buildRequest([]ai.Message{
		{Role: ai.RoleSystem, Content: "pick one"},
		{Role: ai.RoleUser, Content: " classify X "},
		{Role: ai.RoleUser, Content: "   "},
	}, ai.ChatOptions{Temperature: 0.1, MaxTokens: 256, JSON: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(contents) != 1 || contents[0].Parts[0].Text != "classify X" || contents[0].Role != genai.RoleUser {
		t.Fatalf("unexpected contents: %+v", contents)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "pick one" {
		t.Fatalf("expected system instruction")
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.1 {
		t.Fatalf("unexpected temperature")
	}
	if cfg.MaxOutputTokens != 256 || cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestBuildRequest_EmptyPrompt(t *testing.T) {
	if _, _, err := buildRequest([]ai.Message{{Role: ai.RoleSystem, Content: "only system"}}, ai.ChatOptions{}); err == nil {
		t.Fatalf("expected error without user content")
	}
}

func TestJoinCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		nil,
		{Content: &genai.Content{Parts: []*genai.Part{{Text: " {\"a\":"}, nil, {Text: "1}"}}}},
	}}
	if got := joinCandidates(resp); got != "{\"a\":\n1}" {
		t.Fatalf("unexpected join: %q", got)
	}
	if joinCandidates(nil) != "" {
		t.Fatalf("nil response must join to empty")
	}
}

func TestNilClientChat(t *testing.T) {
	var c *Client
	if _, err := c.Chat(context.Background(), nil, ai.ChatOptions{}); err == nil {
		t.Fatalf("expected error from nil client")
	}
}
