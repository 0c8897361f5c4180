package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrcore/internal/ai"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.5-flash"
)

// Client implements ai.ChatProvider over the Google GenAI SDK.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, modelName: model}, nil
}

// Chat sends the conversation and returns the joined text of all candidates.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ai.ChatOptions) (ai.ChatResponse, error) {
	if c == nil || c.client == nil {
		return ai.ChatResponse{}, errors.New("gemini client is not initialized")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = c.modelName
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	contents, cfg, err := buildRequest(messages, opts)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("generate content: %w", err)
	}

	output := joinCandidates(resp)
	if output == "" {
		return ai.ChatResponse{}, errors.New("gemini api returned empty response")
	}

	return ai.ChatResponse{Content: output, Model: model}, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

func buildRequest(messages []ai.Message, opts ai.ChatOptions) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		t := opts.Temperature
		cfg.Temperature = &t
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxTokens
	}
	if opts.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		switch m.Role {
		case ai.RoleSystem:
			system = append(system, &genai.Part{Text: text})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: text}},
			})
		}
	}
	if len(contents) == 0 {
		return nil, nil, errors.New("prompt must not be empty")
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, cfg, nil
}

func joinCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
