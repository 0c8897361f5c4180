package ai

import (
	"context"
	"time"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	Timeout     time.Duration
	JSON        bool
}

type ChatResponse struct {
	Content string
	Model   string
}

// ChatProvider is the external chat model the classifier talks to.
type ChatProvider interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (ChatResponse, error)
}
