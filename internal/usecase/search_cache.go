package usecase

import (
	"context"
	"time"
)

// SearchCache stores catalog search results. Implementations bypass silently
// when the backend is unavailable.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}
