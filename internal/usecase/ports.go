package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hrcore/internal/ai"
	"hrcore/internal/domain"
)

// Classifier assigns a parent role to a custom sub-role name.
type Classifier interface {
	ClassifySubRole(ctx context.Context, name string, parents []ai.ParentRole) (ai.Classification, error)
	GenerateSynonyms(ctx context.Context, name string) []string
}

// CatalogEvent describes a change to a tenant's custom catalog.
type CatalogEvent struct {
	Type     string `json:"type"`
	Entity   string `json:"entity"`
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	TenantID string `json:"tenant_id"`
}

const (
	EventCreated = "catalog_entry_created"
	EventDeleted = "catalog_entry_deleted"

	EntitySubRole = "sub-role"
	EntitySkill   = "skill"
)

// CatalogNotifier pushes catalog changes to connected clients of a tenant.
type CatalogNotifier interface {
	NotifyCatalogChanged(evt CatalogEvent)
}

type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

const (
	minNameLength = 2
	maxNameLength = 100
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

// normalizeName trims and collapses inner whitespace, then enforces the
// 2..100 rune bound.
func normalizeName(field, raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	switch n := utf8.RuneCountInString(name); {
	case n < minNameLength:
		return "", invalid("%s must be at least %d characters", field, minNameLength)
	case n > maxNameLength:
		return "", invalid("%s must be at most %d characters", field, maxNameLength)
	}
	return name, nil
}

func requireTenant(tenantID string) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", fmt.Errorf("%w: tenant is required", domain.ErrAuthorization)
	}
	return tenantID, nil
}
