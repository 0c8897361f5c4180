package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const cachePrefix = "catalog:"

type subRoleSearchCacheKeyInput struct {
	Query        string `json:"q"`
	Limit        int    `json:"limit"`
	ParentRoleID *int64 `json:"parent_role_id,omitempty"`
}

type skillSearchCacheKeyInput struct {
	Query     string  `json:"q"`
	SubRoleID *int64  `json:"sub_role_id,omitempty"`
	Sources   []int64 `json:"sources,omitempty"`
	Limit     int     `json:"limit"`
	Page      int     `json:"page"`
}

func hashKey(v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func tenantCachePrefix(tenantID string) string {
	return cachePrefix + strings.TrimSpace(tenantID) + ":"
}

func SubRoleSearchCacheKey(tenantID, q string, limit int, parentRoleID *int64) string {
	in := subRoleSearchCacheKeyInput{Query: q, Limit: limit, ParentRoleID: parentRoleID}
	return tenantCachePrefix(tenantID) + "sub-roles:" + hashKey(in)
}

func SkillSearchCacheKey(tenantID, q string, subRoleID *int64, sources []int64, limit, page int) string {
	in := skillSearchCacheKeyInput{Query: q, SubRoleID: subRoleID, Sources: sources, Limit: limit, Page: page}
	return tenantCachePrefix(tenantID) + "skills:" + hashKey(in)
}

// TenantCachePattern matches every cached search of one tenant.
func TenantCachePattern(tenantID string) string {
	return tenantCachePrefix(tenantID) + "*"
}

// GlobalCachePattern matches every cached search; used after the shared
// catalog changes.
func GlobalCachePattern() string {
	return cachePrefix + "*"
}
