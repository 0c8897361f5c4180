package search

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinQueryLength = 2
	MaxQueryLength = 100

	DefaultLimit = 50
	MaxLimit     = 100
)

var (
	ErrQueryTooShort = errors.New("query must be at least 2 characters")
	ErrQueryTooLong  = errors.New("query must be at most 100 characters")
	ErrInvalidLimit  = errors.New("limit must be at least 1")
)

// NormalizeQuery trims and lowercases the query. Punctuation is kept because
// matching is a substring test against names like "Front-end Developer".
func NormalizeQuery(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ValidateQuery normalizes q and enforces the 2..100 rune length bounds.
func ValidateQuery(q string) (string, error) {
	n := NormalizeQuery(q)
	switch l := utf8.RuneCountInString(n); {
	case l < MinQueryLength:
		return "", ErrQueryTooShort
	case l > MaxQueryLength:
		return "", ErrQueryTooLong
	}
	return n, nil
}

// ClampLimit applies the default for an unset limit (nil) and caps large
// values. Values below 1 are rejected.
func ClampLimit(limit *int) (int, error) {
	if limit == nil {
		return DefaultLimit, nil
	}
	if *limit < 1 {
		return 0, ErrInvalidLimit
	}
	if *limit > MaxLimit {
		return MaxLimit, nil
	}
	return *limit, nil
}

// LikePattern escapes LIKE metacharacters and wraps q for a contains match.
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
