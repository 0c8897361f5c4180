package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("duplicate")
	ErrClassification = errors.New("classification error")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
)

const (
	ScopeGlobal = "global"
	ScopeTenant = "tenant"
)

// DuplicateError reports a catalog name collision and the scope that already holds it.
type DuplicateError struct {
	Entity string
	Name   string
	Scope  string
}

func (e *DuplicateError) Error() string {
	if e == nil {
		return ErrDuplicate.Error()
	}
	scope := e.Scope
	if scope == "" {
		scope = "catalog"
	}
	return fmt.Sprintf("%s %q already exists in %s scope", e.Entity, e.Name, scope)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func NewDuplicateError(entity, name, scope string) *DuplicateError {
	return &DuplicateError{Entity: entity, Name: name, Scope: scope}
}

// Internal wraps an unrecoverable data-access failure.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
