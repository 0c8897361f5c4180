package repository

import (
	"fmt"

	"hrcore/internal/database/postgres"
	"hrcore/internal/domain"
)

// translate maps a data-access error onto the domain taxonomy. Unique
// violations are left to callers because only they know the entity name.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case postgres.IsNoRows(err):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	case postgres.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s: row is referenced", domain.ErrConflict, op)
	case postgres.IsCheckViolation(err):
		return fmt.Errorf("%w: %s: %v", domain.ErrValidation, op, err)
	default:
		return domain.Internal(op, err)
	}
}

// translateCreate reports a unique violation as a tenant-scope duplicate.
// Global collisions are caught by the existence check before the insert.
func translateCreate(op, entity, name string, err error) error {
	if _, ok := postgres.UniqueViolation(err); ok {
		return domain.NewDuplicateError(entity, name, domain.ScopeTenant)
	}
	return translate(op, err)
}

func scopeOf(tenantID *string) string {
	if tenantID == nil {
		return domain.ScopeGlobal
	}
	return domain.ScopeTenant
}
