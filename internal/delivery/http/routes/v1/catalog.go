package v1

import (
	"hrcore/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// RegisterCatalog mounts the custom-entity routes before the catalog reads
// so /sub-roles/custom is never taken for a sub-role id.
func RegisterCatalog(r fiber.Router, catalog *handler.CatalogHandler, custom *handler.CustomEntityHandler, requirements *handler.RoleRequirementHandler) {
	if r == nil {
		return
	}

	if custom != nil {
		custom.RegisterRoutes(r)
	}
	if requirements != nil {
		requirements.RegisterRoutes(r)
	}
	if catalog != nil {
		catalog.RegisterRoutes(r)
	}
}
