package v1

import (
	"hrcore/internal/delivery/http/handler"
	"hrcore/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Catalog      *handler.CatalogHandler
	Custom       *handler.CustomEntityHandler
	Requirements *handler.RoleRequirementHandler
	Employees    *handler.EmployeeHandler
	Events       *ws.Handler
}

// Register mounts every v1 route behind auth. The tenant of each request
// comes from the token.
func Register(r fiber.Router, auth fiber.Handler, h Handlers) {
	if r == nil {
		return
	}

	protected := r
	if auth != nil {
		protected = r.Group("", auth)
	}

	RegisterCatalog(protected, h.Catalog, h.Custom, h.Requirements)
	RegisterEmployees(protected, h.Employees)
	if h.Events != nil {
		h.Events.RegisterRoutes(protected)
	}
}
