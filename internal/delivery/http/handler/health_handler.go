package handler

import (
	"context"
	"time"

	"hrcore/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler probes db and, when set, cache. Only the database is
// required for the service to report healthy; the cache is optional.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	data := fiber.Map{"database": "ok"}
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			data["database"] = "unavailable"
		}
	}
	if h.cache != nil {
		data["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			data["cache"] = "unavailable"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", data)
	}
	return response.Success(c, status, response.MessageOK, data)
}
