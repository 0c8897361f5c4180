package handler

import (
	"hrcore/internal/delivery/http/dto"
	"hrcore/internal/delivery/http/middleware"
	"hrcore/internal/pkg/response"
	"hrcore/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RoleRequirementHandler struct {
	uc usecase.RoleFitUsecase
}

func NewRoleRequirementHandler(uc usecase.RoleFitUsecase) *RoleRequirementHandler {
	return &RoleRequirementHandler{uc: uc}
}

func (h *RoleRequirementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/roles/:id/requirements", h.List)
}

func (h *RoleRequirementHandler) List(c fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	g, err := h.uc.GetRoleSkillRequirements(c.Context(), id)
	if err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RoleRequirementsResponse{
		Role:       toRoleResponse(g.Role),
		Critical:   toRequirements(g.Critical),
		Important:  toRequirements(g.Important),
		Supportive: toRequirements(g.Supportive),
	})
}
