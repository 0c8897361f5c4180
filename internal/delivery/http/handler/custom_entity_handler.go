package handler

import (
	"hrcore/internal/delivery/http/dto"
	"hrcore/internal/delivery/http/middleware"
	"hrcore/internal/pkg/response"
	"hrcore/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// CustomEntityHandler creates and deletes a tenant's own sub-roles and skills.
type CustomEntityHandler struct {
	uc usecase.CustomEntityUsecase
}

func NewCustomEntityHandler(uc usecase.CustomEntityUsecase) *CustomEntityHandler {
	return &CustomEntityHandler{uc: uc}
}

func (h *CustomEntityHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/sub-roles/custom", h.CreateSubRole)
	r.Delete("/sub-roles/custom/:id", h.DeleteSubRole)
	r.Post("/skills/custom", h.CreateSkill)
	r.Delete("/skills/custom/:id", h.DeleteSkill)
}

func (h *CustomEntityHandler) CreateSubRole(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateSubRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	created, err := h.uc.CreateCustomSubRole(c.Context(), usecase.CreateSubRoleParams{
		TenantID:   actor.TenantID,
		ActorID:    actor.ActorID,
		CustomName: req.CustomName,
	})
	if err != nil {
		return middleware.FromDomain(err)
	}

	cl := created.Classification
	alternatives := cl.Alternatives
	if alternatives == nil {
		alternatives = []int64{}
	}
	return response.Success(c, fiber.StatusCreated, "Sub-role created", dto.CreatedSubRoleResponse{
		SubRole: toSubRoleResponse(created.SubRole),
		AIClassification: dto.AIClassificationResponse{
			ParentRoleID:   cl.ParentRoleID,
			ParentRoleName: cl.ParentRoleName,
			Confidence:     cl.Confidence,
			Reasoning:      cl.Reasoning,
			Alternatives:   alternatives,
			LowConfidence:  created.LowConfidence,
			Model:          cl.Model,
		},
	})
}

func (h *CustomEntityHandler) DeleteSubRole(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteCustomSubRole(c.Context(), actor.TenantID, id); err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"deleted": true})
}

func (h *CustomEntityHandler) CreateSkill(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	created, err := h.uc.CreateCustomSkill(c.Context(), usecase.CreateSkillParams{
		TenantID: actor.TenantID,
		ActorID:  actor.ActorID,
		Name:     req.Name,
		Synonyms: req.Synonyms,
		Category: req.Category,
	})
	if err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusCreated, "Skill created", toSkillResponse(created))
}

func (h *CustomEntityHandler) DeleteSkill(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteCustomSkill(c.Context(), actor.TenantID, id); err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"deleted": true})
}
