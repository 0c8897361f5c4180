package handler

import (
	"hrcore/internal/delivery/http/dto"
	"hrcore/internal/delivery/http/middleware"
	"hrcore/internal/pkg/response"
	"hrcore/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// CatalogHandler serves the read side of the role, sub-role and skill catalog.
type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/roles", h.ListRoles)
	r.Get("/roles/:id", h.GetRole)

	subRoles := r.Group("/sub-roles")
	subRoles.Get("/", h.ListSubRoles)
	subRoles.Get("/search", h.SearchSubRoles)
	subRoles.Get("/:id", h.GetSubRole)

	r.Get("/skills/search", h.SearchSkills)
	r.Get("/grading", h.GetGrading)
}

func (h *CatalogHandler) ListRoles(c fiber.Ctx) error {
	roles, err := h.uc.ListRoles(c.Context())
	if err != nil {
		return middleware.FromDomain(err)
	}
	res := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) GetRole(c fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	role, err := h.uc.FindRole(c.Context(), id)
	if err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toRoleResponse(role))
}

func (h *CatalogHandler) ListSubRoles(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	parent, err := optionalInt64Query(c, "parent_role_id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListSubRoles(c.Context(), actor.TenantID, parent)
	if err != nil {
		return middleware.FromDomain(err)
	}
	res := make([]dto.SubRoleResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toSubRoleResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) SearchSubRoles(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	limit, err := optionalIntQuery(c, "limit")
	if err != nil {
		return err
	}
	parent, err := optionalInt64Query(c, "parent_role_id")
	if err != nil {
		return err
	}

	matches, err := h.uc.SearchSubRoles(c.Context(), usecase.SubRoleSearchParams{
		TenantID:     actor.TenantID,
		Query:        c.Query("q"),
		Limit:        limit,
		ParentRoleID: parent,
	})
	if err != nil {
		return middleware.FromDomain(err)
	}

	res := make([]dto.SubRoleMatchResponse, 0, len(matches))
	for _, m := range matches {
		res = append(res, dto.SubRoleMatchResponse{
			SubRoleResponse: toSubRoleResponse(m.SubRole),
			MatchedOn:       string(m.MatchedOn),
			MatchedSynonym:  m.MatchedSynonym,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) GetSubRole(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	sr, err := h.uc.FindSubRole(c.Context(), actor.TenantID, id)
	if err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toSubRoleResponse(sr))
}

func (h *CatalogHandler) SearchSkills(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	subRoleID, err := optionalInt64Query(c, "sub_role_id")
	if err != nil {
		return err
	}
	employeeRoleIDs, err := uuidListQuery(c, "employee_role_ids")
	if err != nil {
		return err
	}
	limit, err := optionalIntQuery(c, "limit")
	if err != nil {
		return err
	}
	page, err := optionalIntQuery(c, "page")
	if err != nil {
		return err
	}

	params := usecase.SkillSearchParams{
		TenantID:        actor.TenantID,
		Query:           c.Query("q"),
		SubRoleID:       subRoleID,
		EmployeeRoleIDs: employeeRoleIDs,
		Limit:           limit,
	}
	if page != nil {
		params.Page = *page
	}

	items, err := h.uc.SearchSkills(c.Context(), params)
	if err != nil {
		return middleware.FromDomain(err)
	}
	res := make([]dto.SkillSearchItemResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toSkillSearchItem(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) GetGrading(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	subRoleID, err := optionalInt64Query(c, "sub_role_id")
	if err != nil {
		return err
	}
	skillID, err := optionalInt64Query(c, "skill_id")
	if err != nil {
		return err
	}
	if subRoleID == nil || skillID == nil {
		return badRequest("sub_role_id and skill_id are required", nil)
	}

	view, err := h.uc.GetGrading(c.Context(), actor.TenantID, *subRoleID, *skillID)
	if err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.GradingResponse{
		SubRoleID: view.Edge.SubRoleID,
		SkillID:   view.Edge.SkillID,
		Grading:   view.Edge.Grading,
		Value:     view.Edge.Value,
		Stars:     view.Stars,
	})
}
