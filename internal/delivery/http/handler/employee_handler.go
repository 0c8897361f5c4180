package handler

import (
	"strconv"

	"hrcore/internal/delivery/http/dto"
	"hrcore/internal/delivery/http/middleware"
	"hrcore/internal/domain/softskill"
	"hrcore/internal/pkg/response"
	"hrcore/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// EmployeeHandler serves per-employee projections, scores and role fit.
type EmployeeHandler struct {
	projection usecase.ProjectionUsecase
	scoring    usecase.ScoringUsecase
	roleFit    usecase.RoleFitUsecase
}

func NewEmployeeHandler(projection usecase.ProjectionUsecase, scoring usecase.ScoringUsecase, roleFit usecase.RoleFitUsecase) *EmployeeHandler {
	return &EmployeeHandler{projection: projection, scoring: scoring, roleFit: roleFit}
}

func (h *EmployeeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/employees/:id")
	grp.Get("/role-skills", h.RoleSkills)
	grp.Get("/seniority", h.Seniority)
	grp.Post("/assessments/:assessmentId/scores", h.ScoreAssessment)
	grp.Post("/feedback-aggregate", h.AggregateFeedback)
	grp.Get("/role-fit/:roleId", h.RoleFit)
}

func (h *EmployeeHandler) RoleSkills(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	employeeID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	limit, err := optionalIntQuery(c, "limit")
	if err != nil {
		return err
	}
	params := usecase.ProjectionParams{TenantID: actor.TenantID, EmployeeID: employeeID}
	if limit != nil {
		if *limit == 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fiber.Map{"error": "limit must be between 1 and 100"}, nil)
		}
		params.Limit = *limit
	}
	if raw := c.Query("core_threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v == 0 {
			return badRequest("Invalid core_threshold", err)
		}
		params.CoreThreshold = v
	}

	items, err := h.projection.GetEmployeeRoleSkillProjection(c.Context(), params)
	if err != nil {
		return middleware.FromDomain(err)
	}
	res := make([]dto.RoleProjectionResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.RoleProjectionResponse{
			EmployeeRoleID: it.EmployeeRoleID,
			RoleID:         it.RoleID,
			SubRoleID:      it.SubRoleID,
			DisplayName:    it.DisplayName,
			Skills:         toProjectedSkills(it.Skills),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *EmployeeHandler) Seniority(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	employeeID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	s, err := h.projection.GetEmployeeSeniority(c.Context(), actor.TenantID, employeeID)
	if err != nil {
		return middleware.FromDomain(err)
	}
	perRole := make([]dto.RoleSeniorityResponse, 0, len(s.PerRole))
	for _, r := range s.PerRole {
		perRole = append(perRole, dto.RoleSeniorityResponse{RoleID: r.RoleID, SubRoleID: r.SubRoleID, Years: r.Years, Level: string(r.Level)})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SeniorityResponse{
		Overall: string(s.Overall),
		Source:  string(s.Source),
		PerRole: perRole,
	})
}

func (h *EmployeeHandler) ScoreAssessment(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	employeeID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	assessmentID, err := uuidParam(c, "assessmentId")
	if err != nil {
		return err
	}
	var req dto.ScoreAssessmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	scores, err := h.scoring.ScoreAssessment(c.Context(), usecase.ScoreAssessmentParams{
		TenantID:     actor.TenantID,
		EmployeeID:   employeeID,
		AssessmentID: assessmentID,
		Responses:    softskill.Responses{BigFive: req.BigFive, DISC: req.DISC, Belbin: req.Belbin},
	})
	if err != nil {
		return middleware.FromDomain(err)
	}

	res := make([]dto.SoftSkillScoreResponse, 0, len(scores))
	for _, s := range scores {
		contributions := make(map[string]float64, len(s.Details.Contributions))
		for m, v := range s.Details.Contributions {
			contributions[string(m)] = v
		}
		res = append(res, dto.SoftSkillScoreResponse{
			ID:              s.ID,
			SoftSkillID:     s.SoftSkillID,
			SoftSkillCode:   s.SoftSkillCode,
			SoftSkillName:   s.SoftSkillName,
			AssessmentID:    s.AssessmentID,
			RawScore:        s.RawScore,
			NormalizedScore: s.NormalizedScore,
			Percentile:      s.Percentile,
			Level:           string(s.Level),
			Confidence:      s.Confidence,
			Contributions:   contributions,
			Trend:           string(s.Trend),
			History:         s.History,
			CalculatedAt:    s.CalculatedAt,
		})
	}
	return response.Success(c, fiber.StatusCreated, "Assessment scored", res)
}

func (h *EmployeeHandler) AggregateFeedback(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	employeeID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.FeedbackAggregateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	sources := map[softskill.Source]uuid.UUID{}
	for src, id := range map[softskill.Source]*uuid.UUID{
		softskill.SourceSelf:    req.Self,
		softskill.SourcePeer:    req.Peer,
		softskill.SourceManager: req.Manager,
	} {
		if id != nil {
			sources[src] = *id
		}
	}

	items, err := h.scoring.AggregateFeedback(c.Context(), usecase.FeedbackParams{
		TenantID:   actor.TenantID,
		EmployeeID: employeeID,
		Sources:    sources,
	})
	if err != nil {
		return middleware.FromDomain(err)
	}

	res := make([]dto.AggregatedSkillResponse, 0, len(items))
	for _, it := range items {
		scores := make(map[string]int, len(it.Scores))
		for src, v := range it.Scores {
			scores[string(src)] = v
		}
		used := make([]string, 0, len(it.Sources))
		for _, src := range it.Sources {
			used = append(used, string(src))
		}
		res = append(res, dto.AggregatedSkillResponse{
			SoftSkillID:   it.SoftSkillID,
			SoftSkillCode: it.SoftSkillCode,
			SoftSkillName: it.SoftSkillName,
			Scores:        scores,
			Score:         it.Score,
			Confidence:    it.Confidence,
			Sources:       used,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *EmployeeHandler) RoleFit(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	employeeID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	roleID, err := int64Param(c, "roleId")
	if err != nil {
		return err
	}

	rep, err := h.roleFit.GetRoleFit(c.Context(), actor.TenantID, employeeID, roleID)
	if err != nil {
		return middleware.FromDomain(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RoleFitResponse{
		Role:            toRoleResponse(rep.Role),
		EmployeeID:      rep.EmployeeID,
		OverallFitScore: rep.OverallFitScore,
		Critical:        toGaps(rep.Critical),
		Important:       toGaps(rep.Important),
		Supportive:      toGaps(rep.Supportive),
		Summary:         dto.RoleFitSummary{Achieved: rep.Achieved, Close: rep.Close, NeedsWork: rep.NeedsWork},
	})
}
