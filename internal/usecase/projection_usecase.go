package usecase

import (
	"context"

	"hrcore/internal/domain/employee"
	"hrcore/internal/domain/grading"
	"hrcore/internal/logger"
	"hrcore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ProjectionParams struct {
	TenantID      string
	EmployeeID    uuid.UUID
	Limit         int
	CoreThreshold float64
}

// RoleProjection is one current role of an employee with its radar skills.
type RoleProjection struct {
	EmployeeRoleID uuid.UUID
	RoleID         *int64
	SubRoleID      int64
	DisplayName    string
	Skills         []grading.ProjectedSkill
}

type ProjectionUsecase interface {
	GetEmployeeRoleSkillProjection(ctx context.Context, params ProjectionParams) ([]RoleProjection, error)
	GetEmployeeSeniority(ctx context.Context, tenantID string, employeeID uuid.UUID) (grading.SeniorityResult, error)
}

type Projection struct {
	employees     repository.EmployeeRepository
	coreThreshold float64
	radarLimit    int
	now           Clock
	logger        *zap.Logger
}

func NewProjectionUsecase(employees repository.EmployeeRepository, coreThreshold float64, radarLimit int, log *zap.Logger) *Projection {
	if coreThreshold <= 0 || coreThreshold > 1 {
		coreThreshold = grading.DefaultCoreThreshold
	}
	if radarLimit <= 0 {
		radarLimit = grading.DefaultRadarLimit
	}
	return &Projection{
		employees:     employees,
		coreThreshold: coreThreshold,
		radarLimit:    radarLimit,
		now:           systemClock,
		logger:        logger.OrNop(log).Named("projection"),
	}
}

func (u *Projection) GetEmployeeRoleSkillProjection(ctx context.Context, params ProjectionParams) ([]RoleProjection, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit == 0 {
		limit = u.radarLimit
	}
	if limit < 0 || limit > 100 {
		return nil, invalid("limit must be between 1 and 100")
	}
	threshold := params.CoreThreshold
	if threshold == 0 {
		threshold = u.coreThreshold
	}
	if threshold <= 0 || threshold > 1 {
		return nil, invalid("core_threshold must be in (0, 1]")
	}

	if _, err := u.employees.FindProfile(ctx, params.EmployeeID, tenantID); err != nil {
		return nil, notFoundAs(err, "employee", params.EmployeeID)
	}
	roles, err := u.employees.ListCurrentRoles(ctx, params.EmployeeID)
	if err != nil {
		return nil, err
	}

	graded := make([]employee.Role, 0, len(roles))
	for _, r := range roles {
		if r.SubRoleID != nil {
			graded = append(graded, r)
		}
	}

	out := make([]RoleProjection, len(graded))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range graded {
		g.Go(func() error {
			skills, err := u.employees.SkillsForSubRole(gctx, params.EmployeeID, *r.SubRoleID)
			if err != nil {
				return err
			}
			out[i] = RoleProjection{
				EmployeeRoleID: r.ID,
				RoleID:         r.RoleID,
				SubRoleID:      *r.SubRoleID,
				DisplayName:    r.DisplayName(),
				Skills:         grading.Select(skills, limit, threshold),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u.logger.Debug("projection built",
		logger.Tenant(tenantID),
		zap.String("employee_id", params.EmployeeID.String()),
		zap.Int("roles", len(out)),
	)
	return out, nil
}

func (u *Projection) GetEmployeeSeniority(ctx context.Context, tenantID string, employeeID uuid.UUID) (grading.SeniorityResult, error) {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return grading.SeniorityResult{}, err
	}
	profile, err := u.employees.FindProfile(ctx, employeeID, tenantID)
	if err != nil {
		return grading.SeniorityResult{}, notFoundAs(err, "employee", employeeID)
	}
	roles, err := u.employees.ListCurrentRoles(ctx, employeeID)
	if err != nil {
		return grading.SeniorityResult{}, err
	}

	tenures := make([]grading.RoleTenure, 0, len(roles))
	for _, r := range roles {
		tenures = append(tenures, grading.RoleTenure{RoleID: r.RoleID, SubRoleID: r.SubRoleID, YearsInRole: r.YearsInRole})
	}
	return grading.DeriveSeniority(tenures, profile.HireDate, u.now()), nil
}
