package usecase

import (
	"context"

	"hrcore/internal/domain/catalog"
	"hrcore/internal/domain/rolefit"
	"hrcore/internal/domain/softskill"
	"hrcore/internal/logger"
	"hrcore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type GroupedRequirements struct {
	Role       catalog.Role
	Critical   []rolefit.Requirement
	Important  []rolefit.Requirement
	Supportive []rolefit.Requirement
}

type RoleFitReport struct {
	Role       catalog.Role
	EmployeeID uuid.UUID
	rolefit.Result
}

type RoleFitUsecase interface {
	GetRoleSkillRequirements(ctx context.Context, roleID int64) (GroupedRequirements, error)
	GetRoleFit(ctx context.Context, tenantID string, employeeID uuid.UUID, roleID int64) (RoleFitReport, error)
}

type RoleFit struct {
	roles        repository.RoleRepository
	requirements repository.RequirementRepository
	employees    repository.EmployeeRepository
	softSkills   repository.SoftSkillRepository
	logger       *zap.Logger
}

func NewRoleFitUsecase(
	roles repository.RoleRepository,
	requirements repository.RequirementRepository,
	employees repository.EmployeeRepository,
	softSkills repository.SoftSkillRepository,
	log *zap.Logger,
) *RoleFit {
	return &RoleFit{
		roles:        roles,
		requirements: requirements,
		employees:    employees,
		softSkills:   softSkills,
		logger:       logger.OrNop(log).Named("role_fit"),
	}
}

func (u *RoleFit) GetRoleSkillRequirements(ctx context.Context, roleID int64) (GroupedRequirements, error) {
	if roleID <= 0 {
		return GroupedRequirements{}, invalid("role id must be positive")
	}
	role, err := u.roles.FindByID(ctx, roleID)
	if err != nil {
		return GroupedRequirements{}, notFoundAs(err, "role", roleID)
	}
	reqs, err := u.requirements.ListByRole(ctx, roleID)
	if err != nil {
		return GroupedRequirements{}, err
	}
	critical, important, supportive := rolefit.Group(withDefaults(reqs))
	return GroupedRequirements{
		Role:       role,
		Critical:   nonNil(critical),
		Important:  nonNil(important),
		Supportive: nonNil(supportive),
	}, nil
}

// GetRoleFit compares the employee's latest soft-skill scores with the
// role's requirements.
func (u *RoleFit) GetRoleFit(ctx context.Context, tenantID string, employeeID uuid.UUID, roleID int64) (RoleFitReport, error) {
	tenantID, err := requireTenant(tenantID)
	if err != nil {
		return RoleFitReport{}, err
	}
	if roleID <= 0 {
		return RoleFitReport{}, invalid("role id must be positive")
	}
	if _, err := u.employees.FindProfile(ctx, employeeID, tenantID); err != nil {
		return RoleFitReport{}, notFoundAs(err, "employee", employeeID)
	}

	var (
		role   catalog.Role
		reqs   []rolefit.Requirement
		latest map[int64]softskill.Score
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := u.roles.FindByID(gctx, roleID)
		if err != nil {
			return notFoundAs(err, "role", roleID)
		}
		role = r
		return nil
	})
	g.Go(func() (err error) {
		reqs, err = u.requirements.ListByRole(gctx, roleID)
		return err
	})
	g.Go(func() (err error) {
		latest, err = u.softSkills.Latest(gctx, employeeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return RoleFitReport{}, err
	}

	current := make(map[int64]int, len(latest))
	for id, s := range latest {
		current[id] = s.NormalizedScore
	}
	res := rolefit.Calculate(withDefaults(reqs), current)

	u.logger.Debug("role fit calculated",
		logger.Tenant(tenantID),
		zap.String("employee_id", employeeID.String()),
		zap.Int64("role_id", roleID),
		zap.Int("overall_fit", res.OverallFitScore),
	)
	return RoleFitReport{Role: role, EmployeeID: employeeID, Result: res}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// withDefaults fills unset thresholds from the priority defaults so stored
// rows read the same through every endpoint.
func withDefaults(reqs []rolefit.Requirement) []rolefit.Requirement {
	out := make([]rolefit.Requirement, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.WithDefaults())
	}
	return out
}
