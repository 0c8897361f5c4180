package usecase

import (
	"context"
	"math"

	"hrcore/internal/domain/softskill"
	"hrcore/internal/logger"
	"hrcore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const historyDepth = 2

type ScoreAssessmentParams struct {
	TenantID     string
	EmployeeID   uuid.UUID
	AssessmentID uuid.UUID
	Responses    softskill.Responses
}

// SoftSkillScoreView is a stored score with its trend against prior scores.
type SoftSkillScoreView struct {
	softskill.Score
	Trend   softskill.Trend
	History []int
}

type FeedbackParams struct {
	TenantID   string
	EmployeeID uuid.UUID
	Sources    map[softskill.Source]uuid.UUID
}

type AggregatedSkill struct {
	SoftSkillID   int64
	SoftSkillCode string
	SoftSkillName string
	Scores        map[softskill.Source]int
	softskill.Aggregated
}

type ScoringUsecase interface {
	ScoreAssessment(ctx context.Context, params ScoreAssessmentParams) ([]SoftSkillScoreView, error)
	AggregateFeedback(ctx context.Context, params FeedbackParams) ([]AggregatedSkill, error)
}

type Scoring struct {
	employees  repository.EmployeeRepository
	softSkills repository.SoftSkillRepository
	table      *softskill.Table
	now        Clock
	logger     *zap.Logger
}

func NewScoringUsecase(employees repository.EmployeeRepository, softSkills repository.SoftSkillRepository, table *softskill.Table, log *zap.Logger) *Scoring {
	if table == nil {
		table = softskill.DefaultTable()
	}
	return &Scoring{
		employees:  employees,
		softSkills: softSkills,
		table:      table,
		now:        systemClock,
		logger:     logger.OrNop(log).Named("scoring"),
	}
}

func validateResponses(r softskill.Responses) error {
	if r.IsEmpty() {
		return invalid("responses must contain at least one of big_five, disc, belbin")
	}
	for name, m := range map[string]map[string]float64{"big_five": r.BigFive, "disc": r.DISC, "belbin": r.Belbin} {
		for k, v := range m {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
				return invalid("%s.%s must be between 0 and 100", name, k)
			}
		}
	}
	return nil
}

// ScoreAssessment writes one score per global soft skill. Percentiles are
// taken against the tenant's scores stored before this call.
func (u *Scoring) ScoreAssessment(ctx context.Context, params ScoreAssessmentParams) ([]SoftSkillScoreView, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return nil, err
	}
	if params.AssessmentID == uuid.Nil {
		return nil, invalid("assessment id is required")
	}
	if err := validateResponses(params.Responses); err != nil {
		return nil, err
	}
	if _, err := u.employees.FindProfile(ctx, params.EmployeeID, tenantID); err != nil {
		return nil, notFoundAs(err, "employee", params.EmployeeID)
	}

	var (
		skills  []softskill.SoftSkill
		history map[int64][]int
		dists   map[int64]softskill.Distribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		skills, err = u.softSkills.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		history, err = u.softSkills.RecentScores(gctx, params.EmployeeID, historyDepth)
		return err
	})
	g.Go(func() (err error) {
		dists, err = u.softSkills.Distributions(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return []SoftSkillScoreView{}, nil
	}

	now := u.now()
	scores := make([]softskill.Score, 0, len(skills))
	trends := make([]softskill.Trend, 0, len(skills))
	for _, s := range skills {
		res := u.table.Score(s.Code, params.Responses)
		prior := history[s.ID]
		trend := softskill.TrendFor(res.NormalizedScore, prior)
		trends = append(trends, trend)

		scores = append(scores, softskill.Score{
			EmployeeID:      params.EmployeeID,
			SoftSkillID:     s.ID,
			SoftSkillCode:   s.Code,
			SoftSkillName:   s.Name,
			AssessmentID:    params.AssessmentID,
			RawScore:        res.RawScore,
			NormalizedScore: res.NormalizedScore,
			Percentile:      dists[s.ID].Percentile(res.NormalizedScore),
			Level:           res.Level,
			Confidence:      res.Confidence,
			CalculatedAt:    now,
			Details: softskill.Details{
				Contributions: res.Contributions,
				Models:        res.Models,
				Trend:         trend,
				History:       prior,
			},
		})
	}

	stored, err := u.softSkills.InsertScores(ctx, scores)
	if err != nil {
		return nil, err
	}

	out := make([]SoftSkillScoreView, 0, len(stored))
	for i, s := range stored {
		hist := s.Details.History
		if hist == nil {
			hist = []int{}
		}
		out = append(out, SoftSkillScoreView{Score: s, Trend: trends[i], History: hist})
	}

	u.logger.Info("assessment scored",
		logger.Tenant(tenantID),
		zap.String("employee_id", params.EmployeeID.String()),
		zap.String("assessment_id", params.AssessmentID.String()),
		zap.Int("soft_skills", len(out)),
	)
	return out, nil
}

// AggregateFeedback combines the stored scores of self, peer and manager
// assessments into one 360° view per soft skill.
func (u *Scoring) AggregateFeedback(ctx context.Context, params FeedbackParams) ([]AggregatedSkill, error) {
	tenantID, err := requireTenant(params.TenantID)
	if err != nil {
		return nil, err
	}
	if len(params.Sources) == 0 {
		return nil, invalid("at least one of self, peer, manager is required")
	}
	ids := make([]uuid.UUID, 0, len(params.Sources))
	for _, src := range softskill.Sources {
		id, ok := params.Sources[src]
		if !ok {
			continue
		}
		if id == uuid.Nil {
			return nil, invalid("%s assessment id is required", src)
		}
		ids = append(ids, id)
	}
	for src := range params.Sources {
		if !src.Valid() {
			return nil, invalid("unknown feedback source %q", src)
		}
	}

	if _, err := u.employees.FindProfile(ctx, params.EmployeeID, tenantID); err != nil {
		return nil, notFoundAs(err, "employee", params.EmployeeID)
	}

	var (
		skills       []softskill.SoftSkill
		byAssessment map[uuid.UUID]map[int64]softskill.Score
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		skills, err = u.softSkills.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		byAssessment, err = u.softSkills.ByAssessments(gctx, params.EmployeeID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]AggregatedSkill, 0, len(skills))
	for _, s := range skills {
		perSource := make(map[softskill.Source]int, len(params.Sources))
		for src, id := range params.Sources {
			if score, ok := byAssessment[id][s.ID]; ok {
				perSource[src] = score.NormalizedScore
			}
		}
		agg, ok := softskill.Aggregate360(perSource)
		if !ok {
			continue
		}
		out = append(out, AggregatedSkill{
			SoftSkillID:   s.ID,
			SoftSkillCode: s.Code,
			SoftSkillName: s.Name,
			Scores:        perSource,
			Aggregated:    agg,
		})
	}
	return out, nil
}
