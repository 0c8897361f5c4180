package app

import (
	"context"
	"errors"
	"time"

	"hrcore/internal/ai"
	"hrcore/internal/ai/gemini"
	"hrcore/internal/config"
	"hrcore/internal/database"
	dbpostgres "hrcore/internal/database/postgres"
	"hrcore/internal/infrastructure/cache"
	"hrcore/internal/pkg/jwt"
	"hrcore/internal/repository"
	"hrcore/internal/usecase"
	"hrcore/internal/ws"

	"go.uber.org/zap"
)

type Repositories struct {
	Roles        repository.RoleRepository
	SubRoles     repository.SubRoleRepository
	Skills       repository.SkillRepository
	Employees    repository.EmployeeRepository
	SoftSkills   repository.SoftSkillRepository
	Requirements repository.RequirementRepository
}

type Usecases struct {
	Catalog    usecase.CatalogUsecase
	Custom     usecase.CustomEntityUsecase
	Projection usecase.ProjectionUsecase
	Scoring    usecase.ScoringUsecase
	RoleFit    usecase.RoleFitUsecase
}

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	JWT    jwt.Service
	Hub    *ws.Hub

	Repos    Repositories
	Usecases Usecases
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, log),
		JWT:    jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.Issuer),
		Hub:    ws.NewHub(log),
	}
	c.Repos = newRepositories(db)

	classifier, err := newClassifier(ctx, cfg.AI, log)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Usecases = Usecases{
		Catalog: usecase.NewCatalogUsecase(c.Repos.Roles, c.Repos.SubRoles, c.Repos.Skills, c.Repos.Employees, c.Cache, log),
		Custom: usecase.NewCustomEntityUsecase(
			c.Repos.Roles, c.Repos.SubRoles, c.Repos.Skills,
			classifier, c.Cache, ws.NewNotifier(c.Hub), log,
		),
		Projection: usecase.NewProjectionUsecase(c.Repos.Employees, cfg.Grading.CoreThreshold, cfg.Grading.RadarLimit, log),
		Scoring:    usecase.NewScoringUsecase(c.Repos.Employees, c.Repos.SoftSkills, nil, log),
		RoleFit:    usecase.NewRoleFitUsecase(c.Repos.Roles, c.Repos.Requirements, c.Repos.Employees, c.Repos.SoftSkills, log),
	}
	return c, nil
}

func newRepositories(db database.DB) Repositories {
	return Repositories{
		Roles:        repository.NewPostgresRoleRepository(db),
		SubRoles:     repository.NewPostgresSubRoleRepository(db),
		Skills:       repository.NewPostgresSkillRepository(db),
		Employees:    repository.NewPostgresEmployeeRepository(db),
		SoftSkills:   repository.NewPostgresSoftSkillRepository(db),
		Requirements: repository.NewPostgresRequirementRepository(db),
	}
}

// newClassifier returns a nil Classifier when no API key is configured.
// Custom sub-role creation then fails with a classification error while the
// rest of the API keeps working.
func newClassifier(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (usecase.Classifier, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, custom sub-role classification disabled")
		return nil, nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	return ai.NewClassifier(client, ai.ClassifierConfig{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
		ClassifyTimeout: cfg.ClassifyTimeout,
		SynonymTimeout:  cfg.SynonymTimeout,
		MaxLogLength:    cfg.MaxLogLength,
	}, log), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
