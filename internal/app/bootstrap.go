package app

import (
	"context"
	"fmt"
	"strings"

	"hrcore/internal/config"
	"hrcore/internal/delivery/http/handler"
	"hrcore/internal/delivery/http/middleware"
	"hrcore/internal/delivery/http/routes"
	v1 "hrcore/internal/delivery/http/routes/v1"
	"hrcore/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app and starts the websocket
// hub. The returned cleanup stops the hub and releases the container.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var cachePinger handler.Pinger
	if c.Cache != nil {
		cachePinger = c.Cache
	}

	uc := c.Usecases
	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		middleware.NewAuthMiddleware(c.JWT).Middleware(),
		v1.Handlers{
			Catalog:      handler.NewCatalogHandler(uc.Catalog),
			Custom:       handler.NewCustomEntityHandler(uc.Custom),
			Requirements: handler.NewRoleRequirementHandler(uc.RoleFit),
			Employees:    handler.NewEmployeeHandler(uc.Projection, uc.Scoring, uc.RoleFit),
			Events:       ws.NewHandler(c.Hub, c.Config.App.WSAllowedOrigins, c.Logger),
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
