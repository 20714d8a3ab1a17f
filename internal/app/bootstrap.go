package app

import (
	"context"
	"fmt"
	"strings"

	"resume-sync/internal/adapter"
	"resume-sync/internal/config"
	"resume-sync/internal/delivery/http/handler"
	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/delivery/http/routes"
	"resume-sync/internal/pkg/jwt"
	"resume-sync/internal/usecase"
	"resume-sync/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, applies migrations, restores scheduled
// sync tasks and returns the wired fiber app plus a cleanup func.
func Bootstrap(cfg config.Config, log *logrus.Logger) (*App, func() error, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	if err := c.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	if err := c.Scheduler.RestartAll(ctx); err != nil {
		// A failed restore leaves users able to re-enable manually; not
		// fatal to the process.
		log.WithError(err).Error("failed to restore sync tasks")
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	f.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	f.Use(middleware.NewErrorMiddleware(log).Middleware())

	buildRegistry(c, log).Register(f)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func buildRegistry(c *Container, log *logrus.Logger) *routes.Registry {
	jwtSvc := jwt.NewHMACService(
		c.Config.Auth.AccessSecret,
		c.Config.Auth.RefreshSecret,
		c.Config.Auth.AccessExpiresIn,
		c.Config.Auth.RefreshExpiresIn,
	)

	authUC := usecase.NewAuthUsecase(c.Users, jwtSvc)
	resumeUC := usecase.NewResumeUsecase(c.Resumes)
	syncUC := usecase.NewSyncUsecase(c.Users, c.Scheduler, c.Reconciler)
	webhookUC := usecase.NewWebhookUsecase(c.Config.Webhook, adapter.NewRegistry(), c.Users, c.Engagements, c.Courses, c.Resumes, log)
	credentialUC := usecase.NewCredentialUsecase(c.Verifier, c.Courses, c.Resumes, log)
	achievementUC := usecase.NewAchievementUsecase(c.Projects, c.Courses, c.Engagements)

	return &routes.Registry{
		Health:      handler.NewHealthHandler(c.DB),
		Auth:        handler.NewAuthHandler(authUC),
		Resume:      handler.NewResumeHandler(resumeUC),
		Sync:        handler.NewSyncHandler(syncUC),
		Webhook:     handler.NewWebhookHandler(webhookUC),
		Credential:  handler.NewCredentialHandler(credentialUC),
		Achievement: handler.NewAchievementHandler(achievementUC),
		WS:          ws.NewHandler(c.Hub, log),
		AuthMW:      middleware.NewAuthMiddleware(jwtSvc),
	}
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
