package routes

import (
	"resume-sync/internal/delivery/http/handler"
	"resume-sync/internal/delivery/http/middleware"
	v1 "resume-sync/internal/delivery/http/routes/v1"
	"resume-sync/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds the constructed handlers and wires them onto the app. All
// dependency construction happens in the app container; routing only decides
// paths and which groups sit behind auth.
type Registry struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Resume      *handler.ResumeHandler
	Sync        *handler.SyncHandler
	Webhook     *handler.WebhookHandler
	Credential  *handler.CredentialHandler
	Achievement *handler.AchievementHandler
	WS          *ws.Handler

	AuthMW *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), v1.Handlers{
		Auth:        r.Auth,
		Resume:      r.Resume,
		Sync:        r.Sync,
		Webhook:     r.Webhook,
		Credential:  r.Credential,
		Achievement: r.Achievement,
		WS:          r.WS,
	}, r.AuthMW)
}
