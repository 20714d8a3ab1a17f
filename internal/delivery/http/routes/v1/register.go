package v1

import (
	"resume-sync/internal/delivery/http/handler"
	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Resume      *handler.ResumeHandler
	Sync        *handler.SyncHandler
	Webhook     *handler.WebhookHandler
	Credential  *handler.CredentialHandler
	Achievement *handler.AchievementHandler
	WS          *ws.Handler
}

// Register lays out the v1 surface. Webhook receivers are the only
// unauthenticated group besides auth itself; they carry their own
// signature check.
func Register(r fiber.Router, h Handlers, authMW *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	h.Auth.RegisterRoutes(r.Group("/auth"))
	h.Webhook.RegisterRoutes(r.Group("/webhooks"))

	protected := r.Group("", authMW.Middleware())

	h.Resume.RegisterRoutes(protected.Group("/resumes"))
	h.Sync.RegisterRoutes(protected.Group("/sync"))
	h.Credential.RegisterRoutes(protected.Group("/credentials"))
	h.Achievement.RegisterRoutes(protected.Group("/achievements"))
	h.Webhook.RegisterSimulateRoute(protected.Group("/webhooks"))

	if h.WS != nil {
		protected.Get("/ws/sync", h.WS.HandleSyncWS)
	}
}
