package routes

import (
	"github.com/gethired/gethired/internal/delivery/http/handler"
	"github.com/gethired/gethired/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Registry holds the fully constructed handlers and wires them onto the
// app. Construction of usecases and repositories happens in the app
// container; this package only knows paths and middleware order.
type Registry struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Jobs     *handler.JobsHandler
	AI       *handler.AIHandler
	Resumes  *handler.ResumeHandler
	Profile  *handler.ProfileHandler
	Waitlist *handler.WaitlistHandler
	Payments *handler.PaymentsHandler
	Internal *handler.InternalHandler
	Sitemap  *handler.SitemapHandler

	AuthMw     *middleware.AuthMiddleware
	InternalMw *middleware.InternalSecretMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)
	r.Sitemap.RegisterRoutes(app)

	api := app.Group("/api")
	r.registerV1(api.Group("/v1"))

	internal := app.Group("/internal", r.InternalMw.Middleware())
	r.Internal.RegisterRoutes(internal)
}
