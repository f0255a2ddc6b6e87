package routes

import "github.com/gofiber/fiber/v3"

func (r *Registry) registerV1(v1 fiber.Router) {
	requireAuth := r.AuthMw.Middleware()
	optionalAuth := r.AuthMw.Optional()

	r.Auth.RegisterRoutes(v1.Group("/auth"))

	jobs := v1.Group("/jobs", r.InternalMw.Detect())
	r.Jobs.RegisterRoutes(jobs, optionalAuth, requireAuth)

	ai := v1.Group("/ai", requireAuth)
	r.AI.RegisterRoutes(ai)

	resumes := v1.Group("/resumes", requireAuth)
	r.Resumes.RegisterRoutes(resumes)

	profile := v1.Group("/profile", requireAuth)
	r.Profile.RegisterRoutes(profile)

	payments := v1.Group("/payments", requireAuth)
	r.Payments.RegisterRoutes(payments)

	v1.Post("/waitlist", r.Waitlist.HandleJoin)
	v1.Post("/feedback", r.Waitlist.HandleFeedback, optionalAuth)
}
