package handler

import (
	"context"
	"time"

	"github.com/gethired/gethired/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	out := fiber.Map{"status": "ok"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			out["database"] = "down"
			return response.Error(c, fiber.StatusServiceUnavailable, "degraded", out)
		}
		out["database"] = "up"
	}
	return response.Success(c, fiber.StatusOK, "ok", out)
}
