package handler

import (
	"strconv"

	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/sitemap"

	"github.com/gofiber/fiber/v3"
)

type SitemapHandler struct {
	builder *sitemap.Builder
}

func NewSitemapHandler(builder *sitemap.Builder) *SitemapHandler {
	return &SitemapHandler{builder: builder}
}

func (h *SitemapHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/sitemap.xml", h.HandleIndex)
	app.Get("/sitemap-:n.xml", h.HandleChunk)
}

func (h *SitemapHandler) HandleIndex(c fiber.Ctx) error {
	out, err := h.builder.Index(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(out)
}

func (h *SitemapHandler) HandleChunk(c fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("n"))
	if err != nil || n < 0 {
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	}

	out, err := h.builder.Chunk(c.Context(), n)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(out)
}
