package handler

import (
	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AIHandler struct {
	uc usecase.AISearchUsecase
}

func NewAIHandler(uc usecase.AISearchUsecase) *AIHandler {
	return &AIHandler{uc: uc}
}

func (h *AIHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/search", h.HandleSearch)
}

func (h *AIHandler) HandleSearch(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.AskRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	answer, jobs, err := h.uc.Ask(c.Context(), userID, req.Question)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.AskResponse{Answer: answer, Jobs: jobs})
}
