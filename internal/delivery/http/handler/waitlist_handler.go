package handler

import (
	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	uc usecase.WaitlistUsecase
}

func NewWaitlistHandler(uc usecase.WaitlistUsecase) *WaitlistHandler {
	return &WaitlistHandler{uc: uc}
}

func (h *WaitlistHandler) HandleJoin(c fiber.Ctx) error {
	var req dto.WaitlistJoinRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	alreadyOn, err := h.uc.Join(c.Context(), req.Email, req.Referrer, req.Website)
	if err != nil {
		return mapUsecaseError(err)
	}

	msg := "You're on the list!"
	if alreadyOn {
		msg = "You're already on the list."
	}
	return response.Success(c, fiber.StatusOK, "success", dto.WaitlistJoinResponse{Message: msg})
}

func (h *WaitlistHandler) HandleFeedback(c fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var userID *uuid.UUID
	if id, ok := userIDFromLocals(c); ok {
		userID = &id
	}

	if err := h.uc.SubmitFeedback(c.Context(), userID, req.Email, req.Message); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "thanks for the feedback", nil)
}
