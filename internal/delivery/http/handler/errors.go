package handler

import (
	"errors"

	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapUsecaseError is the single translation point from usecase sentinels
// to HTTP statuses. Anything unrecognized becomes a 500 with a generic
// message.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrInsufficientCredits):
		return middleware.NewAppError(fiber.StatusPaymentRequired, response.MessagePaymentRequired, nil, err)
	case errors.Is(err, usecase.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrNoAnchorEmbedding):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No embedding available for relevance sort", nil, err)
	case errors.Is(err, usecase.ErrResumeNotParsed):
		return middleware.NewAppError(fiber.StatusConflict, "Resume is not parsed yet", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// userIDFromLocals reads the identity the auth middleware stored; the
// second return is false on anonymous requests.
func userIDFromLocals(c fiber.Ctx) (uuid.UUID, bool) {
	v := c.Locals(middleware.CtxUserIDKey)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
