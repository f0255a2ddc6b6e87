package handler

import (
	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/refresh", h.HandleRefresh)
	r.Post("/password-reset", h.HandlePasswordReset)
	r.Post("/password-reset/confirm", h.HandlePasswordResetConfirm)
}

func (h *AuthHandler) HandleRegister(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, access, refresh, err := h.uc.Register(c.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "registered", toAuthResponse(usr, access, refresh))
}

func (h *AuthHandler) HandleLogin(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, access, refresh, err := h.uc.Login(c.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "logged in", toAuthResponse(usr, access, refresh))
}

func (h *AuthHandler) HandleRefresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	access, refresh, err := h.uc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "refreshed", dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// HandlePasswordReset answers identically for known and unknown emails.
func (h *AuthHandler) HandlePasswordReset(c fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "reset email sent", nil)
}

func (h *AuthHandler) HandlePasswordResetConfirm(c fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ResetPassword(c.Context(), req.Token, req.Password); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "password updated", nil)
}

func toAuthResponse(usr user.User, access, refresh string) dto.AuthResponse {
	return dto.AuthResponse{
		User:         dto.UserResponse{ID: usr.ID.String(), Email: usr.Email},
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
