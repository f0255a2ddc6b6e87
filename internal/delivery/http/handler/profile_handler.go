package handler

import (
	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.HandleGet)
	r.Put("/", h.HandleUpdate)
}

func (h *ProfileHandler) HandleGet(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", toProfileResponse(p))
}

func (h *ProfileHandler) HandleUpdate(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.Update(c.Context(), userID, usecase.ProfileUpdateInput{
		FullName:     req.FullName,
		DesiredRoles: req.DesiredRoles,
		Locations:    req.Locations,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		Skills:       req.Skills,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "profile updated", toProfileResponse(p))
}

func toProfileResponse(p user.Profile) dto.ProfileResponse {
	out := dto.ProfileResponse{
		DesiredRoles: p.DesiredRoles,
		Locations:    p.Locations,
		SalaryMin:    p.SalaryMin,
		SalaryMax:    p.SalaryMax,
		Skills:       p.Skills,
		AICredits:    p.AICredits,
		HasResume:    p.ResumeDigest != nil && *p.ResumeDigest != "",
	}
	if p.FullName != nil {
		out.FullName = *p.FullName
	}
	return out
}
