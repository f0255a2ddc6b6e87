package handler

import (
	"errors"

	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/repository"

	"github.com/gofiber/fiber/v3"
)

type PaymentsHandler struct {
	payments repository.PaymentRepository
}

func NewPaymentsHandler(payments repository.PaymentRepository) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

func (h *PaymentsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/checkout/:id", h.HandleGetCheckout)
	r.Get("/invoices/:id", h.HandleGetInvoice)
}

func (h *PaymentsHandler) HandleGetCheckout(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	s, err := h.payments.GetCheckoutSession(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCheckoutNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	if s.UserID != userID {
		// A foreign session is indistinguishable from a missing one.
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, nil)
	}

	return response.Success(c, fiber.StatusOK, "success", dto.CheckoutSessionResponse{
		ID:         s.ID,
		Status:     s.Status,
		AmountCent: s.AmountCent,
		Currency:   s.Currency,
		CreditsFor: s.CreditsFor,
		CreatedAt:  s.CreatedAt,
	})
}

func (h *PaymentsHandler) HandleGetInvoice(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	inv, err := h.payments.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	if inv.UserID != userID {
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, nil)
	}

	out := dto.InvoiceResponse{
		ID:         inv.ID,
		SessionID:  inv.SessionID,
		AmountCent: inv.AmountCent,
		Currency:   inv.Currency,
		IssuedAt:   inv.IssuedAt,
	}
	if inv.PDFURL != nil {
		out.PDFURL = *inv.PDFURL
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}
