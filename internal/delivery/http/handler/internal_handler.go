package handler

import (
	"strings"

	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/mailer"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/repository"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// InternalHandler serves the operator surface behind X-Internal-Secret.
type InternalHandler struct {
	embeddings  usecase.EmbeddingUsecase
	waitlist    repository.WaitlistRepository
	broadcaster *mailer.Broadcaster
}

func NewInternalHandler(embeddings usecase.EmbeddingUsecase, waitlist repository.WaitlistRepository, broadcaster *mailer.Broadcaster) *InternalHandler {
	return &InternalHandler{embeddings: embeddings, waitlist: waitlist, broadcaster: broadcaster}
}

func (h *InternalHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/embeddings/sync", h.HandleEmbeddingSync)
	r.Post("/embeddings/jobs/:id", h.HandleJobEmbed)
	r.Post("/embeddings/users/:id", h.HandleProfileEmbed)
	r.Post("/broadcast", h.HandleBroadcast)
}

func (h *InternalHandler) HandleJobEmbed(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.embeddings.EnqueueJobEmbed(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, "scheduled", nil)
}

func (h *InternalHandler) HandleProfileEmbed(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.embeddings.EnqueueProfileEmbed(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, "scheduled", nil)
}

func (h *InternalHandler) HandleEmbeddingSync(c fiber.Ctx) error {
	var req dto.EmbeddingSyncRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	scheduled, err := h.embeddings.SyncMissing(c.Context(), req.Limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.EmbeddingSyncResponse{Scheduled: scheduled})
}

func (h *InternalHandler) HandleBroadcast(c fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	subject := strings.TrimSpace(req.Subject)
	var build func(email string) (mailer.Message, error)

	switch strings.ToLower(strings.TrimSpace(req.Kind)) {
	case "", "promotional":
		if subject == "" || strings.TrimSpace(req.Body) == "" {
			return middleware.NewAppError(fiber.StatusBadRequest, "Subject and body are required", nil, nil)
		}
		build = func(email string) (mailer.Message, error) {
			return mailer.Promotional(email, subject, req.Body)
		}
	case "reminder":
		if subject == "" {
			subject = "onboarding reminder"
		}
		build = func(email string) (mailer.Message, error) {
			return mailer.OnboardingReminder(email)
		}
	default:
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown campaign kind", nil, nil)
	}

	emails, err := h.waitlist.ListEmails(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	report, err := h.broadcaster.Send(c.Context(), subject, emails, build)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, "broadcast finished", dto.BroadcastResponse{
		Total:  report.Total,
		Sent:   report.Sent,
		Failed: report.Failed,
	})
}
