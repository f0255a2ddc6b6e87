package handler

import (
	"io"

	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/domain/resume"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/", h.HandleUpload)
	// registered before "/:id" so "reviews" is not read as a resume id
	r.Get("/reviews/:id", h.HandleGetReview)
	r.Get("/:id", h.HandleGet)
	r.Post("/:id/review", h.HandleReview)
}

func (h *ResumeHandler) HandleUpload(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file field", nil, err)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable upload", nil, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable upload", nil, err)
	}

	rec, err := h.uc.Upload(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "resume accepted", toResumeResponse(rec, ""))
}

func (h *ResumeHandler) HandleGet(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	rec, url, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", toResumeResponse(rec, url))
}

func (h *ResumeHandler) HandleReview(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.ReviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var jobID *uuid.UUID
	if req.JobID != "" {
		id, err := uuid.Parse(req.JobID)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		jobID = &id
	}

	review, err := h.uc.Review(c.Context(), userID, resumeID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", toReviewResponse(review))
}

func (h *ResumeHandler) HandleGetReview(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	review, err := h.uc.GetReview(c.Context(), userID, reviewID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", toReviewResponse(review))
}

func toReviewResponse(review resume.Review) dto.ReviewResponse {
	out := dto.ReviewResponse{
		ID:        review.ID.String(),
		ResumeID:  review.ResumeID.String(),
		Score:     review.Score,
		Strengths: review.Strengths,
		Gaps:      review.Gaps,
		Verdict:   review.Verdict,
	}
	if review.JobID != nil {
		out.JobID = review.JobID.String()
	}
	return out
}

func toResumeResponse(rec resume.Resume, url string) dto.ResumeResponse {
	return dto.ResumeResponse{
		ID:          rec.ID.String(),
		FileName:    rec.FileName,
		Parsed:      rec.Content != nil && *rec.Content != "",
		ParseFailed: rec.ParseFailed,
		DownloadURL: url,
		CreatedAt:   rec.CreatedAt,
	}
}
