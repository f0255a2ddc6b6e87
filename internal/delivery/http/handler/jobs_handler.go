package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/delivery/http/dto"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/pkg/response"
	"github.com/gethired/gethired/internal/repository"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobsHandler struct {
	list usecase.JobListUsecase
	jobs repository.JobRepository
	ai   usecase.AISearchUsecase
}

func NewJobsHandler(list usecase.JobListUsecase, jobs repository.JobRepository, ai usecase.AISearchUsecase) *JobsHandler {
	return &JobsHandler{list: list, jobs: jobs, ai: ai}
}

// RegisterRoutes wires the public listing surface; optionalAuth enriches
// requests with identity without requiring one, summary is auth-only.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, optionalAuth, requireAuth fiber.Handler) {
	r.Get("/", h.HandleListJobs, optionalAuth)
	r.Get("/:id", h.HandleGetJob)
	r.Post("/:id/summary", h.HandleSummarize, requireAuth)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	page, err := parseIntStrict(c.Query("page"), 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := parseIntStrict(c.Query("limit"), 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	minSalary, err := parseIntStrict(queryParam(c, "minSalary", "min_salary"), 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	minExperience, err := parseIntStrict(queryParam(c, "minExperience", "min_experience"), 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	params := usecase.JobListParams{
		JobType:           queryParam(c, "jobType", "job_type"),
		Location:          c.Query("location"),
		VisaRequirement:   queryParam(c, "visaRequirement", "visa_requirement"),
		Platform:          c.Query("platform"),
		CompanyName:       queryParam(c, "companyName", "company_name"),
		TitleKeywords:     splitCommaList(queryParam(c, "jobTitleKeywords", "keywords")),
		MinSalary:         minSalary,
		MinExperience:     minExperience,
		SortBy:            queryParam(c, "sortBy", "sort_by"),
		SortOrder:         queryParam(c, "sortOrder", "sort_order"),
		Tab:               c.Query("tab"),
		ApplicationStatus: queryParam(c, "applicationStatus", "application_status"),
		Page:              page,
		Limit:             limit,
	}

	if after := queryParam(c, "createdAfter", "created_after"); after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		params.CreatedAfter = &t
	}

	if id, ok := userIDFromLocals(c); ok {
		params.RequesterID = id
	}
	if ref := queryParam(c, "jobId", "job_id"); ref != "" {
		id, err := uuid.Parse(ref)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		params.AnchorJobID = &id
	}
	// Only internal callers may anchor relevance on another user.
	if target := queryParam(c, "userId", "user_id"); target != "" && c.Locals(middleware.CtxInternalKey) != nil {
		id, err := uuid.Parse(target)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		params.AnchorUserID = &id
	}

	result, err := h.list.ListJobs(c.Context(), params)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", result)
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.jobs.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := dto.JobDetailResponse{
		ID:            j.ID.String(),
		Title:         j.Title,
		Description:   j.Description,
		Locations:     j.Locations,
		SalaryMin:     j.SalaryMin,
		SalaryMax:     j.SalaryMax,
		ExperienceMin: j.ExperienceMin,
		CompanyName:   j.CompanyName,
		CreatedAt:     j.CreatedAt,
	}
	if j.Summary != nil {
		out.Summary = *j.Summary
	}
	if j.JobType != nil {
		out.JobType = *j.JobType
	}
	if j.VisaRequirement != nil {
		out.VisaRequirement = *j.VisaRequirement
	}
	if j.Platform != nil {
		out.Platform = *j.Platform
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *JobsHandler) HandleSummarize(c fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	summary, err := h.ai.Summarize(c.Context(), userID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.JobSummaryResponse{
		JobID:   jobID.String(),
		Summary: summary,
	})
}

// queryParam returns the first non-empty spelling of a parameter. The
// documented contract is camelCase; the snake_case aliases stay accepted
// for older clients.
func queryParam(c fiber.Ctx, names ...string) string {
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return v
		}
	}
	return ""
}

func parseIntStrict(s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
