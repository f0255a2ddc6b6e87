package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gethired/gethired/internal/ai"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type aiModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type invalidator interface {
	InvalidateJobPages(ctx context.Context) error
}

type AISearchUsecase interface {
	Ask(ctx context.Context, userID uuid.UUID, question string) (string, []JobListItem, error)
	Summarize(ctx context.Context, userID, jobID uuid.UUID) (string, error)
}

// AISearch answers free-text questions over the job corpus and produces
// listing-card summaries. Both operations are credit-gated.
type AISearch struct {
	jobs   repository.JobRepository
	gate   *CreditGate
	model  aiModel
	cache  invalidator
	logger *log.Logger
}

func NewAISearchUsecase(jobs repository.JobRepository, gate *CreditGate, model aiModel, cache invalidator, logger *log.Logger) *AISearch {
	return &AISearch{jobs: jobs, gate: gate, model: model, cache: cache, logger: logger}
}

func (u *AISearch) Ask(ctx context.Context, userID uuid.UUID, question string) (string, []JobListItem, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, ErrInvalidInput
	}

	var (
		answer string
		items  []JobListItem
	)
	err := u.gate.Charge(ctx, userID, OpAISearch, func(ctx context.Context) error {
		vec, err := u.model.Embed(ctx, question)
		if err != nil {
			return err
		}
		anchor := pgvector.NewVector(vec)

		rows, _, err := u.jobs.ListJobs(ctx, repository.JobFilter{
			SortBy:          repository.SortRelevance,
			Page:            1,
			PageSize:        10,
			AnchorEmbedding: &anchor,
		})
		if err != nil {
			return err
		}

		items = make([]JobListItem, 0, len(rows))
		promptJobs := make([]rerankJob, 0, len(rows))
		for _, r := range rows {
			it := toListItem(r)
			items = append(items, it)
			promptJobs = append(promptJobs, rerankJob{
				ID:          it.ID.String(),
				Title:       it.Title,
				Company:     it.CompanyName,
				Locations:   strings.Join(it.Locations, ", "),
				Description: truncate(firstNonEmpty(it.Summary, it.Description), 600),
			})
		}

		var sb strings.Builder
		if err := ai.SearchAnswerTemplate.Execute(&sb, struct {
			Question string
			Jobs     []rerankJob
		}{Question: question, Jobs: promptJobs}); err != nil {
			return err
		}

		answer, err = u.model.GenerateText(ctx, sb.String())
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return answer, items, nil
}

func (u *AISearch) Summarize(ctx context.Context, userID, jobID uuid.UUID) (string, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return "", ErrNotFound
		}
		return "", ErrInternal
	}
	if j.Summary != nil && *j.Summary != "" {
		// Already summarized; no charge for reading it back.
		return *j.Summary, nil
	}

	var summary string
	err = u.gate.Charge(ctx, userID, OpSummary, func(ctx context.Context) error {
		var sb strings.Builder
		err := ai.JobSummaryTemplate.Execute(&sb, struct {
			Title       string
			Company     string
			Description string
		}{Title: j.Title, Company: j.CompanyName, Description: j.Description})
		if err != nil {
			return err
		}

		out, err := u.model.GenerateText(ctx, sb.String())
		if err != nil {
			return err
		}
		summary = strings.TrimSpace(out)
		return u.jobs.SetSummary(ctx, jobID, summary)
	})
	if err != nil {
		return "", err
	}

	if u.cache != nil {
		if err := u.cache.InvalidateJobPages(ctx); err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] page cache invalidation failed: %v", err)
		}
	}
	return summary, nil
}
