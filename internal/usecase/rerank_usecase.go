package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gethired/gethired/internal/ai"
	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
)

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Rerank asks the model to reorder and filter a relevance page against a
// natural-language profile. Failure policy is uniform across call sites:
// any failure falls back to the vector-ordered page, and credits are only
// deducted after a successful re-rank.
type Rerank struct {
	profiles profileReader
	gate     *CreditGate
	model    textGenerator
	logger   *log.Logger
}

func NewRerankUsecase(profiles profileReader, gate *CreditGate, model textGenerator, logger *log.Logger) *Rerank {
	return &Rerank{profiles: profiles, gate: gate, model: model, logger: logger}
}

type rerankJob struct {
	ID          string
	Title       string
	Company     string
	Locations   string
	Description string
}

type rerankPromptData struct {
	Profile string
	Jobs    []rerankJob
}

type rerankResponse struct {
	Ranked  []string `json:"ranked"`
	Dropped []string `json:"dropped"`
}

func (r *Rerank) Rerank(ctx context.Context, userID uuid.UUID, items []JobListItem) []JobListItem {
	if r == nil || r.model == nil || len(items) == 0 {
		return items
	}

	var reranked []JobListItem
	err := r.gate.Charge(ctx, userID, OpAISearch, func(ctx context.Context) error {
		out, err := r.rerankOnce(ctx, userID, items)
		if err != nil {
			return err
		}
		reranked = out
		return nil
	})
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("[Rerank] falling back to vector order: %v", err)
		}
		return items
	}
	return reranked
}

func (r *Rerank) rerankOnce(ctx context.Context, userID uuid.UUID, items []JobListItem) ([]JobListItem, error) {
	p, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := rerankPromptData{Profile: BuildProfileText(p)}
	for _, it := range items {
		data.Jobs = append(data.Jobs, rerankJob{
			ID:          it.ID.String(),
			Title:       it.Title,
			Company:     it.CompanyName,
			Locations:   strings.Join(it.Locations, ", "),
			Description: truncate(firstNonEmpty(it.Summary, it.Description), 600),
		})
	}

	var sb strings.Builder
	if err := ai.RerankTemplate.Execute(&sb, data); err != nil {
		return nil, err
	}

	raw, err := r.model.GenerateText(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	resp, err := parseRerankResponse(raw)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]JobListItem, len(items))
	for _, it := range items {
		byID[it.ID.String()] = it
	}
	dropped := make(map[string]bool, len(resp.Dropped))
	for _, id := range resp.Dropped {
		dropped[id] = true
	}

	out := make([]JobListItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, id := range resp.Ranked {
		it, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, it)
	}
	// Ids the model forgot stay on the page, after the ranked ones.
	for _, it := range items {
		id := it.ID.String()
		if seen[id] || dropped[id] {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func parseRerankResponse(raw string) (rerankResponse, error) {
	var resp rerankResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return rerankResponse{}, fmt.Errorf("malformed rerank response: %w", err)
	}
	return resp, nil
}

// BuildProfileText flattens the structured preference fields plus the
// parsed resume digest into the prose block the prompts expect.
func BuildProfileText(p user.Profile) string {
	var parts []string
	if p.FullName != nil && *p.FullName != "" {
		parts = append(parts, "Name: "+*p.FullName)
	}
	if len(p.DesiredRoles) > 0 {
		parts = append(parts, "Desired roles: "+strings.Join(p.DesiredRoles, ", "))
	}
	if len(p.Locations) > 0 {
		parts = append(parts, "Preferred locations: "+strings.Join(p.Locations, ", "))
	}
	if p.SalaryMin != nil {
		parts = append(parts, fmt.Sprintf("Minimum salary: %d", *p.SalaryMin))
	}
	if p.SalaryMax != nil {
		parts = append(parts, fmt.Sprintf("Maximum salary: %d", *p.SalaryMax))
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}
	if p.ResumeDigest != nil && *p.ResumeDigest != "" {
		parts = append(parts, "Resume digest:\n"+*p.ResumeDigest)
	}
	return strings.Join(parts, "\n")
}

// truncate cuts at a rune boundary so multi-byte text never ends in a
// broken sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
