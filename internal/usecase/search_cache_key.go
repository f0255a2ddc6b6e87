package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/repository"
)

type jobSearchCacheKeyInput struct {
	JobType         string   `json:"job_type"`
	Location        string   `json:"location"`
	VisaRequirement string   `json:"visa_requirement"`
	Platform        string   `json:"platform"`
	CompanyName     string   `json:"company_name"`
	TitleKeywords   []string `json:"title_keywords"`
	MinSalary       int      `json:"min_salary"`
	MinExperience   int      `json:"min_experience"`
	CreatedAfter    string   `json:"created_after"`
	SortBy          string   `json:"sort_by"`
	SortOrder       string   `json:"sort_order"`
	Page            int      `json:"page"`
	PageSize        int      `json:"page_size"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func JobsSearchCacheKey(f repository.JobFilter) string {
	kw := make([]string, 0, len(f.TitleKeywords))
	for _, k := range f.TitleKeywords {
		k = normalizeSearchValue(k)
		if k == "" {
			continue
		}
		kw = append(kw, k)
	}

	after := ""
	if f.CreatedAfter != nil {
		after = f.CreatedAfter.UTC().Format(time.RFC3339)
	}

	in := jobSearchCacheKeyInput{
		JobType:         normalizeSearchValue(f.JobType),
		Location:        normalizeSearchValue(f.Location),
		VisaRequirement: normalizeSearchValue(f.VisaRequirement),
		Platform:        normalizeSearchValue(f.Platform),
		CompanyName:     normalizeSearchValue(f.CompanyName),
		TitleKeywords:   kw,
		MinSalary:       f.MinSalary,
		MinExperience:   f.MinExperience,
		CreatedAfter:    after,
		SortBy:          string(f.SortBy),
		SortOrder:       normalizeSearchValue(f.SortOrder),
		Page:            f.Page,
		PageSize:        f.PageSize,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "jobs:search:" + hex.EncodeToString(sum[:])
}

func JobsSearchLockKey(searchKey string) string {
	searchKey = strings.TrimSpace(searchKey)
	if strings.HasPrefix(searchKey, "jobs:search:") {
		return "jobs:lock:" + strings.TrimPrefix(searchKey, "jobs:search:")
	}
	return "jobs:lock:" + searchKey
}
