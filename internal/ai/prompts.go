package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/resume_parse.md
var resumeParsePromptRaw string

//go:embed prompts/resume_review.md
var resumeReviewPromptRaw string

//go:embed prompts/job_summary.md
var jobSummaryPromptRaw string

//go:embed prompts/rerank.md
var rerankPromptRaw string

//go:embed prompts/search_answer.md
var searchAnswerPromptRaw string

// Parsed once at package init; reused on every call.
var (
	ResumeParseTemplate  = template.Must(template.New("resume_parse").Parse(resumeParsePromptRaw))
	ResumeReviewTemplate = template.Must(template.New("resume_review").Parse(resumeReviewPromptRaw))
	JobSummaryTemplate   = template.Must(template.New("job_summary").Parse(jobSummaryPromptRaw))
	RerankTemplate       = template.Must(template.New("rerank").Parse(rerankPromptRaw))
	SearchAnswerTemplate = template.Must(template.New("search_answer").Parse(searchAnswerPromptRaw))
)
