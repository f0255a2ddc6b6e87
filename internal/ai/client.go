package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// Client is the single seam to the hosted model; usecases depend on this
// interface so tests can substitute canned responses.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	embedder  *genai.EmbeddingModel
	minuteLim *rate.Limiter
	dayLim    *rate.Limiter
	logger    *log.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *log.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	c := &GeminiClient{
		client:   client,
		model:    client.GenerativeModel(cfg.Model),
		embedder: client.EmbeddingModel(cfg.EmbeddingModel),
		logger:   logger,
	}
	if cfg.RequestsPerMinute > 0 {
		c.minuteLim = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 1)
	}
	if cfg.RequestsPerDay > 0 {
		c.dayLim = rate.NewLimiter(rate.Limit(cfg.RequestsPerDay/86400), int(cfg.RequestsPerDay))
	}
	return c, nil
}

func (c *GeminiClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 && c.logger != nil {
			c.logger.Printf("[AI] model returned 500, retrying (attempt %d)", i+1)
		}
		resp, err = c.waitAndGenerate(ctx, prompt)
		return err, isInternalError(err)
	})

	return resp, err
}

func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	res, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return res.Embedding.Values, nil
}

func (c *GeminiClient) wait(ctx context.Context) error {
	for _, lim := range []*rate.Limiter{c.minuteLim, c.dayLim} {
		if lim == nil {
			continue
		}
		if err := lim.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *GeminiClient) waitAndGenerate(ctx context.Context, prompt string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	response, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	part := response.Candidates[0].Content.Parts[0]
	if textPart, ok := part.(genai.Text); ok {
		return string(textPart), nil
	}
	return "", fmt.Errorf("response part is not text")
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
