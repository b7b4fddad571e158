package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/camuig/trader-analyst/internal/config"
	"github.com/camuig/trader-analyst/internal/logger"
)

// Client sends single-prompt completions to an OpenAI-compatible endpoint.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	ocfg := openai.DefaultConfig(cfg.LLM.APIKey)
	ocfg.BaseURL = cfg.LLM.BaseURL

	limit := rate.Inf
	if rpm := cfg.LLM.RequestsPerMinute; rpm > 0 {
		limit = rate.Every(time.Minute / time.Duration(rpm))
	}

	return &Client{
		client:  openai.NewClientWithConfig(ocfg),
		model:   cfg.LLM.Model,
		timeout: cfg.LLMTimeout(),
		limiter: rate.NewLimiter(limit, 1),
		logger:  log,
	}
}

// Complete makes one attempt bounded by the configured timeout. There is no retry.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("completion rate limit: %w", err)
	}

	c.logger.Debug("sending completion request", "model", c.model, "prompt_length", len(prompt))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	c.logger.Info("received completion", "length", len(raw))
	c.logger.Debug("completion raw response", "content", raw)

	return CleanResponse(raw), nil
}

// Mock answers every prompt with a fixed placeholder. It is used only when
// no credential is configured and the caller allowed degraded mode.
type Mock struct{}

const MockAnswer = "[MOCK] API not configured."

func (Mock) Complete(context.Context, string) (string, error) {
	return MockAnswer, nil
}
