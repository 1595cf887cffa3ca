package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	"github.com/maxange-developer/master-start2impact/internal/metrics"
)

// Client is a JSON-mode chat completion provider over the OpenAI-compatible API.
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewClient creates an OpenAI-compatible completion provider.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// CompleteJSON implements domain.Completer. Requests a JSON-object response and
// returns the raw message content with transport-level metrics. A response with
// no choices yields an empty string, not an error.
func (c *Client) CompleteJSON(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(req.Op, "error").Inc()
		return "", classifyAPIError(err)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(req.Op, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(req.Op).Observe(duration.Seconds())

	if len(resp.Choices) == 0 {
		c.logger.Warn("completion returned no choices",
			zap.String("op", req.Op),
			zap.String("model", c.model),
		)
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// classifyAPIError maps provider failures onto the pipeline fault taxonomy.
// Rate/billing limits become domain.ErrQuotaExceeded, rejected keys become
// domain.ErrInvalidCredential; everything else stays a generic error for the
// caller to swallow.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case isQuotaSignature(apiErr.HTTPStatusCode, apiErr.Type):
			return fmt.Errorf("completion API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrQuotaExceeded)
		case isCredentialSignature(apiErr.HTTPStatusCode):
			return fmt.Errorf("completion API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrInvalidCredential)
		default:
			return fmt.Errorf("completion API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case isQuotaSignature(reqErr.HTTPStatusCode, ""):
			return fmt.Errorf("completion API error %d: %w", reqErr.HTTPStatusCode, domain.ErrQuotaExceeded)
		case isCredentialSignature(reqErr.HTTPStatusCode):
			return fmt.Errorf("completion API error %d: %w", reqErr.HTTPStatusCode, domain.ErrInvalidCredential)
		default:
			return fmt.Errorf("completion API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
		}
	}

	return fmt.Errorf("completion request failed: %w", err)
}

func isQuotaSignature(status int, errType string) bool {
	return status == 429 || strings.Contains(errType, "quota") || strings.Contains(errType, "billing")
}

func isCredentialSignature(status int) bool {
	return status == 401 || status == 403
}
