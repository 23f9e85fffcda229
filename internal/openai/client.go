// Package openai is a chat-completions backend for any OpenAI-compatible API
// (OpenAI, SiliconFlow, DeepSeek, Moonshot, Zhipu).
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/httpclient"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
)

// Client sends single-turn chat completions.
type Client struct {
	api   *goopenai.Client
	model string
	label string
}

// NewClient accepts either an API root ("https://api.deepseek.com/v1") or a
// full chat-completions URL as baseURL.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := goopenai.DefaultConfig(strings.TrimSpace(apiKey))
	cfg.BaseURL = NormalizeBaseURL(baseURL)
	cfg.HTTPClient = httpclient.GetDefaultClient()
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Client{
		api:   goopenai.NewClientWithConfig(cfg),
		model: model,
		label: "OpenAI-compatible API",
	}
}

// NormalizeBaseURL strips a trailing "/chat/completions" and slashes.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return DefaultBaseURL
	}
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	return strings.TrimRight(u, "/")
}

func (c *Client) Model() string { return c.model }

// Complete sends a system and a user message and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.classifyError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.KindValidation, fmt.Sprintf("%s returned no choices.", c.label), nil)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperrors.New(apperrors.KindValidation, fmt.Sprintf("%s returned an empty message.", c.label), nil)
	}
	return text, nil
}

func (c *Client) classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s request cancelled or timed out.", c.label), err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(c.label, apiErr.HTTPStatusCode, apiErr.Type, fmt.Errorf("openai api error type=%s: %w", apiErr.Type, err))
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(c.label, reqErr.HTTPStatusCode, "", fmt.Errorf("openai request error: %w", err))
	}
	return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s is unreachable.", c.label), err)
}

func classifyStatus(label string, statusCode int, errType string, cause error) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return apperrors.New(apperrors.KindRateLimit, fmt.Sprintf("%s rate limit exceeded (429): please try again later.", label), cause)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("%s authentication/authorization failed (%d): please verify your API key and permissions.", label, statusCode), cause)
	case statusCode == http.StatusNotFound:
		if strings.Contains(errType, "model") || strings.Contains(errType, "invalid_request") {
			return apperrors.New(apperrors.KindBadRequest, "The model does not exist or you do not have access to it.", cause)
		}
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("%s endpoint not found (404): check the base URL.", label), cause)
	case statusCode >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s server error (%d): please try again later.", label, statusCode), cause)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("%s error (%d).", label, statusCode), cause)
	}
}
