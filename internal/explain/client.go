// Package explain asks a chat model for a structured explanation of a word
// and decodes the JSON it returns.
package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/gemini"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/openai"
	"github.com/oukeidos/wordlens/internal/settings"
)

const (
	ProviderName   = "explanation"
	DefaultTimeout = 30 * time.Second
)

// Completer is a single-turn chat backend. openai.Client and gemini.Client
// implement it.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

// Source supplies the current settings snapshot.
type Source interface {
	Current() settings.Settings
}

// KeyFunc returns the API key stored for a backend, or "".
type KeyFunc func(backend string) string

// Factory builds a Completer for one request. close may be nil.
type Factory func(ctx context.Context, cfg settings.Explain, apiKey string) (Completer, func() error, error)

type Client struct {
	settings Source
	keys     KeyFunc
	factory  Factory
	timeout  time.Duration
}

func NewClient(src Source, keys KeyFunc, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		settings: src,
		keys:     keys,
		factory:  defaultFactory,
		timeout:  timeout,
	}
}

// Configured reports whether an API key exists for the selected backend.
func (c *Client) Configured() bool {
	if c == nil || c.keys == nil {
		return false
	}
	return strings.TrimSpace(c.keys(c.settings.Current().Explain.Backend)) != ""
}

// Explain returns the raw payload for text. lang selects the prompt.
func (c *Client) Explain(ctx context.Context, text string, lang language.ID) (*Response, error) {
	cfg := c.settings.Current().Explain
	completer, closeFn, err := c.open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closeFn != nil {
		defer closeFn()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp := &Response{Model: cfg.Model}
	switch lang {
	case language.English:
		out, err := completer.Complete(ctx, englishSystemPrompt, englishPrompt(text), englishTemperature, maxTokens)
		if err != nil {
			return nil, apperrors.WithProvider(err, ProviderName)
		}
		var p EnglishPayload
		if err := decode(out, &p); err != nil {
			return nil, apperrors.WithProvider(err, ProviderName)
		}
		resp.English = &p
	case language.Chinese:
		out, err := completer.Complete(ctx, chineseSystemPrompt, chinesePrompt(text), chineseTemperature, maxTokens)
		if err != nil {
			return nil, apperrors.WithProvider(err, ProviderName)
		}
		var p ChinesePayload
		if err := decode(out, &p); err != nil {
			return nil, apperrors.WithProvider(err, ProviderName)
		}
		resp.Chinese = &p
	default:
		return nil, apperrors.WithProvider(apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Unsupported language %q.", lang), nil), ProviderName)
	}

	logger.Debug("Explanation received", "provider", ProviderName, "backend", cfg.Backend, "word", text, "duration", time.Since(start))
	return resp, nil
}

// Validate sends a short test completion with the current settings and key.
func (c *Client) Validate(ctx context.Context) error {
	completer, closeFn, err := c.open(ctx, c.settings.Current().Explain)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := completer.Complete(ctx, "Reply with one word.", "hello", 0, 10); err != nil {
		return apperrors.WithProvider(err, ProviderName)
	}
	return nil
}

func (c *Client) open(ctx context.Context, cfg settings.Explain) (Completer, func() error, error) {
	key := ""
	if c.keys != nil {
		key = strings.TrimSpace(c.keys(cfg.Backend))
	}
	if key == "" {
		return nil, nil, apperrors.WithProvider(apperrors.New(apperrors.KindAuth, "API key not configured", nil), ProviderName)
	}
	completer, closeFn, err := c.factory(ctx, cfg, key)
	if err != nil {
		return nil, nil, apperrors.WithProvider(err, ProviderName)
	}
	return completer, closeFn, nil
}

func defaultFactory(ctx context.Context, cfg settings.Explain, apiKey string) (Completer, func() error, error) {
	switch cfg.Backend {
	case settings.BackendGemini:
		model := cfg.Model
		if model == "" {
			model = gemini.DefaultModel
		}
		gc, err := gemini.NewClient(ctx, apiKey, model)
		if err != nil {
			return nil, nil, err
		}
		return gc, gc.Close, nil
	case settings.BackendOpenAI, "":
		base, model := cfg.BaseURL, cfg.Model
		if p, ok := PresetFor(base); ok && model == "" {
			model = p.Model
		}
		return openai.NewClient(apiKey, base, model), nil, nil
	default:
		return nil, nil, apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Unknown explanation backend %q.", cfg.Backend), nil)
	}
}
