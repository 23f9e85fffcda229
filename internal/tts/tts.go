// Package tts fetches pronunciation audio for a word.
package tts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oukeidos/wordlens/internal/httpclient"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
)

const (
	DefaultTimeout = 8 * time.Second
	// MinAudioBytes rejects error pages served with an audio content type.
	MinAudioBytes = 100
	MaxWordRunes  = 50
	referer       = "https://translate.google.com/"
)

// DefaultEndpoints are tried in order.
var DefaultEndpoints = []string{
	"https://translate.google.com/translate_tts?ie=UTF-8&client=tw-ob",
	"https://translate.google.com/translate_tts?ie=UTF-8&client=gtx",
}

type Audio struct {
	Data        []byte
	ContentType string
	Filename    string
}

type Client struct {
	endpoints []string
	timeout   time.Duration
}

func NewClient(endpoints []string, timeout time.Duration) *Client {
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{endpoints: endpoints, timeout: timeout}
}

// Fetch returns nil, nil when the word is unsuitable or every endpoint fails;
// audio is optional for callers.
func (c *Client) Fetch(ctx context.Context, word string, lang language.ID) (*Audio, error) {
	word = strings.TrimSpace(word)
	if word == "" || lang.Code() == "" || utf8.RuneCountInString(word) > MaxWordRunes {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("User-Agent", httpclient.UserAgent)
	header.Set("Referer", referer)

	client := httpclient.GetDefaultClient()

	for _, endpoint := range c.endpoints {
		target, err := buildURL(endpoint, word, lang)
		if err != nil {
			logger.Debug("TTS endpoint skipped", "endpoint", endpoint, "error", err)
			continue
		}
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		body, resp, err := httpclient.Get(attemptCtx, client, "text-to-speech", target, header)
		cancel()
		if err != nil {
			logger.Debug("TTS endpoint failed", "endpoint", endpoint, "word", word, "error", err)
			continue
		}
		contentType := resp.Header.Get("Content-Type")
		if !strings.Contains(contentType, "audio") || len(body) < MinAudioBytes {
			logger.Debug("TTS endpoint returned no audio", "endpoint", endpoint, "contentType", contentType, "bytes", len(body))
			continue
		}
		return &Audio{Data: body, ContentType: contentType, Filename: Filename(word, lang)}, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	logger.Warn("No pronunciation audio available", "word", word, "lang", lang)
	return nil, nil
}

func buildURL(endpoint, word string, lang language.ID) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("tl", lang.Code())
	q.Set("q", word)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9\x{4e00}-\x{9fff}]+`)

// Filename is the media file name used for word in lang. It is stable for a
// given input so re-uploads overwrite rather than accumulate.
func Filename(word string, lang language.ID) string {
	safe := unsafeRun.ReplaceAllString(strings.TrimSpace(word), "_")
	return fmt.Sprintf("tts_%s_%s.mp3", lang.Code(), safe)
}
