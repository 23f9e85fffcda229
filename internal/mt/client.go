// Package mt is the machine-translation provider backed by the public gtx endpoint.
package mt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/httpclient"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
)

const (
	DefaultBaseURL = "https://translate.googleapis.com/translate_a/single"
	DefaultTimeout = 5 * time.Second
	serviceName    = "machine-translation"
)

// Response is the dj=1 JSON shape of translate_a/single with dt=t and dt=bd.
type Response struct {
	Sentences []Sentence  `json:"sentences"`
	Dict      []DictGroup `json:"dict"`
	Src       string      `json:"src"`
}

type Sentence struct {
	Trans string `json:"trans"`
	Orig  string `json:"orig"`
}

// DictGroup lists the dictionary translations of one part of speech.
type DictGroup struct {
	Pos   string      `json:"pos"`
	Terms []string    `json:"terms"`
	Entry []DictEntry `json:"entry"`
}

type DictEntry struct {
	Word               string   `json:"word"`
	ReverseTranslation []string `json:"reverse_translation"`
	Score              float64  `json:"score"`
}

// Translation returns the concatenated sentence translations.
func (r *Response) Translation() string {
	var b strings.Builder
	for _, s := range r.Sentences {
		b.WriteString(s.Trans)
	}
	return strings.TrimSpace(b.String())
}

// Client talks to the machine-translation endpoint. It needs no credentials.
type Client struct {
	baseURL string
	timeout time.Duration
	log     *slog.Logger
}

// NewClient returns a client for baseURL; empty values select the defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		log:     logger.Component(serviceName),
	}
}

// Translate translates text from one supported language into the other.
func (c *Client) Translate(ctx context.Context, text string, from, to language.ID) (*Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.New(apperrors.KindBadRequest, "Nothing to translate.", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from.Code())
	q.Set("tl", to.Code())
	q.Add("dt", "t")
	q.Add("dt", "bd")
	q.Set("dj", "1")
	q.Set("q", text)

	start := time.Now()
	body, _, err := httpclient.Get(ctx, httpclient.GetDefaultClient(), serviceName, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, apperrors.WithProvider(err, serviceName)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.WithProvider(apperrors.New(apperrors.KindValidation, "Machine translation returned a malformed body.", fmt.Errorf("decode response: %w", err)), serviceName)
	}
	if resp.Translation() == "" {
		return nil, apperrors.WithProvider(apperrors.New(apperrors.KindValidation, "Machine translation returned no translation.", nil), serviceName)
	}
	c.log.Debug("translated", "word", text, "from", from.Code(), "to", to.Code(), "dict_groups", len(resp.Dict), "elapsed", time.Since(start))
	return &resp, nil
}
