package dictionary

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/oukeidos/wordlens/internal/logger"
)

const (
	DefaultOverallTimeout = 4000 * time.Millisecond
	DefaultAttemptTimeout = 3000 * time.Millisecond

	minWordLength = 2
	maxWordLength = 30
)

// Backend is one dictionary service. Fetch returns nil, nil when the word is unknown.
type Backend interface {
	Name() string
	Fetch(ctx context.Context, word string) (*Entry, error)
}

// Client races its backends.
type Client struct {
	backends []Backend
	overall  time.Duration
	attempt  time.Duration
	log      *slog.Logger
}

// NewClient returns a client querying backends, listed in priority order.
// Non-positive timeouts select the defaults.
func NewClient(backends []Backend, overall, attempt time.Duration) *Client {
	if overall <= 0 {
		overall = DefaultOverallTimeout
	}
	if attempt <= 0 {
		attempt = DefaultAttemptTimeout
	}
	return &Client{
		backends: backends,
		overall:  overall,
		attempt:  attempt,
		log:      logger.Component("dictionary"),
	}
}

type outcome struct {
	backend string
	entry   *Entry
	err     error
}

// Lookup returns the first backend entry with at least one sense. All backends
// start at once; the winner cancels the others. When no backend answers in
// time the placeholder entry is returned. The error is non-nil only when ctx
// itself is done.
func (c *Client) Lookup(ctx context.Context, word string) (*Entry, error) {
	// Backends such as WordsAPI match case-sensitively.
	word = strings.ToLower(strings.TrimSpace(word))
	if n := utf8.RuneCountInString(word); n < minWordLength || n > maxWordLength || len(c.backends) == 0 {
		return placeholder(word), nil
	}

	raceCtx, cancel := context.WithTimeout(ctx, c.overall)
	defer cancel()

	results := make(chan outcome, len(c.backends))
	var g errgroup.Group
	for _, b := range c.backends {
		g.Go(func() error {
			attemptCtx, cancelAttempt := context.WithTimeout(raceCtx, c.attempt)
			defer cancelAttempt()
			start := time.Now()
			entry, err := b.Fetch(attemptCtx, word)
			c.log.Debug("backend answered", "backend", b.Name(), "word", word, "elapsed", time.Since(start), "error", err)
			results <- outcome{backend: b.Name(), entry: entry, err: err}
			return nil
		})
	}

	var winner *Entry
	for range c.backends {
		var o outcome
		select {
		case o = <-results:
		case <-raceCtx.Done():
		}
		if raceCtx.Err() != nil && o.backend == "" {
			break
		}
		if o.err != nil {
			c.log.Warn("backend failed", "backend", o.backend, "word", word, "error", o.err)
			continue
		}
		if o.entry != nil && len(o.entry.Senses) > 0 {
			o.entry.Backend = o.backend
			winner = o.entry
			break
		}
	}
	cancel()
	_ = g.Wait()

	if winner != nil {
		return winner, nil
	}
	if err := ctx.Err(); err != nil {
		return placeholder(word), err
	}
	c.log.Info("no dictionary data", "word", word)
	return placeholder(word), nil
}
