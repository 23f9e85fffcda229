// Package translator picks a provider for a classified word, coalesces
// concurrent lookups, falls back to machine translation once and caches the
// normalized result.
package translator

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/cache"
	"github.com/oukeidos/wordlens/internal/classify"
	"github.com/oukeidos/wordlens/internal/dictionary"
	"github.com/oukeidos/wordlens/internal/explain"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/lookup"
	"github.com/oukeidos/wordlens/internal/mt"
	"github.com/oukeidos/wordlens/internal/settings"
)

type MachineTranslator interface {
	Translate(ctx context.Context, text string, from, to language.ID) (*mt.Response, error)
}

type Dictionary interface {
	Lookup(ctx context.Context, word string) (*dictionary.Entry, error)
}

type Explainer interface {
	Configured() bool
	Explain(ctx context.Context, text string, lang language.ID) (*explain.Response, error)
}

// SettingsSource supplies the settings snapshot read on every call.
type SettingsSource interface {
	Current() settings.Settings
}

// Providers groups the lookup backends. MT is required; the others may be nil.
type Providers struct {
	MT         MachineTranslator
	Dictionary Dictionary
	Explain    Explainer
}

type Translator struct {
	providers Providers
	settings  SettingsSource
	cache     *cache.Cache
	examples  *mt.ExampleGenerator
	group     singleflight.Group
	log       *slog.Logger
}

// New returns a Translator. A nil cache gets a fresh session cache and a nil
// examples generator gets a randomly seeded one.
func New(p Providers, src SettingsSource, c *cache.Cache, examples *mt.ExampleGenerator) *Translator {
	if c == nil {
		c = cache.New()
	}
	if examples == nil {
		examples = mt.NewExampleGenerator(nil)
	}
	return &Translator{
		providers: p,
		settings:  src,
		cache:     c,
		examples:  examples,
		log:       logger.Component("translator"),
	}
}

// Cache exposes the session cache.
func (t *Translator) Cache() *cache.Cache { return t.cache }

// Translate looks text up. Concurrent calls for the same cache key share one
// provider round; a caller whose ctx ends stops waiting without cancelling
// the shared lookup.
func (t *Translator) Translate(ctx context.Context, text string) (lookup.Result, error) {
	text = strings.TrimSpace(text)
	lang := classify.Classify(text)
	if lang == language.None {
		return lookup.Result{}, ErrUnclassified
	}
	key := cache.Key(text, lang)
	if r, ok := t.cache.Get(key); ok {
		t.log.Debug("Cache hit", "word", text)
		return r, nil
	}

	// Rounds started before a Clear neither serve nor fill the cleared cache.
	gen := t.cache.Generation()
	ch := t.group.DoChan(strconv.FormatUint(gen, 10)+"/"+key, func() (any, error) {
		if r, ok := t.cache.Get(key); ok {
			return r, nil
		}
		r, err := t.lookup(context.WithoutCancel(ctx), text, lang)
		if err != nil {
			return lookup.Result{}, err
		}
		if !t.cache.PutIf(gen, key, r) {
			t.log.Debug("Cache cleared during lookup, result not stored", "word", text)
		}
		return r, nil
	})

	select {
	case <-ctx.Done():
		return lookup.Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return lookup.Result{}, res.Err
		}
		return res.Val.(lookup.Result), nil
	}
}

// Preferred returns the provider tried first for lang under the current settings.
func (t *Translator) Preferred(lang language.ID) lookup.Source {
	s := t.settings.Current()
	if lang == language.Chinese {
		if s.TranslationService == lookup.SourceExplanation && t.providers.Explain != nil && t.providers.Explain.Configured() {
			return lookup.SourceExplanation
		}
		return lookup.SourceMachineTranslation
	}
	switch s.TranslationService {
	case lookup.SourceExplanation:
		return lookup.SourceExplanation
	case lookup.SourceDictionary:
		return lookup.SourceDictionary
	default:
		return lookup.SourceMachineTranslation
	}
}

func (t *Translator) lookup(ctx context.Context, text string, lang language.ID) (lookup.Result, error) {
	preferred := t.Preferred(lang)
	start := time.Now()

	r, err := t.attempt(ctx, preferred, text, lang)
	if err == nil {
		t.log.Debug("Lookup complete", "word", text, "provider", preferred, "duration", time.Since(start))
		return r, nil
	}
	if preferred == lookup.SourceMachineTranslation {
		t.log.Warn("Lookup failed", "word", text, "provider", preferred, "error", err)
		return lookup.Result{}, &ExhaustedError{Text: text, Source: preferred, Preferred: err}
	}

	t.log.Warn("Provider failed; falling back to machine translation", "word", text, "provider", preferred, "error", err)
	fr, ferr := t.attempt(ctx, lookup.SourceMachineTranslation, text, lang)
	if ferr != nil {
		t.log.Warn("Fallback failed", "word", text, "error", ferr)
		return lookup.Result{}, &ExhaustedError{Text: text, Source: preferred, Preferred: err, Fallback: ferr}
	}
	return fr, nil
}

func (t *Translator) attempt(ctx context.Context, src lookup.Source, text string, lang language.ID) (lookup.Result, error) {
	switch src {
	case lookup.SourceExplanation:
		if t.providers.Explain == nil {
			return lookup.Result{}, apperrors.New(apperrors.KindAuth, "API key not configured", nil)
		}
		resp, err := t.providers.Explain.Explain(ctx, text, lang)
		if err != nil {
			return lookup.Result{}, err
		}
		return fromExplanation(resp, text, lang), nil

	case lookup.SourceDictionary:
		if t.providers.Dictionary == nil {
			return lookup.Result{}, errors.New("dictionary provider not configured")
		}
		entry, err := t.providers.Dictionary.Lookup(ctx, text)
		if err != nil {
			return lookup.Result{}, err
		}
		if entry == nil || entry.Placeholder {
			return lookup.Result{}, apperrors.WithProvider(apperrors.New(apperrors.KindNotFound, "No dictionary entry found.", nil), string(lookup.SourceDictionary))
		}
		return fromDictionary(entry, text), nil

	default:
		resp, err := t.providers.MT.Translate(ctx, text, lang, lang.Target())
		if err != nil {
			return lookup.Result{}, err
		}
		r := fromMT(resp, text, lang, t.examples)
		if lang == language.English && t.settings.Current().DictionaryEnrich && t.providers.Dictionary != nil {
			entry, derr := t.providers.Dictionary.Lookup(ctx, text)
			if derr != nil {
				t.log.Debug("Dictionary enrichment skipped", "word", text, "error", derr)
				r.NoDictionaryData = true
				return r, nil
			}
			r = enrich(r, entry)
		}
		return r, nil
	}
}
