package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/oukeidos/wordlens/internal/logger"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageMemory:
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of file, postgres, memory (got %q)", c.Storage.Backend)
	}

	p := c.Providers
	urls := map[string]string{
		"providers.mt_url":              p.MachineTranslationURL,
		"providers.free_dictionary_url": p.FreeDictionaryURL,
		"providers.wordsapi_url":        p.WordsAPIURL,
		"anki.url":                      c.Anki.URL,
	}
	for i, u := range p.TTSURLs {
		urls[fmt.Sprintf("providers.tts_urls[%d]", i)] = u
	}
	for name, raw := range urls {
		if err := checkURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	timeouts := map[string]time.Duration{
		"providers.mt_timeout":          p.MachineTranslationTimeout,
		"providers.dictionary_timeout":  p.DictionaryTimeout,
		"providers.dictionary_attempt":  p.DictionaryAttemptTimeout,
		"providers.tts_timeout":         p.TTSTimeout,
		"providers.explanation_timeout": p.ExplanationTimeout,
		"anki.timeout":                  c.Anki.Timeout,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0 (got %v)", name, d)
		}
	}
	if p.DictionaryAttemptTimeout > p.DictionaryTimeout {
		return fmt.Errorf("providers.dictionary_attempt (%v) must not exceed providers.dictionary_timeout (%v)",
			p.DictionaryAttemptTimeout, p.DictionaryTimeout)
	}

	if c.Anki.Version <= 0 {
		return fmt.Errorf("anki.version must be > 0 (got %d)", c.Anki.Version)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// DataDir returns the directory used by the file storage backend.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "wordlens"), nil
}
