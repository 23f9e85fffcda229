// Package settings holds the user settings that follow the user between
// devices. API keys are never stored here.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/oukeidos/wordlens/internal/kv"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/lookup"
)

// Key is the record name inside the synced namespace.
const Key = "settings"

// Explanation backends.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

type Explain struct {
	// Backend is "openai" for any OpenAI-compatible endpoint, or "gemini".
	Backend string `json:"backend"`
	BaseURL string `json:"baseUrl,omitempty"`
	Model   string `json:"model,omitempty"`
}

type Settings struct {
	Enabled            bool          `json:"enabled"`
	AutoSpeak          bool          `json:"autoSpeak"`
	ClipboardEnabled   bool          `json:"clipboardEnabled"`
	TranslationService lookup.Source `json:"translationService"`
	DictionaryEnrich   bool          `json:"dictionaryEnrich"`
	Explain            Explain       `json:"explain"`
}

func Default() Settings {
	return Settings{
		Enabled:            true,
		TranslationService: lookup.SourceMachineTranslation,
		DictionaryEnrich:   true,
		Explain:            Explain{Backend: BackendOpenAI},
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if _, ok := lookup.ParseSource(string(s.TranslationService)); !ok {
		return fmt.Errorf("unknown translation service %q", s.TranslationService)
	}
	switch s.Explain.Backend {
	case BackendOpenAI, BackendGemini:
	default:
		return fmt.Errorf("unknown explanation backend %q", s.Explain.Backend)
	}
	return nil
}

func (s Settings) normalized() Settings {
	if s.TranslationService == "" {
		s.TranslationService = lookup.SourceMachineTranslation
	}
	if src, ok := lookup.ParseSource(string(s.TranslationService)); ok {
		s.TranslationService = src
	}
	s.Explain.Backend = strings.ToLower(strings.TrimSpace(s.Explain.Backend))
	if s.Explain.Backend == "" {
		s.Explain.Backend = BackendOpenAI
	}
	s.Explain.BaseURL = strings.TrimSpace(s.Explain.BaseURL)
	s.Explain.Model = strings.TrimSpace(s.Explain.Model)
	return s
}

// Manager is the single settings object shared by providers, the
// orchestrator and the CLI. Readers take Current per call.
type Manager struct {
	store kv.Store

	mu          sync.RWMutex
	current     Settings
	subscribers []func(Settings)
}

func NewManager(store kv.Store) *Manager {
	return &Manager{store: store, current: Default()}
}

// Load reads the stored settings. A missing record keeps the defaults.
func (m *Manager) Load(ctx context.Context) error {
	s := Default()
	err := kv.GetJSON(ctx, m.store, Key, &s)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s = Default()
	case err != nil:
		return fmt.Errorf("load settings: %w", err)
	}
	s = s.normalized()
	if err := s.Validate(); err != nil {
		logger.Warn("Stored settings are invalid; using defaults", "error", err)
		s = Default()
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// Reload re-reads the store and notifies subscribers.
func (m *Manager) Reload(ctx context.Context) error {
	if err := m.Load(ctx); err != nil {
		return err
	}
	m.notify(m.Current())
	return nil
}

func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update applies fn to a copy of the current settings, validates and
// persists the result, then notifies subscribers.
func (m *Manager) Update(ctx context.Context, fn func(*Settings)) (Settings, error) {
	m.mu.Lock()
	next := m.current
	fn(&next)
	next = next.normalized()
	if err := next.Validate(); err != nil {
		m.mu.Unlock()
		return Settings{}, err
	}
	if err := kv.SetJSON(ctx, m.store, Key, next); err != nil {
		m.mu.Unlock()
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	m.current = next
	m.mu.Unlock()

	logger.Debug("Settings updated", "translationService", next.TranslationService, "explainBackend", next.Explain.Backend)
	m.notify(next)
	return next, nil
}

// Subscribe registers fn for change notifications. The returned function
// removes it.
func (m *Manager) Subscribe(fn func(Settings)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
	idx := len(m.subscribers) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx < len(m.subscribers) {
			m.subscribers[idx] = nil
		}
	}
}

func (m *Manager) notify(s Settings) {
	m.mu.RLock()
	subs := make([]func(Settings), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(s)
	}
}
