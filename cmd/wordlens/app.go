package main

import (
	"context"
	"fmt"

	"github.com/oukeidos/wordlens/internal/anki"
	"github.com/oukeidos/wordlens/internal/auth"
	"github.com/oukeidos/wordlens/internal/cleanup"
	"github.com/oukeidos/wordlens/internal/config"
	"github.com/oukeidos/wordlens/internal/dictionary"
	"github.com/oukeidos/wordlens/internal/explain"
	"github.com/oukeidos/wordlens/internal/flashcard"
	"github.com/oukeidos/wordlens/internal/kv"
	"github.com/oukeidos/wordlens/internal/kv/filestore"
	"github.com/oukeidos/wordlens/internal/kv/pgstore"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/mt"
	"github.com/oukeidos/wordlens/internal/settings"
	"github.com/oukeidos/wordlens/internal/translator"
	"github.com/oukeidos/wordlens/internal/tts"
	"github.com/oukeidos/wordlens/internal/vocab"
)

// app is the wired runtime shared by the commands that touch storage or providers.
type app struct {
	cfg        *config.Config
	settings   *settings.Manager
	books      *vocab.Store
	translator *translator.Translator
	explain    *explain.Client
	speech     flashcard.Speech
	remote     flashcard.Remote
}

// newApp is replaced in tests.
var newApp = buildApp

func buildApp(ctx context.Context, opts *globalOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := initLogging(opts, &cfg.Log); err != nil {
		return nil, err
	}
	synced, local, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mgr := settings.NewManager(synced)
	if err := mgr.Load(ctx); err != nil {
		return nil, err
	}

	keys := auth.KeyFunc(opts.allowEnv)
	p := cfg.Providers
	backends := []dictionary.Backend{dictionary.NewFreeDictionary(p.FreeDictionaryURL)}
	if key := keys(auth.RapidAPI); key != "" {
		backends = append(backends, dictionary.NewWordsAPI(p.WordsAPIURL, key))
	}
	explainer := explain.NewClient(mgr, explain.KeyFunc(keys), p.ExplanationTimeout)

	tr := translator.New(translator.Providers{
		MT:         mt.NewClient(p.MachineTranslationURL, p.MachineTranslationTimeout),
		Dictionary: dictionary.NewClient(backends, p.DictionaryTimeout, p.DictionaryAttemptTimeout),
		Explain:    explainer,
	}, mgr, nil, nil)
	// Cached results may come from a provider the new settings no longer select.
	mgr.Subscribe(func(settings.Settings) { tr.Cache().Clear() })

	return &app{
		cfg:        cfg,
		settings:   mgr,
		books:      vocab.NewStore(local),
		translator: tr,
		explain:    explainer,
		speech:     tts.NewClient(p.TTSURLs, p.TTSTimeout),
		remote:     anki.NewClient(cfg.Anki.URL, cfg.Anki.Version, cfg.Anki.Timeout),
	}, nil
}

// openStores returns the synced and local namespaces of the configured backend.
func openStores(ctx context.Context, cfg *config.Config) (kv.Store, kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; nothing will be saved")
		return kv.NewMemory(), kv.NewMemory(), nil
	case config.StoragePostgres:
		pool, err := pgstore.Connect(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		cleanup.RegisterFunc("postgres pool", pool.Close)
		if err := pgstore.EnsureSchema(ctx, pool); err != nil {
			return nil, nil, err
		}
		return pgstore.New(pool, kv.Synced), pgstore.New(pool, kv.Local), nil
	default:
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, nil, err
		}
		synced, err := filestore.Open(dir, kv.Synced)
		if err != nil {
			return nil, nil, fmt.Errorf("open settings store: %w", err)
		}
		local, err := filestore.Open(dir, kv.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		logger.Debug("Using file storage", "settings", synced.Path(), "local", local.Path())
		return synced, local, nil
	}
}
