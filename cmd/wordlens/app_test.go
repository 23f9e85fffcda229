package main

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/oukeidos/wordlens/internal/anki"
	"github.com/oukeidos/wordlens/internal/anki/ankitest"
	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/config"
	"github.com/oukeidos/wordlens/internal/explain"
	"github.com/oukeidos/wordlens/internal/kv"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/mt"
	"github.com/oukeidos/wordlens/internal/settings"
	"github.com/oukeidos/wordlens/internal/translator"
	"github.com/oukeidos/wordlens/internal/tts"
	"github.com/oukeidos/wordlens/internal/vocab"
)

type fakeMT struct {
	mu    sync.Mutex
	calls int
	gloss map[string]string
}

func (f *fakeMT) Translate(_ context.Context, text string, _, _ language.ID) (*mt.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	trans, ok := f.gloss[text]
	if !ok {
		return nil, apperrors.Transient(errors.New("connection reset"))
	}
	return &mt.Response{Sentences: []mt.Sentence{{Trans: trans, Orig: text}}}, nil
}

type silentSpeech struct{}

func (silentSpeech) Fetch(context.Context, string, language.ID) (*tts.Audio, error) {
	return nil, nil
}

type testEnv struct {
	app   *app
	mt    *fakeMT
	anki  *ankitest.Server
	local *kv.Memory
}

// withTestApp replaces newApp with an in-memory runtime for the test.
func withTestApp(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	synced, local := kv.NewMemory(), kv.NewMemory()
	mgr := settings.NewManager(synced)
	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	fake := &fakeMT{gloss: map[string]string{
		"hello":  "你好",
		"apple":  "苹果",
		"banana": "香蕉",
		"朋友":     "friend",
	}}
	explainer := explain.NewClient(mgr, func(string) string { return "" }, time.Second)
	tr := translator.New(translator.Providers{MT: fake, Explain: explainer}, mgr, nil,
		mt.NewExampleGenerator(rand.New(rand.NewPCG(1, 2))))
	srv := ankitest.NewServer()
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Storage.Backend = config.StorageMemory
	cfg.Storage.Dir = t.TempDir()
	cfg.Anki.URL = srv.URL
	cfg.Anki.Version = 6
	cfg.Anki.Timeout = 5 * time.Second

	env := &testEnv{
		app: &app{
			cfg:        cfg,
			settings:   mgr,
			books:      vocab.NewStore(local),
			translator: tr,
			explain:    explainer,
			speech:     silentSpeech{},
			remote:     anki.NewClient(srv.URL, 6, 5*time.Second),
		},
		mt:    fake,
		anki:  srv,
		local: local,
	}

	prev := newApp
	newApp = func(context.Context, *globalOptions) (*app, error) { return env.app, nil }
	t.Cleanup(func() { newApp = prev })
	return env
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
