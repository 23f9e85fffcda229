package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlens.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != StorageFile {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, StorageFile)
	}
	if cfg.Providers.DictionaryTimeout != 4*time.Second || cfg.Providers.DictionaryAttemptTimeout != 3*time.Second {
		t.Errorf("dictionary timeouts = %v/%v, want 4s/3s", cfg.Providers.DictionaryTimeout, cfg.Providers.DictionaryAttemptTimeout)
	}
	if cfg.Anki.URL != "http://localhost:8765" || cfg.Anki.Version != 6 || cfg.Anki.Audio {
		t.Errorf("unexpected anki defaults: %+v", cfg.Anki)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
providers:
  mt_timeout: 2s
  tts_urls:
    - https://tts.example.com/speak
anki:
  deck: English
  audio: true
log:
  level: debug
`)
	t.Setenv("WORDLENS_ANKI_DECK", "FromEnv")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Providers.MachineTranslationTimeout != 2*time.Second {
		t.Errorf("mt_timeout = %v, want 2s", cfg.Providers.MachineTranslationTimeout)
	}
	if len(cfg.Providers.TTSURLs) != 1 || cfg.Providers.TTSURLs[0] != "https://tts.example.com/speak" {
		t.Errorf("tts_urls = %v", cfg.Providers.TTSURLs)
	}
	if cfg.Anki.Deck != "FromEnv" {
		t.Errorf("Anki.Deck = %q, want env override", cfg.Anki.Deck)
	}
	if !cfg.Anki.Audio {
		t.Errorf("Anki.Audio = false, want true from file")
	}
	if cfg.Providers.FreeDictionaryURL == "" {
		t.Errorf("missing keys should keep their defaults")
	}
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown backend", "storage:\n  backend: redis\n", "storage.backend"},
		{"postgres without dsn", "storage:\n  backend: postgres\n", "postgres_dsn"},
		{"bad url", "anki:\n  url: localhost:8765\n", "anki.url"},
		{"negative timeout", "providers:\n  tts_timeout: -1s\n", "tts_timeout"},
		{"attempt above overall", "providers:\n  dictionary_timeout: 1s\n  dictionary_attempt: 2s\n", "dictionary_attempt"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDataDir(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Dir: "/tmp/wl"}}
	dir, err := cfg.DataDir()
	if err != nil || dir != "/tmp/wl" {
		t.Fatalf("DataDir() = %q, %v", dir, err)
	}
}
