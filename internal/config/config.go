// Package config holds the static wordlens configuration read at startup.
package config

import (
	"time"
)

// EnvPath names the config file when --config is not given.
const EnvPath = "WORDLENS_CONFIG"

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the root configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Providers ProvidersConfig `yaml:"providers"`
	Anki      AnkiConfig      `yaml:"anki"`
	Log       LogConfig       `yaml:"log"`
}

// StorageConfig selects where settings and vocabulary books live.
type StorageConfig struct {
	Backend     string `yaml:"backend"      env:"WORDLENS_STORAGE"      env-default:"file"`
	// Dir defaults to <user config dir>/wordlens.
	Dir         string `yaml:"dir"          env:"WORDLENS_DATA_DIR"`
	PostgresDSN string `yaml:"postgres_dsn" env:"WORDLENS_POSTGRES_DSN"`
}

// ProvidersConfig holds provider endpoints and timeouts.
type ProvidersConfig struct {
	MachineTranslationURL     string        `yaml:"mt_url"                 env:"WORDLENS_MT_URL"                 env-default:"https://translate.googleapis.com/translate_a/single"`
	MachineTranslationTimeout time.Duration `yaml:"mt_timeout"             env:"WORDLENS_MT_TIMEOUT"             env-default:"5s"`
	FreeDictionaryURL         string        `yaml:"free_dictionary_url"    env:"WORDLENS_FREE_DICTIONARY_URL"    env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	WordsAPIURL               string        `yaml:"wordsapi_url"           env:"WORDLENS_WORDSAPI_URL"           env-default:"https://wordsapiv1.p.rapidapi.com/words"`
	DictionaryTimeout         time.Duration `yaml:"dictionary_timeout"     env:"WORDLENS_DICTIONARY_TIMEOUT"     env-default:"4s"`
	DictionaryAttemptTimeout  time.Duration `yaml:"dictionary_attempt"     env:"WORDLENS_DICTIONARY_ATTEMPT"     env-default:"3s"`
	TTSURLs                   []string      `yaml:"tts_urls"               env:"WORDLENS_TTS_URLS"               env-separator:","`
	TTSTimeout                time.Duration `yaml:"tts_timeout"            env:"WORDLENS_TTS_TIMEOUT"            env-default:"8s"`
	ExplanationTimeout        time.Duration `yaml:"explanation_timeout"    env:"WORDLENS_EXPLANATION_TIMEOUT"    env-default:"30s"`
}

// AnkiConfig holds the AnkiConnect bridge settings.
type AnkiConfig struct {
	URL     string        `yaml:"url"     env:"WORDLENS_ANKI_URL"     env-default:"http://localhost:8765"`
	Version int           `yaml:"version" env:"WORDLENS_ANKI_VERSION" env-default:"6"`
	Timeout time.Duration `yaml:"timeout" env:"WORDLENS_ANKI_TIMEOUT" env-default:"15s"`
	// Deck defaults to the book name.
	Deck    string        `yaml:"deck"    env:"WORDLENS_ANKI_DECK"`
	Audio   bool          `yaml:"audio"   env:"WORDLENS_ANKI_AUDIO"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"WORDLENS_LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file"  env:"WORDLENS_LOG_FILE"`
}
