// Package lookup holds the canonical, provider-agnostic lookup result.
package lookup

import (
	"strings"

	"github.com/oukeidos/wordlens/internal/language"
)

// Source identifies the provider that produced a Result.
type Source string

const (
	SourceMachineTranslation Source = "machine-translation"
	SourceDictionary         Source = "dictionary"
	SourceExplanation        Source = "explanation"
)

// ParseSource accepts the canonical names plus the short aliases used in settings.
func ParseSource(s string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "machine-translation", "mt", "google":
		return SourceMachineTranslation, true
	case "dictionary", "dict":
		return SourceDictionary, true
	case "explanation", "llm", "openai", "ai":
		return SourceExplanation, true
	}
	return "", false
}

const (
	// MaxDisplayDefinitions is the displayed definition prefix.
	MaxDisplayDefinitions = 5
	englishListCap        = 6
	chineseListCap        = 5

	// NoTranslation is the placeholder gloss when a provider returns none.
	NoTranslation = "未找到翻译"
	// TranslationFailed is the placeholder gloss for explanation payloads without one.
	TranslationFailed = "翻译失败"
)

// Definition is one sense of a word.
type Definition struct {
	PartOfSpeech  string `json:"partOfSpeech,omitempty"`
	Meaning       string `json:"meaning"`
	ExampleSource string `json:"exampleSource,omitempty"`
	ExampleTarget string `json:"exampleTarget,omitempty"`
}

// Result is the canonical lookup outcome shown to the user and saved to books.
type Result struct {
	Text               string       `json:"word"`
	Language           language.ID  `json:"wordType"`
	PrimaryTranslation string       `json:"translation"`
	Pronunciation      string       `json:"pronunciation"`
	Definitions        []Definition `json:"definitions,omitempty"`
	Synonyms           []string     `json:"synonyms,omitempty"`
	Antonyms           []string     `json:"antonyms,omitempty"`
	Phrases            []string     `json:"phrases,omitempty"`
	Explanation        string       `json:"explanation,omitempty"`
	Etymology          string       `json:"etymology,omitempty"`
	Usage              string       `json:"usage,omitempty"`
	Source             Source       `json:"source"`
	NoDictionaryData   bool         `json:"noDictionaryData,omitempty"`
}

// DisplayCap is the number of synonyms, antonyms or phrases shown for lang.
func DisplayCap(lang language.ID) int {
	if lang == language.Chinese {
		return chineseListCap
	}
	return englishListCap
}

// PlaceholderPronunciation is used when a provider has no phonetic guide.
func PlaceholderPronunciation(text string, lang language.ID) string {
	t := strings.TrimSpace(text)
	if lang == language.Chinese {
		return "[" + t + "]"
	}
	return "/" + t + "/"
}

// Normalize enforces the Result invariants: a non-empty gloss and pronunciation,
// no definition with an empty meaning, and trimmed list entries.
func (r Result) Normalize() Result {
	r.Text = strings.TrimSpace(r.Text)
	r.PrimaryTranslation = strings.TrimSpace(r.PrimaryTranslation)
	if r.PrimaryTranslation == "" {
		r.PrimaryTranslation = NoTranslation
	}
	r.Pronunciation = strings.TrimSpace(r.Pronunciation)
	if r.Pronunciation == "" {
		r.Pronunciation = PlaceholderPronunciation(r.Text, r.Language)
	}

	defs := make([]Definition, 0, len(r.Definitions))
	for _, d := range r.Definitions {
		d.Meaning = strings.TrimSpace(d.Meaning)
		if d.Meaning == "" {
			continue
		}
		d.PartOfSpeech = strings.TrimSpace(d.PartOfSpeech)
		d.ExampleSource = strings.TrimSpace(d.ExampleSource)
		d.ExampleTarget = strings.TrimSpace(d.ExampleTarget)
		defs = append(defs, d)
	}
	r.Definitions = defs
	r.Synonyms = cleanList(r.Synonyms)
	r.Antonyms = cleanList(r.Antonyms)
	r.Phrases = cleanList(r.Phrases)
	return r
}

// Display returns a copy capped for display: 5 definitions and DisplayCap list items.
func (r Result) Display() Result {
	n := DisplayCap(r.Language)
	r.Definitions = capSlice(r.Definitions, MaxDisplayDefinitions)
	r.Synonyms = capSlice(r.Synonyms, n)
	r.Antonyms = capSlice(r.Antonyms, n)
	r.Phrases = capSlice(r.Phrases, n)
	return r
}

func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func capSlice[T any](in []T, n int) []T {
	if len(in) <= n {
		return in
	}
	return append([]T(nil), in[:n]...)
}
