package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oukeidos/wordlens/internal/language"
)

func TestNormalize_FillsPlaceholders(t *testing.T) {
	t.Parallel()

	r := Result{Text: " 你好 ", Language: language.Chinese}.Normalize()
	assert.Equal(t, "你好", r.Text)
	assert.Equal(t, NoTranslation, r.PrimaryTranslation)
	assert.Equal(t, "[你好]", r.Pronunciation)

	e := Result{Text: "hello", Language: language.English, PrimaryTranslation: "你好"}.Normalize()
	assert.Equal(t, "/hello/", e.Pronunciation)
}

func TestNormalize_DropsEmptyMeanings(t *testing.T) {
	t.Parallel()

	r := Result{
		Text: "run", Language: language.English, PrimaryTranslation: "跑",
		Definitions: []Definition{{Meaning: "  "}, {PartOfSpeech: "verb", Meaning: " move fast "}},
		Synonyms:    []string{"sprint", " ", "dash"},
	}.Normalize()
	assert.Equal(t, []Definition{{PartOfSpeech: "verb", Meaning: "move fast"}}, r.Definitions)
	assert.Equal(t, []string{"sprint", "dash"}, r.Synonyms)
}

func TestDisplay_Caps(t *testing.T) {
	t.Parallel()

	defs := make([]Definition, 8)
	for i := range defs {
		defs[i] = Definition{Meaning: "m"}
	}
	list := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	en := Result{Language: language.English, Definitions: defs, Synonyms: list, Phrases: list}.Display()
	assert.Len(t, en.Definitions, MaxDisplayDefinitions)
	assert.Len(t, en.Synonyms, 6)
	assert.Len(t, en.Phrases, 6)
	assert.Len(t, defs, 8, "Display must not alter the original slice length")

	zh := Result{Language: language.Chinese, Antonyms: list}.Display()
	assert.Len(t, zh.Antonyms, 5)
}

func TestParseSource(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Source{
		"google": SourceMachineTranslation, "openai": SourceExplanation,
		"dictionary": SourceDictionary, "Machine-Translation": SourceMachineTranslation,
	} {
		got, ok := ParseSource(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseSource("bing")
	assert.False(t, ok)
}
