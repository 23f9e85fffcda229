package translator

import (
	"strings"

	"github.com/oukeidos/wordlens/internal/dictionary"
	"github.com/oukeidos/wordlens/internal/explain"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
	"github.com/oukeidos/wordlens/internal/mt"
)

// Raw provider answers are converted here and nowhere else.

func fromMT(resp *mt.Response, text string, lang language.ID, gen *mt.ExampleGenerator) lookup.Result {
	r := lookup.Result{
		Text:               text,
		Language:           lang,
		PrimaryTranslation: resp.Gloss(),
		Definitions:        resp.Definitions(text, lang, gen),
		Source:             lookup.SourceMachineTranslation,
	}
	return r.Normalize()
}

func fromDictionary(entry *dictionary.Entry, text string) lookup.Result {
	r := lookup.Result{
		Text:          text,
		Language:      language.English,
		Pronunciation: entry.Phonetic,
		Definitions:   senses(entry),
		Synonyms:      entry.Synonyms,
		Antonyms:      entry.Antonyms,
		Source:        lookup.SourceDictionary,
	}
	if len(r.Definitions) > 0 {
		r.PrimaryTranslation = r.Definitions[0].Meaning
	}
	return r.Normalize()
}

// enrich replaces the synthesized parts of an English machine translation
// with dictionary data. A placeholder entry only flags the result.
func enrich(r lookup.Result, entry *dictionary.Entry) lookup.Result {
	if entry == nil || entry.Placeholder || len(entry.Senses) == 0 {
		r.NoDictionaryData = true
		return r
	}
	r.Definitions = senses(entry)
	if p := strings.TrimSpace(entry.Phonetic); p != "" && isPlaceholderPronunciation(r) {
		r.Pronunciation = p
	}
	r.Synonyms = entry.Synonyms
	r.Antonyms = entry.Antonyms
	return r.Normalize()
}

func isPlaceholderPronunciation(r lookup.Result) bool {
	return r.Pronunciation == "" || r.Pronunciation == lookup.PlaceholderPronunciation(r.Text, r.Language)
}

func senses(entry *dictionary.Entry) []lookup.Definition {
	defs := make([]lookup.Definition, 0, len(entry.Senses))
	for _, s := range entry.Senses {
		defs = append(defs, lookup.Definition{
			PartOfSpeech:  s.PartOfSpeech,
			Meaning:       s.Meaning,
			ExampleSource: s.Example,
		})
	}
	return defs
}

func fromExplanation(resp *explain.Response, text string, lang language.ID) lookup.Result {
	r := lookup.Result{
		Text:     text,
		Language: lang,
		Source:   lookup.SourceExplanation,
	}
	switch {
	case resp.English != nil:
		p := resp.English
		r.PrimaryTranslation = p.Translation
		if strings.TrimSpace(r.PrimaryTranslation) == "" {
			r.PrimaryTranslation = lookup.TranslationFailed
		}
		r.Pronunciation = p.Pronunciation
		for _, d := range p.Definitions {
			r.Definitions = append(r.Definitions, lookup.Definition{
				PartOfSpeech:  d.PartOfSpeech,
				Meaning:       d.Meaning,
				ExampleSource: d.EnglishExample,
				ExampleTarget: d.ChineseExample,
			})
		}
		r.Synonyms = p.Synonyms
		r.Phrases = p.Phrases
	case resp.Chinese != nil:
		p := resp.Chinese
		r.PrimaryTranslation = p.Explanation
		if strings.TrimSpace(r.PrimaryTranslation) == "" {
			r.PrimaryTranslation = p.Translation
		}
		if strings.TrimSpace(r.PrimaryTranslation) == "" {
			r.PrimaryTranslation = lookup.TranslationFailed
		}
		r.Explanation = p.Explanation
		r.Pronunciation = p.Pronunciation
		for _, d := range p.Definitions {
			r.Definitions = append(r.Definitions, lookup.Definition{
				PartOfSpeech:  d.PartOfSpeech,
				Meaning:       d.Meaning,
				ExampleSource: d.Example,
			})
		}
		r.Synonyms = p.Synonyms
		r.Antonyms = p.Antonyms
		r.Phrases = p.Phrases
		r.Etymology = strings.TrimSpace(p.Etymology)
		r.Usage = strings.TrimSpace(p.Usage)
	}
	return r.Normalize()
}
