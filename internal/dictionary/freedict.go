package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/httpclient"
)

const DefaultFreeDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// apiEntry is one element of the Free Dictionary API response array.
type apiEntry struct {
	Word      string        `json:"word"`
	Phonetic  string        `json:"phonetic"`
	Phonetics []apiPhonetic `json:"phonetics"`
	Meanings  []apiMeaning  `json:"meanings"`
}

type apiPhonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
	Synonyms     []string        `json:"synonyms"`
	Antonyms     []string        `json:"antonyms"`
}

type apiDefinition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
	Antonyms   []string `json:"antonyms"`
}

// FreeDictionary queries dictionaryapi.dev. It needs no credentials.
type FreeDictionary struct {
	baseURL    string
	httpClient *http.Client
}

func NewFreeDictionary(baseURL string) *FreeDictionary {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultFreeDictionaryURL
	}
	return &FreeDictionary{baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *FreeDictionary) Name() string { return "freedictionary" }

// Fetch returns nil, nil when the word is unknown (HTTP 404).
func (f *FreeDictionary) Fetch(ctx context.Context, word string) (*Entry, error) {
	reqURL := f.baseURL + "/" + url.PathEscape(word)
	body, _, err := httpclient.Get(ctx, f.client(), f.Name(), reqURL, nil)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "Free Dictionary returned a malformed body.", fmt.Errorf("freedictionary: decode json: %w", err))
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return mapFreeDictionary(entries), nil
}

func (f *FreeDictionary) client() *http.Client {
	if f.httpClient != nil {
		return f.httpClient
	}
	return httpclient.GetDefaultClient()
}

// mapFreeDictionary merges all etymology entries: senses are concatenated,
// synonyms and antonyms deduplicated from both definition and meaning level.
func mapFreeDictionary(entries []apiEntry) *Entry {
	first := entries[0]
	out := &Entry{Word: first.Word, Phonetic: strings.TrimSpace(first.Phonetic)}
	if out.Phonetic == "" {
		for _, e := range entries {
			for _, ph := range e.Phonetics {
				if t := strings.TrimSpace(ph.Text); t != "" {
					out.Phonetic = t
					break
				}
			}
			if out.Phonetic != "" {
				break
			}
		}
	}

	synonyms := newOrderedSet(maxRelated)
	antonyms := newOrderedSet(maxRelated)
	examples := newOrderedSet(maxExamples)
	for _, e := range entries {
		for _, m := range e.Meanings {
			for _, d := range m.Definitions {
				meaning := strings.TrimSpace(d.Definition)
				if meaning == "" {
					continue
				}
				example := strings.TrimSpace(d.Example)
				out.Senses = append(out.Senses, Sense{
					PartOfSpeech: m.PartOfSpeech,
					Meaning:      meaning,
					Example:      example,
				})
				examples.add(example)
				synonyms.add(d.Synonyms...)
				antonyms.add(d.Antonyms...)
			}
			synonyms.add(m.Synonyms...)
			antonyms.add(m.Antonyms...)
		}
	}
	out.Synonyms = synonyms.items
	out.Antonyms = antonyms.items
	out.Examples = examples.items
	return out
}
