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

const (
	DefaultWordsAPIURL = "https://wordsapiv1.p.rapidapi.com/words"
	wordsAPIHost       = "wordsapiv1.p.rapidapi.com"
)

type wordsAPIResponse struct {
	Word          string `json:"word"`
	Pronunciation struct {
		All string `json:"all"`
	} `json:"pronunciation"`
	Results []struct {
		PartOfSpeech string   `json:"partOfSpeech"`
		Definition   string   `json:"definition"`
		Examples     []string `json:"examples"`
		Synonyms     []string `json:"synonyms"`
		Antonyms     []string `json:"antonyms"`
	} `json:"results"`
}

// WordsAPI queries WordsAPI through RapidAPI and needs a RapidAPI key.
type WordsAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewWordsAPI(baseURL, apiKey string) *WordsAPI {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultWordsAPIURL
	}
	return &WordsAPI{baseURL: strings.TrimRight(baseURL, "/"), apiKey: strings.TrimSpace(apiKey)}
}

func (w *WordsAPI) Name() string { return "wordsapi" }

func (w *WordsAPI) Fetch(ctx context.Context, word string) (*Entry, error) {
	if w.apiKey == "" {
		return nil, apperrors.New(apperrors.KindAuth, "WordsAPI key not configured.", nil)
	}
	header := http.Header{}
	header.Set("X-RapidAPI-Key", w.apiKey)
	header.Set("X-RapidAPI-Host", wordsAPIHost)

	client := w.httpClient
	if client == nil {
		client = httpclient.GetDefaultClient()
	}
	body, _, err := httpclient.Get(ctx, client, w.Name(), w.baseURL+"/"+url.PathEscape(word), header)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var resp wordsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "WordsAPI returned a malformed body.", fmt.Errorf("wordsapi: decode json: %w", err))
	}

	out := &Entry{Word: resp.Word}
	if p := strings.TrimSpace(resp.Pronunciation.All); p != "" {
		out.Phonetic = "/" + p + "/"
	}
	synonyms := newOrderedSet(maxRelated)
	antonyms := newOrderedSet(maxRelated)
	examples := newOrderedSet(maxExamples)
	for _, r := range resp.Results {
		meaning := strings.TrimSpace(r.Definition)
		if meaning == "" {
			continue
		}
		s := Sense{PartOfSpeech: r.PartOfSpeech, Meaning: meaning}
		if len(r.Examples) > 0 {
			s.Example = strings.TrimSpace(r.Examples[0])
		}
		out.Senses = append(out.Senses, s)
		examples.add(s.Example)
		synonyms.add(r.Synonyms...)
		antonyms.add(r.Antonyms...)
	}
	out.Synonyms = synonyms.items
	out.Antonyms = antonyms.items
	out.Examples = examples.items
	return out, nil
}
