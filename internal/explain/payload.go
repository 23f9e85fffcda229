package explain

import (
	"encoding/json"
	"strings"
)

// EnglishPayload is the JSON answer requested for an English word.
type EnglishPayload struct {
	Word          string              `json:"word"`
	Translation   string              `json:"translation"`
	Pronunciation string              `json:"pronunciation"`
	Definitions   []EnglishDefinition `json:"definitions"`
	Synonyms      stringList          `json:"synonyms"`
	Phrases       stringList          `json:"phrases"`
}

type EnglishDefinition struct {
	PartOfSpeech   string `json:"partOfSpeech"`
	Meaning        string `json:"meaning"`
	EnglishExample string `json:"englishExample"`
	ChineseExample string `json:"chineseExample"`
}

// ChinesePayload is the JSON answer requested for a Chinese word.
type ChinesePayload struct {
	Word          string              `json:"word"`
	Explanation   string              `json:"explanation"`
	Translation   string              `json:"translation"`
	Pronunciation string              `json:"pronunciation"`
	Definitions   []ChineseDefinition `json:"definitions"`
	Synonyms      stringList          `json:"synonyms"`
	Antonyms      stringList          `json:"antonyms"`
	Phrases       stringList          `json:"phrases"`
	Etymology     string              `json:"etymology"`
	Usage         string              `json:"usage"`
}

type ChineseDefinition struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Meaning      string `json:"meaning"`
	Example      string `json:"example"`
}

// Response is the tagged raw answer: exactly one payload is set.
type Response struct {
	English *EnglishPayload
	Chinese *ChinesePayload
	Model   string
}

// stringList accepts a JSON array of strings or a single comma-separated string;
// models return either.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*l = nil
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '，' || r == '、' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*l = out
	return nil
}
