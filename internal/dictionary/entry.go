// Package dictionary is the dictionary-definition provider. It races several
// free English dictionary backends and keeps the first useful answer.
package dictionary

// Entry is the merged answer of one backend.
type Entry struct {
	Word     string
	Phonetic string
	Senses   []Sense
	Synonyms []string
	Antonyms []string
	Examples []string
	Backend  string

	// Placeholder marks the synthetic entry returned when no backend had data.
	Placeholder bool
}

// Sense is a single definition.
type Sense struct {
	PartOfSpeech string
	Meaning      string
	Example      string
}

const (
	maxRelated  = 8
	maxExamples = 3

	placeholderMeaning = "请查看中文翻译"
)

func placeholder(word string) *Entry {
	return &Entry{
		Word:        word,
		Phonetic:    "/" + word + "/",
		Senses:      []Sense{{Meaning: placeholderMeaning}},
		Placeholder: true,
	}
}

// orderedSet keeps first-seen order and stops accepting values at limit.
type orderedSet struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newOrderedSet(limit int) *orderedSet {
	return &orderedSet{limit: limit, seen: make(map[string]struct{})}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if v == "" || len(s.items) >= s.limit {
			continue
		}
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}
