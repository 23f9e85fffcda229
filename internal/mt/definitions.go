package mt

import (
	"fmt"
	"strings"

	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
)

const maxEntriesPerGroup = 3

// Gloss returns the primary translation: the top dictionary entries of the first
// part of speech joined by "; ", or the sentence translation.
func (r *Response) Gloss() string {
	if len(r.Dict) > 0 {
		words := make([]string, 0, maxEntriesPerGroup)
		for _, e := range r.Dict[0].Entry {
			if w := strings.TrimSpace(e.Word); w != "" {
				words = append(words, w)
			}
			if len(words) == maxEntriesPerGroup {
				break
			}
		}
		if len(words) > 0 {
			return strings.Join(words, "; ")
		}
	}
	return r.Translation()
}

// Definitions synthesizes definitions for word from the dictionary block, with
// generated examples. Without a dictionary block a single sense carries the
// sentence translation.
func (r *Response) Definitions(word string, from language.ID, gen *ExampleGenerator) []lookup.Definition {
	var defs []lookup.Definition
	for _, group := range r.Dict {
		n := 0
		for _, e := range group.Entry {
			meaning := strings.TrimSpace(e.Word)
			if meaning == "" {
				continue
			}
			defs = append(defs, r.definition(word, group.Pos, meaning, from, gen))
			n++
			if n == maxEntriesPerGroup {
				break
			}
		}
	}
	if len(defs) > 0 {
		return defs
	}

	meaning := r.Translation()
	if meaning == "" && from == language.Chinese {
		meaning = fmt.Sprintf(chineseMeaningFallback, word)
	}
	return []lookup.Definition{r.definition(word, "", meaning, from, gen)}
}

func (r *Response) definition(word, pos, meaning string, from language.ID, gen *ExampleGenerator) lookup.Definition {
	d := lookup.Definition{PartOfSpeech: pos, Meaning: meaning}
	if from == language.Chinese {
		d.ExampleSource = fmt.Sprintf(chineseSentenceFormat, word)
		return d
	}
	d.ExampleSource = gen.English(word, pos)
	d.ExampleTarget = gen.Chinese(meaning)
	return d
}
