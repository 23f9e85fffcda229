package classify

import (
	"regexp"

	"github.com/oukeidos/wordlens/internal/language"
)

// Fragment is a classified span of free text.
type Fragment struct {
	Text     string
	Language language.ID
}

var candidatePattern = regexp.MustCompile(`[A-Za-z]+(?:['\-][A-Za-z]+)*|[\x{4e00}-\x{9fff}]+`)

// Fragments splits a line into word candidates and keeps the classified ones,
// in order of appearance. Duplicates are kept; callers dedupe by cache key.
func Fragments(line string) []Fragment {
	matches := candidatePattern.FindAllString(line, -1)
	out := make([]Fragment, 0, len(matches))
	for _, m := range matches {
		if lang := Classify(m); lang != language.None {
			out = append(out, Fragment{Text: m, Language: lang})
		}
	}
	return out
}
