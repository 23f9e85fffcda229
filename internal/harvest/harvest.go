// Package harvest extracts lookup candidates from subtitle files.
package harvest

import (
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/oukeidos/wordlens/internal/cache"
	"github.com/oukeidos/wordlens/internal/classify"
	"github.com/oukeidos/wordlens/internal/language"
)

// Load reads a subtitle file (srt, vtt, ssa/ass, ttml or stl, chosen by
// extension) and returns its distinct words in first-seen order. A non-None
// only keeps words of that language.
func Load(path string, only language.ID) ([]string, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitles: %w", err)
	}
	if len(subs.Items) == 0 {
		return nil, fmt.Errorf("no subtitles found in %s", path)
	}
	frags := Fragments(Lines(subs))
	words := make([]string, 0, len(frags))
	for _, f := range frags {
		if only != language.None && f.Language != only {
			continue
		}
		words = append(words, f.Text)
	}
	return words, nil
}

// Lines flattens every subtitle item into its text lines.
func Lines(subs *astisub.Subtitles) []string {
	var out []string
	for _, item := range subs.Items {
		for _, l := range item.Lines {
			if s := strings.TrimSpace(l.String()); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Fragments classifies lines and drops repeats by cache key, so "Hello" and
// "hello" count once.
func Fragments(lines []string) []classify.Fragment {
	seen := make(map[string]struct{})
	var out []classify.Fragment
	for _, line := range lines {
		for _, f := range classify.Fragments(line) {
			k := cache.Key(f.Text, f.Language)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
