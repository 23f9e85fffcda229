// Package card renders vocabulary entries as Anki note content.
package card

import (
	"fmt"
	"html"
	"strings"

	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
	"github.com/oukeidos/wordlens/internal/vocab"
)

const (
	ModelName      = "VocabularyCard"
	BasicModelName = "Basic"
	addedDate      = "2006/1/2"
	maxExamples    = 3
)

// Fields of the VocabularyCard model, in order.
var Fields = []string{
	"Word",
	"Translation",
	"Pronunciation",
	"Definitions",
	"Synonyms",
	"Antonyms",
	"Phrases",
	"Etymology",
	"Usage",
	"Examples",
	"WordType",
	"Source",
	"AddedDate",
}

// Card is a rendered entry. Front and Back fill the Basic model; Fields fill
// the VocabularyCard model.
type Card struct {
	Front  string
	Back   string
	Tags   []string
	Fields map[string]string
}

// Tags returns the note tags for lang.
func Tags(lang language.ID) []string {
	if lang == language.Chinese {
		return []string{"vocabulary", "wordlens", "chinese"}
	}
	return []string{"vocabulary", "wordlens", "english"}
}

// Render builds the card for e. Every value taken from e is HTML-escaped.
func Render(e vocab.Entry) Card {
	r := e.Result.Display()
	return Card{
		Front:  html.EscapeString(r.Text),
		Back:   back(e, r),
		Tags:   Tags(r.Language),
		Fields: fields(e, r),
	}
}

// AttachAudio references a stored media file from the card.
func (c *Card) AttachAudio(filename string) {
	if filename == "" {
		return
	}
	sound := fmt.Sprintf("[sound:%s]", filename)
	c.Back += "<br>🔊 " + sound
	if c.Fields != nil {
		c.Fields["Pronunciation"] = strings.TrimSpace(c.Fields["Pronunciation"] + " " + sound)
	}
}

func joiner(lang language.ID) string {
	if lang == language.Chinese {
		return "、"
	}
	return ", "
}

func joinEscaped(items []string, sep string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = html.EscapeString(s)
	}
	return strings.Join(out, sep)
}

func fields(e vocab.Entry, r lookup.Result) map[string]string {
	sep := joiner(r.Language)
	f := map[string]string{
		"Word":          html.EscapeString(r.Text),
		"Translation":   html.EscapeString(firstNonEmpty(r.PrimaryTranslation, r.Explanation)),
		"Pronunciation": html.EscapeString(r.Pronunciation),
		"Definitions":   definitionItems(r.Definitions),
		"Synonyms":      joinEscaped(r.Synonyms, sep),
		"Antonyms":      joinEscaped(r.Antonyms, sep),
		"Phrases":       joinEscaped(r.Phrases, sep),
		"Etymology":     html.EscapeString(r.Etymology),
		"Usage":         html.EscapeString(r.Usage),
		"Examples":      examples(r.Definitions),
		"WordType":      string(r.Language),
		"Source":        html.EscapeString(string(r.Source)),
		"AddedDate":     "",
	}
	if !e.AddedAt.IsZero() {
		f["AddedDate"] = e.AddedAt.Local().Format(addedDate)
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func definitionItems(defs []lookup.Definition) string {
	var b strings.Builder
	for _, d := range defs {
		b.WriteString(`<div class="definition-item">`)
		if d.PartOfSpeech != "" {
			fmt.Fprintf(&b, `<span class="part-of-speech">[%s]</span> `, html.EscapeString(d.PartOfSpeech))
		}
		b.WriteString(html.EscapeString(d.Meaning))
		if d.ExampleSource != "" {
			fmt.Fprintf(&b, `<div class="example">📝 %s</div>`, html.EscapeString(d.ExampleSource))
		}
		if d.ExampleTarget != "" {
			fmt.Fprintf(&b, `<div class="example">🔤 %s</div>`, html.EscapeString(d.ExampleTarget))
		}
		b.WriteString(`</div>`)
	}
	return b.String()
}

func examples(defs []lookup.Definition) string {
	var b strings.Builder
	n := 0
	for _, d := range defs {
		if d.ExampleSource == "" || n == maxExamples {
			continue
		}
		fmt.Fprintf(&b, `<div class="example">%s</div>`, html.EscapeString(d.ExampleSource))
		n++
	}
	return b.String()
}

func back(e vocab.Entry, r lookup.Result) string {
	var b strings.Builder
	chinese := r.Language == language.Chinese
	sep := joiner(r.Language)

	if chinese {
		b.WriteString(`<div class="chinese-card">`)
		if text := firstNonEmpty(r.Explanation, r.PrimaryTranslation); text != "" {
			section(&b, "解释", html.EscapeString(text))
		}
		if r.Pronunciation != "" {
			section(&b, "拼音", html.EscapeString(r.Pronunciation))
		}
	} else {
		b.WriteString(`<div class="english-card">`)
		if r.PrimaryTranslation != "" {
			section(&b, "中文", html.EscapeString(r.PrimaryTranslation))
		}
		if r.Pronunciation != "" {
			section(&b, "发音", html.EscapeString(r.Pronunciation))
		}
	}

	if len(r.Definitions) > 0 {
		b.WriteString(`<div><strong>详细释义：</strong></div><ul>`)
		for _, d := range r.Definitions {
			b.WriteString("<li>")
			if d.PartOfSpeech != "" {
				fmt.Fprintf(&b, "<em>[%s]</em> ", html.EscapeString(d.PartOfSpeech))
			}
			b.WriteString(html.EscapeString(d.Meaning))
			switch {
			case chinese && d.ExampleSource != "":
				fmt.Fprintf(&b, "<br><small>例句：%s</small>", html.EscapeString(d.ExampleSource))
			case !chinese:
				if d.ExampleSource != "" {
					fmt.Fprintf(&b, "<br><small>📝 %s</small>", html.EscapeString(d.ExampleSource))
				}
				if d.ExampleTarget != "" {
					fmt.Fprintf(&b, "<br><small>🔤 %s</small>", html.EscapeString(d.ExampleTarget))
				}
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}

	phrasesLabel := "常用短语"
	etymologyLabel := "词根词缀"
	if chinese {
		phrasesLabel = "常用词组"
		etymologyLabel = "词汇来源"
	}
	if len(r.Synonyms) > 0 {
		section(&b, "同义词", joinEscaped(r.Synonyms, sep))
	}
	if len(r.Antonyms) > 0 {
		section(&b, "反义词", joinEscaped(r.Antonyms, sep))
	}
	if len(r.Phrases) > 0 {
		section(&b, phrasesLabel, joinEscaped(r.Phrases, sep))
	}
	if r.Etymology != "" {
		section(&b, etymologyLabel, html.EscapeString(r.Etymology))
	}
	if r.Usage != "" {
		section(&b, "使用说明", html.EscapeString(r.Usage))
	}
	if !e.AddedAt.IsZero() {
		fmt.Fprintf(&b, `<div class="meta-info">添加时间：%s`, e.AddedAt.Local().Format(addedDate))
		if r.Source != "" {
			fmt.Fprintf(&b, " | 来源：%s", html.EscapeString(string(r.Source)))
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
	return b.String()
}

func section(b *strings.Builder, label, escaped string) {
	fmt.Fprintf(b, "<div><strong>%s：</strong>%s</div>", label, escaped)
}
