package card

import "github.com/oukeidos/wordlens/internal/anki"

const css = `.card {
  font-family: -apple-system, "PingFang SC", "Microsoft YaHei", sans-serif;
  font-size: 16px;
  line-height: 1.6;
  color: #333;
  background: #fff;
  text-align: left;
  padding: 20px;
}
.word { font-size: 28px; font-weight: bold; text-align: center; color: #2c3e50; }
.pronunciation { text-align: center; color: #7f8c8d; font-style: italic; }
.translation { font-size: 20px; text-align: center; color: #e74c3c; margin: 12px 0; }
.section { margin: 10px 0; }
.section-title { font-weight: bold; color: #3498db; }
.definition-item { margin: 6px 0; }
.part-of-speech { color: #8e44ad; font-weight: bold; }
.example { color: #16a085; font-size: 14px; margin-left: 12px; }
.meta-info { color: #95a5a6; font-size: 12px; margin-top: 16px; text-align: right; }
`

const frontTemplate = `<div class="word">{{Word}}</div>
<div class="pronunciation">{{Pronunciation}}</div>`

const backTemplate = `{{FrontSide}}
<hr id="answer">
<div class="translation">{{Translation}}</div>
{{#Definitions}}<div class="section"><div class="section-title">释义</div>{{Definitions}}</div>{{/Definitions}}
{{#Synonyms}}<div class="section"><span class="section-title">同义词：</span>{{Synonyms}}</div>{{/Synonyms}}
{{#Antonyms}}<div class="section"><span class="section-title">反义词：</span>{{Antonyms}}</div>{{/Antonyms}}
{{#Phrases}}<div class="section"><span class="section-title">短语：</span>{{Phrases}}</div>{{/Phrases}}
{{#Etymology}}<div class="section"><span class="section-title">词源：</span>{{Etymology}}</div>{{/Etymology}}
{{#Usage}}<div class="section"><span class="section-title">用法：</span>{{Usage}}</div>{{/Usage}}
{{#Examples}}<div class="section"><div class="section-title">例句</div>{{Examples}}</div>{{/Examples}}
<div class="meta-info">{{AddedDate}} | {{Source}}</div>`

// Model is the VocabularyCard note type created on first sync.
func Model() anki.Model {
	return anki.Model{
		Name:          ModelName,
		InOrderFields: append([]string(nil), Fields...),
		CSS:           css,
		CardTemplates: []anki.CardTemplate{{
			Name:  "Card 1",
			Front: frontTemplate,
			Back:  backTemplate,
		}},
	}
}
