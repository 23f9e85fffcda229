package explain

import "fmt"

const englishSystemPrompt = "You are a professional English-Chinese dictionary assistant. Always reply with JSON only."

const englishPromptTemplate = `Translate the English word or phrase %q into Simplified Chinese and explain it in detail.

Reply strictly with one JSON object of this shape:
{
  "word": "the original word",
  "translation": "the main Chinese translation",
  "pronunciation": "IPA phonetic transcription",
  "definitions": [
    {
      "partOfSpeech": "part of speech",
      "meaning": "Chinese meaning",
      "englishExample": "English example sentence",
      "chineseExample": "Chinese translation of the example"
    }
  ],
  "synonyms": ["synonym1", "synonym2"],
  "phrases": ["common phrase 1", "common phrase 2"]
}

Give at most 3 definitions and at most 5 synonyms and phrases.`

const chineseSystemPrompt = "你是一个专业的中文词汇解释助手，擅长为中文学习者提供准确、易懂的词汇解释。请始终以JSON格式回复。"

const chinesePromptTemplate = `Explain the Chinese word %q for a learner. Write the explanation in Simplified Chinese and give an English translation.

Reply strictly with one JSON object of this shape:
{
  "word": "原词",
  "explanation": "简明的中文释义",
  "translation": "English translation",
  "pronunciation": "汉语拼音（带声调）",
  "definitions": [
    {"partOfSpeech": "词性", "meaning": "含义", "example": "例句"}
  ],
  "synonyms": ["近义词"],
  "antonyms": ["反义词"],
  "phrases": ["常用搭配"],
  "etymology": "词源或构词",
  "usage": "用法说明"
}`

const (
	englishTemperature = 0.1
	chineseTemperature = 0.3
	maxTokens          = 1000
)

func englishPrompt(word string) string { return fmt.Sprintf(englishPromptTemplate, word) }

func chinesePrompt(word string) string { return fmt.Sprintf(chinesePromptTemplate, word) }
