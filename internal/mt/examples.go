package mt

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

var examplePools = map[string][]string{
	"verb": {
		"I %s every day.",
		"She likes to %s.",
		"We should %s more often.",
		"They %s together.",
	},
	"noun": {
		"This is a beautiful %s.",
		"The %s is very important.",
		"I need a new %s.",
		"She bought a %s.",
	},
	"adjective": {
		"It looks very %s.",
		"She is %s today.",
		"The weather is %s.",
		"This book is %s.",
	},
	"adverb": {
		"He speaks %s.",
		"She works %s.",
		"They move %s.",
		"It happens %s.",
	},
	"generic": {
		`The word "%s" is commonly used.`,
		`Here is an example with "%s".`,
		`You can use "%s" in this context.`,
		`This sentence contains "%s".`,
	},
}

const (
	chineseExampleFormat   = `这是一个包含"%s"的中文例句。`
	chineseSentenceFormat  = `这是一个包含"%s"的例句。`
	chineseMeaningFallback = `"%s"的基本含义`
)

// ExampleGenerator produces template example sentences. They are flavor text,
// not translations.
type ExampleGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewExampleGenerator uses rng, or a time-seeded source when rng is nil.
func NewExampleGenerator(rng *rand.Rand) *ExampleGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ExampleGenerator{rng: rng}
}

// posKey maps a part-of-speech label, English or Chinese, to a template pool.
func posKey(pos string) string {
	p := strings.ToLower(pos)
	switch {
	case strings.Contains(p, "verb") && !strings.Contains(p, "adverb"), strings.Contains(p, "动词"):
		return "verb"
	case strings.Contains(p, "noun"), strings.Contains(p, "名词"):
		return "noun"
	case strings.Contains(p, "adj"), strings.Contains(p, "形容词"):
		return "adjective"
	case strings.Contains(p, "adv"), strings.Contains(p, "副词"):
		return "adverb"
	default:
		return "generic"
	}
}

// English returns an English example sentence for word used as pos.
func (g *ExampleGenerator) English(word, pos string) string {
	pool := examplePools[posKey(pos)]
	g.mu.Lock()
	i := g.rng.IntN(len(pool))
	g.mu.Unlock()
	return fmt.Sprintf(pool[i], word)
}

// Chinese returns a Chinese example sentence containing word.
func (g *ExampleGenerator) Chinese(word string) string {
	return fmt.Sprintf(chineseExampleFormat, word)
}
