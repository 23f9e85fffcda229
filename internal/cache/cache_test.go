package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
)

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key("Hello", language.English), Key("  hello ", language.English))
	assert.Equal(t, Key("你好", language.Chinese), Key(" 你好\t", language.Chinese))
	assert.NotEqual(t, Key("ABC", language.Chinese), Key("abc", language.Chinese), "chinese keys are not case-folded")
	assert.NotEqual(t, Key("hello", language.English), Key("hello", language.Chinese))
}

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	c := New()
	_, ok := c.Get(Key("hello", language.English))
	require.False(t, ok)

	c.Put(Key("Hello", language.English), lookup.Result{Text: "Hello", PrimaryTranslation: "你好"})
	got, ok := c.Get(Key("hello", language.English))
	require.True(t, ok)
	assert.Equal(t, "你好", got.PrimaryTranslation)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_PutIfAfterClear(t *testing.T) {
	t.Parallel()

	c := New()
	key := Key("hello", language.English)
	gen := c.Generation()
	c.Clear()
	assert.False(t, c.PutIf(gen, key, lookup.Result{Text: "hello"}))
	assert.Equal(t, 0, c.Len())

	assert.True(t, c.PutIf(c.Generation(), key, lookup.Result{Text: "hello"}))
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := Key("word", language.English)
			c.Put(k, lookup.Result{Text: "word"})
			_, _ = c.Get(k)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
