package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oukeidos/wordlens/internal/kv"
)

func TestStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, kv.Local)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "currentVocabularyBook", []byte(`"default"`)))
	require.NoError(t, kv.SetJSON(ctx, s, "vocabularyBooks", map[string]string{"default": "x"}))

	reopened, err := Open(dir, kv.Local)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "currentVocabularyBook")
	require.NoError(t, err)
	assert.JSONEq(t, `"default"`, string(got))

	keys, err := reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"currentVocabularyBook", "vocabularyBooks"}, keys)

	assert.Equal(t, filepath.Join(dir, "local.json"), reopened.Path())
}

func TestStore_NamespacesAreSeparateFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	local, err := Open(dir, kv.Local)
	require.NoError(t, err)
	synced, err := Open(dir, kv.Synced)
	require.NoError(t, err)

	require.NoError(t, local.Set(ctx, "k", []byte(`1`)))
	_, err = synced.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_DeleteAndMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := Open(t.TempDir(), kv.Local)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "absent"))
	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()
	s, err := Open(t.TempDir(), kv.Local)
	require.NoError(t, err)
	assert.Error(t, s.Set(context.Background(), "k", []byte("not json")))
}

func TestOpen_CorruptDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.json"), []byte("{broken"), 0600))
	_, err := Open(dir, kv.Local)
	assert.Error(t, err)
}

func TestStore_SetManyIsAllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir, kv.Local)
	require.NoError(t, err)

	require.Error(t, s.SetMany(ctx, map[string][]byte{"a": []byte(`1`), "b": []byte("not json")}))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte(`1`), "b": []byte(`"x"`)}))
	reopened, err := Open(dir, kv.Local)
	require.NoError(t, err)
	keys, err = reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}
