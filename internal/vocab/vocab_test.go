package vocab

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oukeidos/wordlens/internal/kv"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
)

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := NewStore(mem)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ids := 0
	s.newID = func() string {
		ids++
		return fmt.Sprintf("book-%d", ids)
	}
	return s, mem
}

func result(word string, lang language.ID) lookup.Result {
	return lookup.Result{
		Text:               word,
		Language:           lang,
		PrimaryTranslation: "译",
		Source:             lookup.SourceMachineTranslation,
	}
}

func TestAddEntry_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, err := s.AddEntry(ctx, result("apple", language.English), "")
	require.NoError(t, err)
	_, err = s.AddEntry(ctx, result("你好", language.Chinese), DefaultBookID)
	require.NoError(t, err)

	book, err := s.Book(ctx, DefaultBookID)
	require.NoError(t, err)
	require.Len(t, book.Entries, 2)
	assert.Equal(t, "你好", book.Entries[0].Text, "newest first")
	assert.Equal(t, "apple", book.Entries[1].Text)
	assert.Equal(t, Unsynced, book.Entries[1].SyncState)
	assert.True(t, first.AddedAt.Equal(book.Entries[1].AddedAt))
	assert.Equal(t, "/apple/", book.Entries[1].Pronunciation, "saved results are normalized")
	assert.Equal(t, DefaultBookName, book.Name)
}

func TestAddEntry_DuplicateLaw(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.AddEntry(ctx, result("Apple", language.English), "")
	require.NoError(t, err)
	_, err = s.AddEntry(ctx, result("  apple ", language.English), "")
	require.ErrorIs(t, err, ErrDuplicate)

	other, err := s.CreateBook(ctx, "Other", "")
	require.NoError(t, err)
	_, err = s.AddEntry(ctx, result("apple", language.English), other)
	require.NoError(t, err, "duplicates are checked per book")

	book, err := s.Book(ctx, DefaultBookID)
	require.NoError(t, err)
	assert.Len(t, book.Entries, 1)
}

func TestAddEntry_UnknownBook(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	_, err := s.AddEntry(context.Background(), result("apple", language.English), "missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook_DefaultIsProtected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newTestStore(t)
	_, err := s.AddEntry(ctx, result("apple", language.English), "")
	require.NoError(t, err)
	before, err := mem.Get(ctx, BooksKey)
	require.NoError(t, err)

	require.ErrorIs(t, s.DeleteBook(ctx, DefaultBookID), ErrProtectedBook)
	require.ErrorIs(t, s.RenameBook(ctx, DefaultBookID, "mine"), ErrProtectedBook)

	after, err := mem.Get(ctx, BooksKey)
	require.NoError(t, err)
	assert.Equal(t, before, after, "store unchanged")
}

func TestDeleteBook_CurrentResetsToDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, err := s.CreateBook(ctx, "Travel", "words from trips")
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentBook(ctx, id))
	current, err := s.CurrentBook(ctx)
	require.NoError(t, err)
	require.Equal(t, id, current)

	require.NoError(t, s.DeleteBook(ctx, id))
	current, err = s.CurrentBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultBookID, current)

	_, err = s.Book(ctx, id)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, s.DeleteBook(ctx, id), ErrBookNotFound)
}

// batchOnlyStore counts SetMany calls and can fail the next one.
type batchOnlyStore struct {
	*kv.Memory
	batches  int
	failNext bool
}

func (b *batchOnlyStore) SetMany(ctx context.Context, values map[string][]byte) error {
	b.batches++
	if b.failNext {
		return errors.New("disk full")
	}
	return b.Memory.SetMany(ctx, values)
}

func TestDeleteBook_CurrentResetIsOneWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &batchOnlyStore{Memory: kv.NewMemory()}
	s := NewStore(store)

	id, err := s.CreateBook(ctx, "Travel", "")
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentBook(ctx, id))

	store.failNext = true
	require.Error(t, s.DeleteBook(ctx, id))
	_, err = s.Book(ctx, id)
	require.NoError(t, err, "failed delete keeps the book")
	current, err := s.CurrentBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, current, "failed delete keeps the selection")

	store.failNext = false
	require.NoError(t, s.DeleteBook(ctx, id))
	assert.Equal(t, 2, store.batches)
	current, err = s.CurrentBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultBookID, current)
}

func TestListBooks_DefaultFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, err := s.CreateBook(ctx, "B", "")
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, "A", "")
	require.NoError(t, err)

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, DefaultBookID, books[0].ID)
	assert.Equal(t, "B", books[1].Name)
	assert.Equal(t, "A", books[2].Name)
}

func TestRenameBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)
	id, err := s.CreateBook(ctx, "Old", "")
	require.NoError(t, err)
	require.NoError(t, s.RenameBook(ctx, id, "New"))
	b, err := s.Book(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", b.Name)
	assert.Error(t, s.RenameBook(ctx, id, "  "))
}

func TestSyncMarks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)
	a, err := s.AddEntry(ctx, result("alpha", language.English), "")
	require.NoError(t, err)
	b, err := s.AddEntry(ctx, result("beta", language.English), "")
	require.NoError(t, err)
	_, err = s.AddEntry(ctx, result("gamma", language.English), "")
	require.NoError(t, err)

	pending, err := s.Unsynced(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "alpha", pending[0].Text, "oldest first")

	require.NoError(t, s.MarkSynced(ctx, "", "alpha", a.AddedAt, 1700000000001))
	require.NoError(t, s.MarkSkipped(ctx, "", "BETA", b.AddedAt))
	assert.ErrorIs(t, s.MarkSynced(ctx, "", "delta", time.Time{}, 1), ErrEntryNotFound)

	pending, err = s.Unsynced(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "gamma", pending[0].Text)

	book, err := s.Book(ctx, "")
	require.NoError(t, err)
	for _, e := range book.Entries {
		switch e.Text {
		case "alpha":
			assert.Equal(t, Synced, e.SyncState)
			assert.EqualValues(t, 1700000000001, e.RemoteID)
			assert.NotNil(t, e.SyncedAt)
		case "beta":
			assert.Equal(t, Skipped, e.SyncState)
			assert.Zero(t, e.RemoteID)
		}
	}
}

func TestRemoveEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)
	e, err := s.AddEntry(ctx, result("apple", language.English), "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.RemoveEntry(ctx, "", "apple", e.AddedAt.Add(time.Second)), ErrEntryNotFound)
	require.NoError(t, s.RemoveEntry(ctx, "", "Apple", e.AddedAt))

	book, err := s.Book(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, book.Entries)
}

func TestStore_PersistsThroughKV(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newTestStore(t)
	_, err := s.AddEntry(ctx, result("apple", language.English), "")
	require.NoError(t, err)

	reopened := NewStore(mem)
	book, err := reopened.Book(ctx, "")
	require.NoError(t, err)
	require.Len(t, book.Entries, 1)
	assert.Equal(t, "apple", book.Entries[0].Text)
	assert.Equal(t, lookup.SourceMachineTranslation, book.Entries[0].Source)
}
