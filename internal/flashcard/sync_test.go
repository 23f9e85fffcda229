package flashcard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oukeidos/wordlens/internal/anki"
	"github.com/oukeidos/wordlens/internal/anki/ankitest"
	"github.com/oukeidos/wordlens/internal/card"
	"github.com/oukeidos/wordlens/internal/kv"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
	"github.com/oukeidos/wordlens/internal/tts"
	"github.com/oukeidos/wordlens/internal/vocab"
)

func seedBook(t *testing.T, words ...string) *vocab.Store {
	t.Helper()
	store := vocab.NewStore(kv.NewMemory())
	for _, w := range words {
		_, err := store.AddEntry(context.Background(), lookup.Result{
			Text:               w,
			Language:           language.English,
			PrimaryTranslation: "译" + w,
			Source:             lookup.SourceMachineTranslation,
		}, "")
		require.NoError(t, err)
	}
	return store
}

func newRemote(t *testing.T) (*ankitest.Server, *anki.Client) {
	t.Helper()
	srv := ankitest.NewServer()
	t.Cleanup(srv.Close)
	return srv, anki.NewClient(srv.URL, 0, 0)
}

type stubSpeech struct{}

func (stubSpeech) Fetch(_ context.Context, word string, lang language.ID) (*tts.Audio, error) {
	return &tts.Audio{Data: []byte("ID3" + word), ContentType: "audio/mpeg", Filename: tts.Filename(word, lang)}, nil
}

func TestSync_SkipsFuzzyRemoteDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seedBook(t, "apple", "banana", "cherry")
	srv, client := newRemote(t)
	srv.AddNote("Vocabulary", " Apple ")

	var progress []string
	report, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).
		Sync(ctx, "", func(done, total int, word string) {
			assert.Equal(t, 3, total)
			progress = append(progress, word)
		})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, progress)
	assert.Contains(t, srv.Decks(), "Vocabulary", "missing deck is created on demand")
	assert.Contains(t, srv.Models(), card.ModelName)

	book, err := store.Book(ctx, "")
	require.NoError(t, err)
	states := map[string]vocab.Entry{}
	for _, e := range book.Entries {
		states[e.Text] = e
	}
	assert.Equal(t, vocab.Skipped, states["apple"].SyncState)
	assert.Zero(t, states["apple"].RemoteID)
	for _, w := range []string{"banana", "cherry"} {
		assert.Equal(t, vocab.Synced, states[w].SyncState)
		assert.NotZero(t, states[w].RemoteID)
		assert.NotNil(t, states[w].SyncedAt)
	}

	again, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).Sync(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, Report{Deck: "Vocabulary", Errors: []EntryError{}}, again)
}

func TestSync_NotesUseVocabularyCardFields(t *testing.T) {
	t.Parallel()
	store := seedBook(t, "apple")
	srv, client := newRemote(t)

	report, err := NewSyncer(client, store, nil, Options{}).Sync(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, vocab.DefaultBookName, report.Deck)
	require.Equal(t, 1, report.Added)

	notes := srv.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, card.ModelName, notes[0].Model)
	assert.Equal(t, "apple", notes[0].Fields["Word"])
	assert.Equal(t, "译apple", notes[0].Fields["Translation"])
	assert.Equal(t, []string{"vocabulary", "wordlens", "english"}, notes[0].Tags)
}

func TestSync_SkipsWordSyncedFromAnotherBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv, client := newRemote(t)

	first, err := NewSyncer(client, seedBook(t, "Apple"), nil, Options{Deck: "Vocabulary"}).Sync(ctx, "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.Added)

	second, err := NewSyncer(client, seedBook(t, "apple"), nil, Options{Deck: "Vocabulary"}).Sync(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, srv.Notes(), 1)
}

func TestAnyField(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `(Front:"w" OR Word:"w")`, anyField(`%s:"%s"`, "w"))
	assert.Equal(t, `("Front:*w*" OR "Word:*w*")`, anyField(`"%s:*%s*"`, "w"))
}

func TestSync_FallsBackToBasicModel(t *testing.T) {
	t.Parallel()
	store := seedBook(t, "apple")
	srv, client := newRemote(t)
	srv.AddDeck("Vocabulary")
	srv.FailAction("createModel", "permission denied")

	report, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).Sync(context.Background(), "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Added)

	notes := srv.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, card.BasicModelName, notes[0].Model)
	assert.Equal(t, "apple", notes[0].Fields["Front"])
	assert.Contains(t, notes[0].Fields["Back"], "译apple")
}

func TestSync_RemoteErrorsDoNotStopBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seedBook(t, "one", "two", "three")
	srv, client := newRemote(t)
	srv.AddDeck("Vocabulary")
	srv.FailAction("addNote", "collection is not available")

	report, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).Sync(ctx, "", nil)
	require.NoError(t, err)
	assert.Zero(t, report.Added)
	require.Len(t, report.Errors, 3)
	assert.Equal(t, "one", report.Errors[0].Word)
	assert.Contains(t, report.Errors[0].Message, "collection is not available")

	pending, err := store.Unsynced(ctx, "")
	require.NoError(t, err)
	assert.Len(t, pending, 3, "failed entries stay unsynced")
}

func TestSync_DuplicateRejectionCountsAsSkipped(t *testing.T) {
	t.Parallel()
	store := seedBook(t, "apple")
	srv, client := newRemote(t)
	srv.AddDeck("Vocabulary")
	srv.FailAction("addNote", "cannot create note because it is a duplicate")

	report, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).Sync(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)
}

func TestSync_FailedDuplicateCheckCountsAsAbsent(t *testing.T) {
	t.Parallel()
	store := seedBook(t, "apple")
	srv, client := newRemote(t)
	srv.AddDeck("Vocabulary")
	srv.FailAction("findNotes", "search failed")

	report, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).Sync(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
}

func TestSync_AttachesAudio(t *testing.T) {
	t.Parallel()
	store := seedBook(t, "hello")
	srv, client := newRemote(t)
	srv.AddDeck("Vocabulary")

	report, err := NewSyncer(client, store, stubSpeech{}, Options{Deck: "Vocabulary", Audio: true}).
		Sync(context.Background(), "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Added)

	filename := tts.Filename("hello", language.English)
	_, ok := srv.Media(filename)
	assert.True(t, ok)
	notes := srv.Notes()
	require.Len(t, notes, 1)
	assert.True(t, strings.Contains(notes[0].Fields["Pronunciation"], "[sound:"+filename+"]"))
}

func TestSync_Cancelled(t *testing.T) {
	t.Parallel()
	store := seedBook(t, "apple")
	_, client := newRemote(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSyncer(client, store, nil, Options{Deck: "Vocabulary"}).Sync(ctx, "", nil)
	require.ErrorIs(t, err, context.Canceled)
}
