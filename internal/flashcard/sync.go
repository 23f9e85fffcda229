// Package flashcard pushes vocabulary entries to Anki.
package flashcard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/oukeidos/wordlens/internal/anki"
	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/card"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/tts"
	"github.com/oukeidos/wordlens/internal/vocab"
)

// Remote is the subset of AnkiConnect used by a sync.
type Remote interface {
	ModelNames(ctx context.Context) ([]string, error)
	CreateModel(ctx context.Context, m anki.Model) error
	CreateDeck(ctx context.Context, deck string) (int64, error)
	AddNote(ctx context.Context, n anki.Note) (int64, error)
	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, ids []int64) ([]anki.NoteInfo, error)
	StoreMediaFile(ctx context.Context, filename string, data []byte) (string, error)
}

// Books is the vocabulary store as seen by a sync.
type Books interface {
	Book(ctx context.Context, id string) (vocab.Book, error)
	Unsynced(ctx context.Context, bookID string) ([]vocab.Entry, error)
	MarkSynced(ctx context.Context, bookID, word string, addedAt time.Time, remoteID int64) error
	MarkSkipped(ctx context.Context, bookID, word string, addedAt time.Time) error
}

// Speech fetches pronunciation audio. A nil Audio means none is available.
type Speech interface {
	Fetch(ctx context.Context, word string, lang language.ID) (*tts.Audio, error)
}

type Options struct {
	// Deck defaults to the book name.
	Deck string
	// Audio attaches TTS pronunciation when a Speech source is configured.
	Audio bool
}

type EntryError struct {
	Word    string `json:"word"`
	Message string `json:"message"`
}

type Report struct {
	Deck    string       `json:"deck"`
	Added   int          `json:"added"`
	Skipped int          `json:"skipped"`
	Errors  []EntryError `json:"errors"`
}

// Progress is called after each entry with the number handled so far.
type Progress func(done, total int, word string)

type Syncer struct {
	remote Remote
	books  Books
	speech Speech
	opts   Options
	log    *slog.Logger
}

func NewSyncer(remote Remote, books Books, speech Speech, opts Options) *Syncer {
	return &Syncer{
		remote: remote,
		books:  books,
		speech: speech,
		opts:   opts,
		log:    logger.Component("flashcard"),
	}
}

// Sync pushes the unsynced entries of bookID one at a time. Per-entry failures
// are collected in the report and never stop the batch; only store failures
// and cancellation return an error.
func (s *Syncer) Sync(ctx context.Context, bookID string, progress Progress) (Report, error) {
	report := Report{Errors: []EntryError{}}

	book, err := s.books.Book(ctx, bookID)
	if err != nil {
		return report, err
	}
	entries, err := s.books.Unsynced(ctx, book.ID)
	if err != nil {
		return report, err
	}
	report.Deck = strings.TrimSpace(s.opts.Deck)
	if report.Deck == "" {
		report.Deck = book.Name
	}
	if len(entries) == 0 {
		return report, nil
	}

	model := s.ensureModel(ctx)
	start := time.Now()
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.syncEntry(ctx, book.ID, report.Deck, model, e, &report)
		if progress != nil {
			progress(i+1, len(entries), e.Text)
		}
	}
	s.log.Info("Sync finished",
		"book", book.ID,
		"deck", report.Deck,
		"added", report.Added,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
		"duration", time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (s *Syncer) syncEntry(ctx context.Context, bookID, deck, model string, e vocab.Entry, report *Report) {
	fail := func(err error) {
		s.log.Warn("Entry not synced", "word", e.Text, "error", err)
		report.Errors = append(report.Errors, EntryError{Word: e.Text, Message: apperrors.PublicMessage(err)})
	}
	skip := func() {
		if err := s.books.MarkSkipped(ctx, bookID, e.Text, e.AddedAt); err != nil {
			fail(err)
			return
		}
		report.Skipped++
	}

	if s.exists(ctx, deck, e.Text) {
		s.log.Debug("Entry already in deck", "word", e.Text, "deck", deck)
		skip()
		return
	}

	c := card.Render(e)
	if s.opts.Audio && s.speech != nil {
		c.AttachAudio(s.storeAudio(ctx, e))
	}
	note := anki.Note{DeckName: deck, ModelName: model, Fields: c.Fields, Tags: c.Tags}
	if model == card.BasicModelName {
		note.Fields = map[string]string{"Front": c.Front, "Back": c.Back}
	}

	id, err := s.remote.AddNote(ctx, note)
	if anki.IsDeckNotFound(err) {
		s.log.Info("Creating deck", "deck", deck)
		if _, cerr := s.remote.CreateDeck(ctx, deck); cerr != nil {
			fail(fmt.Errorf("create deck %q: %w", deck, cerr))
			return
		}
		id, err = s.remote.AddNote(ctx, note)
	}
	switch {
	case anki.IsDuplicate(err):
		skip()
		return
	case err != nil:
		fail(err)
		return
	}
	if err := s.books.MarkSynced(ctx, bookID, e.Text, e.AddedAt, id); err != nil {
		fail(err)
		return
	}
	report.Added++
}

// ensureModel returns the note model to use, creating VocabularyCard when it
// is missing. Basic is used when creation fails.
func (s *Syncer) ensureModel(ctx context.Context) string {
	names, err := s.remote.ModelNames(ctx)
	if err == nil && slices.Contains(names, card.ModelName) {
		return card.ModelName
	}
	if err := s.remote.CreateModel(ctx, card.Model()); err != nil {
		s.log.Warn("Using Basic note model", "error", err)
		return card.BasicModelName
	}
	return card.ModelName
}

// dedupFields are the first fields of the Basic and VocabularyCard models.
var dedupFields = []string{"Front", "Word"}

// exists looks for word in deck, first exactly and then by a wildcard match
// compared case- and whitespace-insensitively. A failed lookup counts as absent.
func (s *Syncer) exists(ctx context.Context, deck, word string) bool {
	deckTerm := fmt.Sprintf(`deck:"%s"`, escape(deck))
	ids, err := s.remote.FindNotes(ctx, deckTerm+" "+anyField(`%s:"%s"`, escape(word)))
	if err != nil {
		s.log.Debug("Exact duplicate check failed", "word", word, "error", err)
		return false
	}
	if len(ids) > 0 {
		return true
	}

	want := fold(word)
	ids, err = s.remote.FindNotes(ctx, deckTerm+" "+anyField(`"%s:*%s*"`, escape(want)))
	if err != nil || len(ids) == 0 {
		return false
	}
	infos, err := s.remote.NotesInfo(ctx, ids)
	if err != nil {
		s.log.Debug("Fuzzy duplicate check failed", "word", word, "error", err)
		return false
	}
	for _, info := range infos {
		for _, name := range dedupFields {
			if f, ok := info.Fields[name]; ok && fold(f.Value) == want {
				return true
			}
		}
	}
	return false
}

// anyField OR-s format over dedupFields, e.g. (Front:"w" OR Word:"w").
func anyField(format, value string) string {
	terms := make([]string, len(dedupFields))
	for i, name := range dedupFields {
		terms[i] = fmt.Sprintf(format, name, value)
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

func (s *Syncer) storeAudio(ctx context.Context, e vocab.Entry) string {
	audio, err := s.speech.Fetch(ctx, e.Text, e.Language)
	if err != nil || audio == nil {
		return ""
	}
	stored, err := s.remote.StoreMediaFile(ctx, audio.Filename, audio.Data)
	if err != nil {
		s.log.Warn("Audio upload failed", "word", e.Text, "error", err)
		return ""
	}
	return stored
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
