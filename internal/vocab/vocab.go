// Package vocab stores looked-up words in named vocabulary books.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oukeidos/wordlens/internal/kv"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/lookup"
)

// Storage keys in the local namespace.
const (
	BooksKey   = "vocabularyBooks"
	CurrentKey = "currentVocabularyBook"
)

const (
	DefaultBookID          = "default"
	DefaultBookName        = "默认生词本"
	DefaultBookDescription = "默认的生词本"
)

var (
	ErrDuplicate     = errors.New("word already exists in this book")
	ErrProtectedBook = errors.New("the default book cannot be deleted or renamed")
	ErrBookNotFound  = errors.New("vocabulary book not found")
	ErrEntryNotFound = errors.New("entry not found")
)

type SyncState string

const (
	Unsynced SyncState = "unsynced"
	Synced   SyncState = "synced"
	Skipped  SyncState = "skipped"
)

type Entry struct {
	lookup.Result
	AddedAt   time.Time  `json:"addedAt"`
	BookID    string     `json:"bookId"`
	SyncState SyncState  `json:"syncState"`
	RemoteID  int64      `json:"ankiNoteId,omitempty"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
}

type Book struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	// Entries are newest first.
	Entries []Entry `json:"words"`
}

// Store is safe for concurrent use within one process. Every mutation is a
// read-modify-write of the whole books record under one mutex.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	now   func() time.Time
	newID func() string
}

func NewStore(store kv.Store) *Store {
	return &Store{
		kv:    store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

func defaultBook(now time.Time) Book {
	return Book{
		ID:          DefaultBookID,
		Name:        DefaultBookName,
		Description: DefaultBookDescription,
		CreatedAt:   now,
		Entries:     []Entry{},
	}
}

// load must be called with mu held.
func (s *Store) load(ctx context.Context) (map[string]Book, error) {
	books := map[string]Book{}
	err := kv.GetJSON(ctx, s.kv, BooksKey, &books)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		books = map[string]Book{}
	case err != nil:
		return nil, fmt.Errorf("load vocabulary books: %w", err)
	}
	if _, ok := books[DefaultBookID]; !ok {
		books[DefaultBookID] = defaultBook(s.now().UTC())
	}
	return books, nil
}

func (s *Store) save(ctx context.Context, books map[string]Book) error {
	if err := kv.SetJSON(ctx, s.kv, BooksKey, books); err != nil {
		return fmt.Errorf("save vocabulary books: %w", err)
	}
	return nil
}

func (s *Store) currentID(ctx context.Context) (string, error) {
	var id string
	err := kv.GetJSON(ctx, s.kv, CurrentKey, &id)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return DefaultBookID, nil
	case err != nil:
		return "", fmt.Errorf("load current book: %w", err)
	}
	if id == "" {
		return DefaultBookID, nil
	}
	return id, nil
}

// resolve maps "" to the current book. A current id that names a deleted
// book reads as the default book.
func (s *Store) resolve(ctx context.Context, bookID string, books map[string]Book) (string, error) {
	if strings.TrimSpace(bookID) != "" {
		return bookID, nil
	}
	id, err := s.currentID(ctx)
	if err != nil {
		return "", err
	}
	if _, ok := books[id]; !ok {
		return DefaultBookID, nil
	}
	return id, nil
}

// AddEntry saves result at the front of the book. An empty bookID selects the
// current book.
func (s *Store) AddEntry(ctx context.Context, result lookup.Result, bookID string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	id, err := s.resolve(ctx, bookID, books)
	if err != nil {
		return Entry{}, err
	}
	book, ok := books[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	word := normalizeWord(result.Text)
	for _, e := range book.Entries {
		if normalizeWord(e.Text) == word {
			return Entry{}, fmt.Errorf("%w: %q in %s", ErrDuplicate, result.Text, book.Name)
		}
	}

	entry := Entry{
		Result:    result.Normalize(),
		AddedAt:   s.now().UTC(),
		BookID:    id,
		SyncState: Unsynced,
	}
	book.Entries = append([]Entry{entry}, book.Entries...)
	books[id] = book
	if err := s.save(ctx, books); err != nil {
		return Entry{}, err
	}
	logger.Debug("Entry added", "word", entry.Text, "book", id)
	return entry, nil
}

// RemoveEntry deletes the entry for word. A zero addedAt removes the entry
// regardless of when it was added.
func (s *Store) RemoveEntry(ctx context.Context, bookID, word string, addedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateEntry(ctx, bookID, word, addedAt, func(b *Book, i int) {
		b.Entries = slices.Delete(b.Entries, i, i+1)
	})
}

// MarkSynced records a successful push with the remote note id.
func (s *Store) MarkSynced(ctx context.Context, bookID, word string, addedAt time.Time, remoteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	return s.mutateEntry(ctx, bookID, word, addedAt, func(b *Book, i int) {
		b.Entries[i].SyncState = Synced
		b.Entries[i].RemoteID = remoteID
		b.Entries[i].SyncedAt = &now
	})
}

// MarkSkipped records that the word already existed remotely.
func (s *Store) MarkSkipped(ctx context.Context, bookID, word string, addedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	return s.mutateEntry(ctx, bookID, word, addedAt, func(b *Book, i int) {
		b.Entries[i].SyncState = Skipped
		b.Entries[i].SyncedAt = &now
	})
}

// mutateEntry must be called with mu held.
func (s *Store) mutateEntry(ctx context.Context, bookID, word string, addedAt time.Time, fn func(*Book, int)) error {
	books, err := s.load(ctx)
	if err != nil {
		return err
	}
	id, err := s.resolve(ctx, bookID, books)
	if err != nil {
		return err
	}
	book, ok := books[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	want := normalizeWord(word)
	idx := slices.IndexFunc(book.Entries, func(e Entry) bool {
		return normalizeWord(e.Text) == want && (addedAt.IsZero() || e.AddedAt.Equal(addedAt))
	})
	if idx < 0 {
		return fmt.Errorf("%w: %q in %s", ErrEntryNotFound, word, id)
	}
	fn(&book, idx)
	books[id] = book
	return s.save(ctx, books)
}

// ListBooks returns every book, default first, then by creation time.
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Book) int {
		switch {
		case a.ID == DefaultBookID:
			return -1
		case b.ID == DefaultBookID:
			return 1
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Book returns one book. An empty id selects the current book.
func (s *Store) Book(ctx context.Context, id string) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return Book{}, err
	}
	id, err = s.resolve(ctx, id, books)
	if err != nil {
		return Book{}, err
	}
	b, ok := books[id]
	if !ok {
		return Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return b, nil
}

// Unsynced returns the entries of the book that were never pushed, oldest first.
func (s *Store) Unsynced(ctx context.Context, bookID string) ([]Entry, error) {
	b, err := s.Book(ctx, bookID)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for i := len(b.Entries) - 1; i >= 0; i-- {
		e := b.Entries[i]
		if e.SyncState == "" || e.SyncState == Unsynced {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateBook(ctx context.Context, name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("book name is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	id := s.newID()
	books[id] = Book{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
		Entries:     []Entry{},
	}
	if err := s.save(ctx, books); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteBook removes the book and its entries. Deleting the current book
// makes the default book current.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if id == DefaultBookID {
		return ErrProtectedBook
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := books[id]; !ok {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	current, err := s.currentID(ctx)
	if err != nil {
		return err
	}
	delete(books, id)
	if current != id {
		return s.save(ctx, books)
	}
	err = kv.SetManyJSON(ctx, s.kv, map[string]any{BooksKey: books, CurrentKey: DefaultBookID})
	if err != nil {
		return fmt.Errorf("delete current book: %w", err)
	}
	return nil
}

func (s *Store) RenameBook(ctx context.Context, id, name string) error {
	if id == DefaultBookID {
		return ErrProtectedBook
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("book name is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return err
	}
	b, ok := books[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	b.Name = name
	books[id] = b
	return s.save(ctx, books)
}

func (s *Store) CurrentBook(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	return s.resolve(ctx, "", books)
}

func (s *Store) SetCurrentBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	books, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := books[id]; !ok {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return kv.SetJSON(ctx, s.kv, CurrentKey, id)
}
