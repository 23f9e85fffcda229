// Package anki is a client for the AnkiConnect add-on's JSON API.
package anki

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/httpclient"
)

const (
	DefaultURL     = "http://localhost:8765"
	DefaultVersion = 6
	DefaultTimeout = 15 * time.Second
	serviceName    = "AnkiConnect"
)

// APIError is an error string reported by AnkiConnect itself.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anki %s: %s", e.Action, e.Message)
}

// IsDeckNotFound reports whether err says the target deck is missing.
func IsDeckNotFound(err error) bool {
	return containsAPIMessage(err, "deck was not found")
}

// IsDuplicate reports whether err is AnkiConnect's duplicate-note rejection.
func IsDuplicate(err error) bool {
	return containsAPIMessage(err, "duplicate")
}

func containsAPIMessage(err error, needle string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Message), needle)
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

type Client struct {
	url     string
	version int
	timeout time.Duration
}

func NewClient(url string, version int, timeout time.Duration) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if version <= 0 {
		version = DefaultVersion
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{url: url, version: version, timeout: timeout}
}

func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, _, err := httpclient.PostJSON(ctx, httpclient.GetDefaultClient(), serviceName, c.url, request{
		Action:  action,
		Version: c.version,
		Params:  params,
	})
	if err != nil {
		return apperrors.WithProvider(err, serviceName)
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return apperrors.WithProvider(apperrors.Parse(fmt.Errorf("anki %s: decode response: %w", action, err)), serviceName)
	}
	if resp.Error != nil && *resp.Error != "" {
		return &APIError{Action: action, Message: *resp.Error}
	}
	if out == nil || len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return apperrors.WithProvider(apperrors.Parse(fmt.Errorf("anki %s: decode result: %w", action, err)), serviceName)
	}
	return nil
}

// Version returns the AnkiConnect API version; it doubles as a ping.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	err := c.invoke(ctx, "version", nil, &v)
	return v, err
}

func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "deckNames", nil, &names)
	return names, err
}

func (c *Client) CreateDeck(ctx context.Context, deck string) (int64, error) {
	var id int64
	err := c.invoke(ctx, "createDeck", map[string]any{"deck": deck}, &id)
	return id, err
}

func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "modelNames", nil, &names)
	return names, err
}

// CardTemplate is one card type of a note model.
type CardTemplate struct {
	Name  string `json:"Name"`
	Front string `json:"Front"`
	Back  string `json:"Back"`
}

type Model struct {
	Name          string         `json:"modelName"`
	InOrderFields []string       `json:"inOrderFields"`
	CSS           string         `json:"css"`
	CardTemplates []CardTemplate `json:"cardTemplates"`
}

func (c *Client) CreateModel(ctx context.Context, m Model) error {
	return c.invoke(ctx, "createModel", m, nil)
}

type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// AddNote returns the new note id.
func (c *Client) AddNote(ctx context.Context, n Note) (int64, error) {
	var id int64
	if err := c.invoke(ctx, "addNote", map[string]any{"note": n}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &ids)
	return ids, err
}

type NoteField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

type NoteInfo struct {
	NoteID    int64                `json:"noteId"`
	ModelName string               `json:"modelName"`
	Tags      []string             `json:"tags"`
	Fields    map[string]NoteField `json:"fields"`
}

func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]NoteInfo, error) {
	var infos []NoteInfo
	err := c.invoke(ctx, "notesInfo", map[string]any{"notes": ids}, &infos)
	return infos, err
}

// StoreMediaFile uploads data into the collection's media folder and returns
// the stored file name.
func (c *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) (string, error) {
	var stored string
	err := c.invoke(ctx, "storeMediaFile", map[string]any{
		"filename": filename,
		"data":     base64.StdEncoding.EncodeToString(data),
	}, &stored)
	if stored == "" {
		stored = filename
	}
	return stored, err
}
