// Package ankitest runs an in-process fake of the AnkiConnect API.
package ankitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Note is a note held by the fake collection.
type Note struct {
	ID     int64
	Deck   string
	Model  string
	Fields map[string]string
	Tags   []string
}

// Server is a fake AnkiConnect endpoint holding one collection in memory.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	decks  []string
	models []string
	notes  []Note
	media  map[string]string
	calls  []string
	nextID int64
	// fail maps an action to the error string returned for it.
	fail map[string]string
}

func NewServer() *Server {
	s := &Server{
		decks:  []string{"Default"},
		models: []string{"Basic"},
		media:  map[string]string{},
		nextID: 1700000000000,
		fail:   map[string]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) AddDeck(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.decks, name) {
		s.decks = append(s.decks, name)
	}
}

// AddNote seeds the collection with a Basic note.
func (s *Server) AddNote(deck, front string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.notes = append(s.notes, Note{ID: s.nextID, Deck: deck, Model: "Basic", Fields: map[string]string{"Front": front}})
	return s.nextID
}

// FailAction makes every call of action return message as its error.
func (s *Server) FailAction(action, message string) {
	s.mu.Lock()
	s.fail[action] = message
	s.mu.Unlock()
}

func (s *Server) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

func (s *Server) Decks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.decks)
}

func (s *Server) Models() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.models)
}

// Media returns the base64 payload stored under filename.
func (s *Server) Media(filename string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.media[filename]
	return v, ok
}

// Calls lists the actions received, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

type request struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req.Action)

	if msg, ok := s.fail[req.Action]; ok {
		writeJSON(w, nil, msg)
		return
	}
	if req.Version != 6 {
		writeJSON(w, nil, "unsupported version")
		return
	}

	switch req.Action {
	case "version":
		writeJSON(w, 6, "")
	case "deckNames":
		writeJSON(w, s.decks, "")
	case "createDeck":
		var p struct {
			Deck string `json:"deck"`
		}
		_ = json.Unmarshal(req.Params, &p)
		if !slices.Contains(s.decks, p.Deck) {
			s.decks = append(s.decks, p.Deck)
		}
		writeJSON(w, int64(len(s.decks)), "")
	case "modelNames":
		writeJSON(w, s.models, "")
	case "createModel":
		var p struct {
			ModelName     string   `json:"modelName"`
			InOrderFields []string `json:"inOrderFields"`
		}
		_ = json.Unmarshal(req.Params, &p)
		if slices.Contains(s.models, p.ModelName) {
			writeJSON(w, nil, "Model name already exists")
			return
		}
		s.models = append(s.models, p.ModelName)
		writeJSON(w, map[string]any{"name": p.ModelName, "flds": len(p.InOrderFields)}, "")
	case "addNote":
		s.addNote(w, req.Params)
	case "findNotes":
		var p struct {
			Query string `json:"query"`
		}
		_ = json.Unmarshal(req.Params, &p)
		writeJSON(w, s.find(p.Query), "")
	case "notesInfo":
		var p struct {
			Notes []int64 `json:"notes"`
		}
		_ = json.Unmarshal(req.Params, &p)
		infos := []map[string]any{}
		for _, n := range s.notes {
			if !slices.Contains(p.Notes, n.ID) {
				continue
			}
			fields := map[string]any{}
			for k, v := range n.Fields {
				fields[k] = map[string]any{"value": v, "order": 0}
			}
			infos = append(infos, map[string]any{"noteId": n.ID, "modelName": n.Model, "tags": n.Tags, "fields": fields})
		}
		writeJSON(w, infos, "")
	case "storeMediaFile":
		var p struct {
			Filename string `json:"filename"`
			Data     string `json:"data"`
		}
		_ = json.Unmarshal(req.Params, &p)
		s.media[p.Filename] = p.Data
		writeJSON(w, p.Filename, "")
	default:
		writeJSON(w, nil, "unsupported action")
	}
}

func (s *Server) addNote(w http.ResponseWriter, params json.RawMessage) {
	var p struct {
		Note struct {
			DeckName  string            `json:"deckName"`
			ModelName string            `json:"modelName"`
			Fields    map[string]string `json:"fields"`
			Tags      []string          `json:"tags"`
		} `json:"note"`
	}
	_ = json.Unmarshal(params, &p)
	n := p.Note
	if !slices.Contains(s.decks, n.DeckName) {
		writeJSON(w, nil, "deck was not found: "+n.DeckName)
		return
	}
	if !slices.Contains(s.models, n.ModelName) {
		writeJSON(w, nil, "model was not found: "+n.ModelName)
		return
	}
	first := firstField(n.ModelName, n.Fields)
	for _, existing := range s.notes {
		if existing.Model == n.ModelName && firstField(existing.Model, existing.Fields) == first {
			writeJSON(w, nil, "cannot create note because it is a duplicate")
			return
		}
	}
	s.nextID++
	s.notes = append(s.notes, Note{ID: s.nextID, Deck: n.DeckName, Model: n.ModelName, Fields: n.Fields, Tags: n.Tags})
	writeJSON(w, s.nextID, "")
}

// firstField is the field Anki uses for duplicate detection.
func firstField(model string, fields map[string]string) string {
	if model == "Basic" {
		return fields["Front"]
	}
	return fields["Word"]
}

var (
	deckTerm  = regexp.MustCompile(`deck:"([^"]*)"`)
	exactTerm = regexp.MustCompile(`(\w+):"([^"]*)"`)
	fuzzyTerm = regexp.MustCompile(`(\w+):\*([^*]*)\*`)
)

// find supports a deck term plus exact or wildcard field terms. Several field
// terms are OR-ed, matching queries like (Front:"x" OR Word:"x").
func (s *Server) find(query string) []int64 {
	ids := []int64{}
	deck := ""
	if m := deckTerm.FindStringSubmatch(query); m != nil {
		deck = m[1]
	}
	exact := fieldTerms(exactTerm, query)
	fuzzy := fieldTerms(fuzzyTerm, query)
	for _, n := range s.notes {
		if deck != "" && n.Deck != deck {
			continue
		}
		switch {
		case len(exact) > 0:
			if matchAny(n, exact, func(v, want string) bool { return v == want }) {
				ids = append(ids, n.ID)
			}
		case len(fuzzy) > 0:
			if matchAny(n, fuzzy, strings.Contains) {
				ids = append(ids, n.ID)
			}
		default:
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// fieldTerms returns field name to lowercased value, skipping the deck term.
func fieldTerms(re *regexp.Regexp, query string) map[string]string {
	terms := map[string]string{}
	for _, m := range re.FindAllStringSubmatch(query, -1) {
		if m[1] == "deck" {
			continue
		}
		terms[m[1]] = strings.ToLower(m[2])
	}
	return terms
}

func matchAny(n Note, terms map[string]string, match func(v, want string) bool) bool {
	for field, want := range terms {
		if v, ok := n.Fields[field]; ok && match(strings.ToLower(v), want) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, result any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{"result": result, "error": nil}
	if errMsg != "" {
		resp["error"] = errMsg
	}
	_ = json.NewEncoder(w).Encode(resp)
}
