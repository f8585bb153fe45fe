package event

import (
	"strings"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrNotFound is returned when an event ID is not in the store.
	ErrNotFound = xerrors.New("event not found")

	// ErrEmptyField is returned when an event is appended with a blank
	// type or details.
	ErrEmptyField = xerrors.New("event type and details are required")

	// ErrAlreadyResolved is returned when a status update targets an event
	// that already carries a terminal outcome.
	ErrAlreadyResolved = xerrors.New("event already resolved")
)

// Store is the ordered in-memory event log, newest first. It is the sole
// owner of Event values; callers get copies and mutate status only through
// Resolve.
type Store struct {
	mu     sync.RWMutex
	events []*Event          // newest first
	byID   map[string]*Event // event ID -> entry in events
}

// NewStore initializes an empty event log.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Event)}
}

// Append validates and records a new Pending event, returning a copy.
func (s *Store) Append(evType, details string) (Event, error) {
	if strings.TrimSpace(evType) == "" || strings.TrimSpace(details) == "" {
		return Event{}, ErrEmptyField
	}

	ev := &Event{
		ID:        ulid.Make().String(),
		Type:      evType,
		Details:   details,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]*Event{ev}, s.events...)
	s.byID[ev.ID] = ev
	return *ev, nil
}

// Get returns a copy of the event with the given ID.
func (s *Store) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.byID[id]
	if !ok {
		return Event{}, false
	}
	return *ev, true
}

// Resolve writes the terminal routing outcome for id. The transition happens
// exactly once; a second resolution returns ErrAlreadyResolved.
func (s *Store) Resolve(id string, outcome Status) (Event, error) {
	if !outcome.Terminal() {
		return Event{}, xerrors.New("outcome is not terminal")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	if ev.Status != StatusPending {
		return *ev, ErrAlreadyResolved
	}
	ev.Status = outcome
	return *ev, nil
}

// Recent returns copies of up to n events, newest first.
func (s *Store) Recent(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.events) {
		n = len(s.events)
	}
	out := make([]Event, 0, n)
	for _, ev := range s.events[:n] {
		out = append(out, *ev)
	}
	return out
}

// Len returns the number of events in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
