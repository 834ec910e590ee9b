// Package store holds the shared session state. Everything reads it through
// View; exactly one Writer exists, handed to the orchestration layer.
package store

import (
	"errors"
	"sync"

	"authsession/internal/auth/models"
)

// ErrWriterTaken is returned when a second writer is requested.
var ErrWriterTaken = errors.New("store: session writer already issued")

// Listener receives a snapshot after every change.
type Listener func(models.Session)

// View is the read-only face of the store.
type View interface {
	// Snapshot returns a deep copy of the current session.
	Snapshot() models.Session
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn Listener) (unsubscribe func())
}

// Store is the session state container.
type Store struct {
	mu    sync.RWMutex
	state models.Session

	// notifyMu orders change-and-notify sequences so listeners observe
	// snapshots in the order changes were applied.
	notifyMu  sync.Mutex
	listeners map[uint64]Listener
	nextID    uint64
	lmu       sync.Mutex

	writerOnce sync.Once
	writer     *Writer
}

// New creates a store whose session is undetermined and uninitialized.
func New() *Store {
	return &Store{listeners: make(map[uint64]Listener)}
}

func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

// View returns a read-only handle to the store.
func (s *Store) View() View {
	return readOnly{s}
}

// Writer hands out the single writer. Later calls fail with ErrWriterTaken.
func (s *Store) Writer() (*Writer, error) {
	var first bool
	s.writerOnce.Do(func() {
		s.writer = &Writer{store: s}
		first = true
	})
	if !first {
		return nil, ErrWriterTaken
	}
	return s.writer, nil
}

// apply mutates the state under lock, then notifies listeners with the result.
func (s *Store) apply(change func(*models.Session)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	change(&s.state)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.lmu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.lmu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
}

type readOnly struct {
	s *Store
}

func (r readOnly) Snapshot() models.Session       { return r.s.Snapshot() }
func (r readOnly) Subscribe(fn Listener) func() { return r.s.Subscribe(fn) }

var (
	_ View = (*Store)(nil)
	_ View = readOnly{}
)
