package flow

import "sync"

// Mirror is navigation state that outlives a single machine: the router
// state of a screen in a UI, a session file in a CLI.
type Mirror interface {
	Save(key string, state TwoFactorState)
	Load(key string) (TwoFactorState, bool)
	Clear(key string)
}

// MemoryMirror keeps mirrored states for the lifetime of the process.
type MemoryMirror struct {
	mu     sync.RWMutex
	states map[string]TwoFactorState
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{states: make(map[string]TwoFactorState)}
}

func (m *MemoryMirror) Save(key string, state TwoFactorState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[key] = state
}

func (m *MemoryMirror) Load(key string) (TwoFactorState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[key]
	return st, ok
}

func (m *MemoryMirror) Clear(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)
}

var _ Mirror = (*MemoryMirror)(nil)
