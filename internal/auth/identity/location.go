package identity

import (
	"net/url"
	"sync"
)

// Location is the address the provider redirects back to. Replace swaps the
// address without a navigation, like history.replaceState.
type Location interface {
	Current() url.URL
	Replace(u url.URL)
}

// TakeParam reads param from the location and strips it in the same step,
// before any work is done with the value. A second call for the same
// location finds nothing.
func TakeParam(loc Location, param string) (string, bool) {
	u := loc.Current()
	q := u.Query()
	value := q.Get(param)
	if !q.Has(param) {
		return "", false
	}
	q.Del(param)
	u.RawQuery = q.Encode()
	loc.Replace(u)
	if value == "" {
		return "", false
	}
	return value, true
}

// MemoryLocation is a Location held in memory.
type MemoryLocation struct {
	mu      sync.Mutex
	current url.URL
	history []url.URL
}

// NewMemoryLocation parses raw as the starting address.
func NewMemoryLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MemoryLocation{current: *u}, nil
}

func (l *MemoryLocation) Current() url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *MemoryLocation) Replace(u url.URL) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, l.current)
	l.current = u
}

// Navigate moves to raw as a full navigation would, e.g. a provider redirect.
func (l *MemoryLocation) Navigate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	l.Replace(*u)
	return nil
}

// Replacements returns how many times the address was replaced.
func (l *MemoryLocation) Replacements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

// WithParam returns base with param=value added to its query.
func WithParam(base, param, value string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(param, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var _ Location = (*MemoryLocation)(nil)
