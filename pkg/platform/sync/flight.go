package sync

import (
	"sync"
	"sync/atomic"
)

// FlightGuard is a reject-don't-queue single-flight guard keyed by scope.
// A second TryEnter on a busy scope fails immediately instead of waiting, so
// duplicate invocations (a double submit) never reach the network twice.
// Scopes are distributed across shards to keep unrelated scopes from contending.
type FlightGuard struct {
	shards [32]flightShard
}

type flightShard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewFlightGuard creates a guard with 32 shards.
func NewFlightGuard() *FlightGuard {
	g := &FlightGuard{}
	for i := range g.shards {
		g.shards[i].busy = make(map[string]struct{})
	}
	return g
}

// TryEnter marks scope busy and returns its release func.
// ok is false when scope is already busy; release is nil in that case.
// The release func is idempotent.
func (g *FlightGuard) TryEnter(scope string) (release func(), ok bool) {
	shard := &g.shards[g.shardFor(scope)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, taken := shard.busy[scope]; taken {
		return nil, false
	}
	shard.busy[scope] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			shard.mu.Lock()
			delete(shard.busy, scope)
			shard.mu.Unlock()
		})
	}, true
}

// Busy reports whether scope is currently held.
func (g *FlightGuard) Busy(scope string) bool {
	shard := &g.shards[g.shardFor(scope)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	_, taken := shard.busy[scope]
	return taken
}

// shardFor returns the shard index for the given scope.
// Empty scopes default to shard 0.
func (g *FlightGuard) shardFor(scope string) int {
	if scope == "" {
		return 0
	}
	return int(hashString(scope) % uint32(len(g.shards)))
}

// hashString provides a simple djb2-style hash for shard selection.
func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// Generation hands out monotonically increasing tags and accepts a tagged
// result only if no newer tag has already been committed. It keeps a slow,
// older response from overwriting state written by a newer one.
type Generation struct {
	issued    atomic.Uint64
	mu        sync.Mutex
	committed uint64
}

// Next returns a fresh tag, strictly greater than every tag issued before.
func (g *Generation) Next() uint64 {
	return g.issued.Add(1)
}

// Commit records tag as applied. It returns false when a newer tag was
// committed first, in which case the caller must drop its result.
func (g *Generation) Commit(tag uint64) bool {
	return g.Apply(tag, nil)
}

// Apply commits tag and runs apply while still holding the commit lock, so
// no newer tag can commit between the check and the write. apply is not
// run when the tag is stale. It must not call back into g.
func (g *Generation) Apply(tag uint64, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if tag <= g.committed {
		return false
	}
	g.committed = tag
	if apply != nil {
		apply()
	}
	return true
}

// Latest returns the newest committed tag.
func (g *Generation) Latest() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.committed
}
