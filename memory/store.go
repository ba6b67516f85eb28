// Package memory stores sub-agent task results, scoped either globally
// ("shared") or per orchestration subtree ("isolated").
//
// The shared scope is one global mapping visible to the whole call tree at
// depth <= 1. An isolated scope is created fresh for a subtree at depth > 1
// and discarded once that subtree's orchestration call returns, unless the
// caller copies selected entries outward.
package memory

import "sync"

// Kind distinguishes the two scope flavors.
type Kind int

const (
	// Shared is the single global scope.
	Shared Kind = iota
	// Isolated is a private per-subtree scope.
	Isolated
)

// String returns the scope kind name.
func (k Kind) String() string {
	if k == Shared {
		return "shared"
	}
	return "isolated"
}

// Store owns the shared scope and mints isolated scopes.
type Store struct {
	shared *Scope
}

// NewStore creates a Store with an empty shared scope.
func NewStore() *Store {
	return &Store{
		shared: &Scope{kind: Shared, entries: make(map[string]any)},
	}
}

// Shared returns the global shared scope.
func (s *Store) Shared() *Scope {
	return s.shared
}

// NewIsolated creates a fresh isolated scope for one orchestration subtree.
// The scope is garbage once the subtree releases it; the Store keeps no
// reference.
func (s *Store) NewIsolated() *Scope {
	return &Scope{kind: Isolated, entries: make(map[string]any)}
}

// Scope is one writable mapping of task results. Writes are serialized even
// when task execution runs concurrently.
type Scope struct {
	kind    Kind
	mu      sync.Mutex
	entries map[string]any
}

// Kind reports whether this scope is Shared or Isolated.
func (sc *Scope) Kind() Kind {
	return sc.kind
}

// Write stores a completed task result under key, replacing any prior value.
func (sc *Scope) Write(key string, value any) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.entries[key] = value
}

// Read returns the value stored under key, if any.
func (sc *Scope) Read(key string) (any, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	v, ok := sc.entries[key]
	return v, ok
}

// Keys returns the stored keys in unspecified order.
func (sc *Scope) Keys() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	keys := make([]string, 0, len(sc.entries))
	for k := range sc.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of stored entries.
func (sc *Scope) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.entries)
}
