// Package registry tracks the "current" logger connection per caller
// identity, so that independent call sites can send and inject packets
// without threading a connection through every signature.
//
// Identities are explicit caller-chosen keys (one per goroutine or task),
// never hidden runtime thread ids; passing a connection explicitly remains
// the primary API and the registry is an opt-in convenience on top.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// Conn is the send side of a logger connection. *logger.Conn satisfies it.
type Conn interface {
	Send(payload string) error
	Receive(payload string) error
}

// Sentinel errors for registry lookups.
var (
	// ErrNoConn reports a send or inject through an identity with no
	// current connection.
	ErrNoConn = errors.New("no active logger connection")

	// ErrNotRegistered reports an Unset of an identity that has no mapping.
	// Unbalanced set/unset pairs are caller bugs and are surfaced rather
	// than swallowed.
	ErrNotRegistered = errors.New("identity has no registered connection")
)

// Registry is a concurrency-safe identity→connection table. Each identity
// maps to at most one connection; setting again overwrites.
type Registry struct {
	mu    sync.Mutex
	conns map[string]Conn
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Set makes c the current connection for id, replacing any prior mapping.
func (r *Registry) Set(id string, c Conn) {
	r.mu.Lock()
	r.conns[id] = c
	r.mu.Unlock()
}

// Unset removes id's mapping. Removing an identity that was never set (or
// was already unset) returns ErrNotRegistered.
func (r *Registry) Unset(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotRegistered, id)
	}
	delete(r.conns, id)
	return nil
}

// Current returns id's current connection, if any.
func (r *Registry) Current(id string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[id]
	return c, ok
}

// Send writes an outbound packet through id's current connection.
func (r *Registry) Send(id, payload string) error {
	c, ok := r.Current(id)
	if !ok {
		return fmt.Errorf("%w for %q", ErrNoConn, id)
	}
	return c.Send(payload)
}

// Receive injects an inbound packet through id's current connection.
func (r *Registry) Receive(id, payload string) error {
	c, ok := r.Current(id)
	if !ok {
		return fmt.Errorf("%w for %q", ErrNoConn, id)
	}
	return c.Receive(payload)
}

// With runs fn with c registered as id's current connection and guarantees
// the mapping is removed when fn returns, even on failure or panic.
func (r *Registry) With(id string, c Conn, fn func() error) error {
	r.Set(id, c)
	defer func() { _ = r.Unset(id) }()
	return fn()
}
