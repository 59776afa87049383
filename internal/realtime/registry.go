package realtime

import (
	"sort"
	"sync"
)

// Registry is the authoritative in-memory map of who is reachable right now.
// One active connection per user: a newer handshake for the same identity
// replaces the older entry (last-connection-wins). Only the Hub mutates it;
// everything else reads through snapshots.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Client)}
}

// Put records userID -> c and returns the replaced connection, if any.
func (r *Registry) Put(userID string, c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.conns[userID]
	r.conns[userID] = c
	if old == c {
		return nil
	}
	return old
}

// Remove deletes the entry for userID, but only if c is still the current
// connection. A stale disconnect from a replaced connection must not evict
// its successor.
func (r *Registry) Remove(userID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[userID]; ok && cur == c {
		delete(r.conns, userID)
		return true
	}
	return false
}

// Get returns the active connection for userID, if present.
func (r *Registry) Get(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Online returns a sorted snapshot of the currently connected identities.
func (r *Registry) Online() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Clients returns a snapshot of all active connections for fan-out.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
