package api

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/poiesic/layerscout/session"
)

// registry holds the live sessions of a server, keyed by ULID.
// Sessions live in memory only and vanish on restart.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session.Session)}
}

func (r *registry) add(s *session.Session) string {
	id := ulid.Make().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = s
	return id
}

func (r *registry) get(id string) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
