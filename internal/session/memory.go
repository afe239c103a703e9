package session

import (
	"context"
	"sync"
)

// MemoryRegistry keeps sessions in process memory. Sessions are lost on restart.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*uint
}

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]*uint)}
}

func (r *MemoryRegistry) Resolve(_ context.Context, token string) (Session, bool, error) {
	if token != "" {
		r.mu.RLock()
		userID, ok := r.sessions[token]
		r.mu.RUnlock()
		if ok {
			return Session{Token: token, UserID: userID}, false, nil
		}
	}

	sess := Session{Token: NewToken()}
	r.mu.Lock()
	r.sessions[sess.Token] = nil
	r.mu.Unlock()
	return sess, true, nil
}

// Attach registers token if needed and binds it to userID.
func (r *MemoryRegistry) Attach(_ context.Context, token string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := userID
	r.sessions[token] = &id
	return nil
}

func (r *MemoryRegistry) Detach(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// Len returns the number of live sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
