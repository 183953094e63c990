package live

import "sync"

// Registry maps a user to the session it connected with most recently.
// Registering again replaces the old entry; unregistering a replaced
// session leaves the newer one alone.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Session)}
}

func (r *Registry) Register(userID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous := s.UserID(); previous != "" && previous != userID && r.byUser[previous] == s {
		delete(r.byUser, previous)
	}
	s.setUserID(userID)
	r.byUser[userID] = s
}

func (r *Registry) Resolve(userID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byUser[userID]
	return s, ok
}

func (r *Registry) Unregister(s *Session) {
	userID := s.UserID()
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byUser[userID] == s {
		delete(r.byUser, userID)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
