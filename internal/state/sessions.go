package state

import (
	"sync"
)

// Sessions tracks live stream sessions so they can be counted and closed
// on shutdown. Hijacked connections are invisible to http.Server.Shutdown.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]session
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]session),
	}
}

func (s *Sessions) Add(sess session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
}

// Remove forgets a session. It reports whether the session was tracked.
func (s *Sessions) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[id]; exists {
		delete(s.sessions, id)
		return true
	}
	return false
}

func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseAll closes every tracked session and returns how many were closed.
func (s *Sessions) CloseAll() int {
	s.mu.RLock()
	live := make([]session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.RUnlock()

	// Close outside the lock: sessions remove themselves as they end.
	for _, sess := range live {
		sess.Close()
	}
	return len(live)
}
