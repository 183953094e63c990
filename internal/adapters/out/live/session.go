package live

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionBuffer is how many outbound messages a session may queue
// before new ones are dropped.
const DefaultSessionBuffer = 64

// Message is what a session receives: a published event or a direct reply.
type Message struct {
	Event     string    `json:"event"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one live connection. The transport drains Outbox and watches
// Pings; the hub only ever enqueues without blocking.
type Session struct {
	id string

	mu       sync.Mutex
	outbox   chan Message
	pings    chan struct{}
	closed   bool
	userID   string
	lastSeen time.Time
}

func newSession(buffer int, now time.Time) *Session {
	return &Session{
		id:       uuid.NewString(),
		outbox:   make(chan Message, buffer),
		pings:    make(chan struct{}, 1),
		lastSeen: now,
	}
}

func (s *Session) ID() string { return s.id }

// Outbox is closed when the session is disconnected.
func (s *Session) Outbox() <-chan Message { return s.outbox }

// Pings signals the transport to probe the peer.
func (s *Session) Pings() <-chan struct{} { return s.pings }

// UserID is the identity bound by the last login, or "".
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Touch records inbound activity from the peer.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) setUserID(id string) {
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
}

// offer enqueues m unless the buffer is full or the session is closed.
func (s *Session) offer(m Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.outbox <- m:
		return true
	default:
		return false
	}
}

func (s *Session) requestPing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.pings <- struct{}{}:
	default:
	}
}

// close reports false if the session was already closed.
func (s *Session) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	close(s.outbox)
	return true
}
