// Package live pushes lifecycle events to connected sessions. Delivery is at
// most once with no replay: a disconnected or saturated session misses events.
//
//	hub := live.NewHub(logger)
//	s := hub.Connect()
//	defer hub.Disconnect(s)
//	hub.Join(s, event.ParcelChannel(parcelID))
//	for m := range s.Outbox() {
//	    // write m to the wire
//	}
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parceltrack/internal/core/domain/event"
)

// Mirror receives a copy of every published event, for consumers outside
// this process.
type Mirror interface {
	Mirror(ctx context.Context, e event.Event)
}

// Hub implements ports.EventPublisher and owns the session registry.
type Hub struct {
	logger   *slog.Logger
	registry *Registry
	mirror   Mirror
	buffer   int
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[*Session]struct{}
	channels map[string]map[*Session]struct{}
}

type Option func(*Hub)

// WithMirror forwards every published event to m as well.
func WithMirror(m Mirror) Option {
	return func(h *Hub) { h.mirror = m }
}

func WithSessionBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.buffer = size
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

func NewHub(logger *slog.Logger, opts ...Option) *Hub {
	h := &Hub{
		logger:   logger.With("component", "LiveHub"),
		registry: NewRegistry(),
		buffer:   DefaultSessionBuffer,
		now:      time.Now,
		sessions: make(map[*Session]struct{}),
		channels: make(map[string]map[*Session]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Registry() *Registry { return h.registry }

func (h *Hub) Connect() *Session {
	s := newSession(h.buffer, h.now())

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	activeSessions.Inc()
	return s
}

// Disconnect leaves every channel, drops the registry entry if it still
// points at s and closes the outbox. Calling it twice is harmless.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	_, known := h.sessions[s]
	delete(h.sessions, s)
	for name, members := range h.channels {
		delete(members, s)
		if len(members) == 0 {
			delete(h.channels, name)
		}
	}
	h.mu.Unlock()

	h.registry.Unregister(s)
	if s.close() && known {
		activeSessions.Dec()
	}
}

// Login binds s to userID for user-targeted events.
func (h *Hub) Login(s *Session, userID string) {
	h.registry.Register(userID, s)
}

func (h *Hub) Join(s *Session, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s]; !ok {
		return
	}
	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*Session]struct{})
		h.channels[channel] = members
	}
	members[s] = struct{}{}
}

func (h *Hub) Leave(s *Session, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.channels[channel]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Send queues a direct reply to one session.
func (h *Hub) Send(s *Session, name string, data any) bool {
	return h.deliver(s, Message{Event: name, Data: data, Timestamp: h.now()})
}

// Publish implements ports.EventPublisher. It never blocks on a session.
func (h *Hub) Publish(ctx context.Context, e event.Event) {
	targets := h.targets(e)
	eventsPublished.WithLabelValues(e.Scope.String()).Inc()

	at := e.OccurredAt
	if at.IsZero() {
		at = h.now()
	}
	m := Message{Event: e.Name, Data: e.Payload, Timestamp: at}

	dropped := 0
	for _, s := range targets {
		if !h.deliver(s, m) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.DebugContext(ctx, "live event dropped", "event", e.Name, "sessions", dropped)
	}

	if h.mirror != nil {
		h.mirror.Mirror(ctx, e)
	}
}

// Sweep disconnects sessions idle for longer than idle and asks the rest to
// ping their peer. It returns how many sessions were disconnected.
func (h *Hub) Sweep(idle time.Duration) int {
	now := h.now()

	h.mu.RLock()
	all := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		all = append(all, s)
	}
	h.mu.RUnlock()

	swept := 0
	for _, s := range all {
		if s.idleSince(now) > idle {
			h.Disconnect(s)
			swept++
			continue
		}
		s.requestPing()
	}
	return swept
}

func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) targets(e event.Event) []*Session {
	switch e.Scope {
	case event.ScopeUser:
		if s, ok := h.registry.Resolve(e.Target); ok {
			return []*Session{s}
		}
		return nil
	case event.ScopeGlobal:
		h.mu.RLock()
		defer h.mu.RUnlock()
		out := make([]*Session, 0, len(h.sessions))
		for s := range h.sessions {
			out = append(out, s)
		}
		return out
	case event.ScopeParcel:
		h.mu.RLock()
		defer h.mu.RUnlock()
		members := h.channels[e.Target]
		out := make([]*Session, 0, len(members))
		for s := range members {
			out = append(out, s)
		}
		return out
	default:
		h.logger.Warn("event with unknown scope", "event", e.Name, "scope", int(e.Scope))
		return nil
	}
}

func (h *Hub) deliver(s *Session, m Message) bool {
	if s.offer(m) {
		return true
	}
	messagesDropped.Inc()
	return false
}
