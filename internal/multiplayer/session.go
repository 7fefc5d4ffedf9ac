package multiplayer

import "sync"

// SessionHandle is how the coordinator and matches reach a session.
type SessionHandle interface {
	ID() SessionID
	// Send must not block.
	Send(evt SessionEvent)
	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel; the TUI
// reads Events from it.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session buffering up to size events
// (64 when size < 1).
func NewChannelSession(id SessionID, size int) *ChannelSession {
	if size < 1 {
		size = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, size),
		done:   make(chan struct{}),
	}
}

// ID implements SessionHandle.
func (s *ChannelSession) ID() SessionID { return s.id }

// Done implements SessionHandle.
func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Events is the receive side for the session's UI.
func (s *ChannelSession) Events() <-chan SessionEvent { return s.events }

// Send implements SessionHandle. When the buffer is full the oldest event
// is discarded; snapshots supersede each other so losing one is harmless.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	for range 2 {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() { close(s.done) })
}

// SessionRegistry tracks connected sessions by id.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

// Register adds a session.
func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks a session up.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
