package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
)

// httpSession maintains state for a single MCP session in memory: its own
// capability catalog, dispatcher, and history log, plus the notification
// channel feeding the session's SSE stream. Sessions never share identifier
// history.
type httpSession struct {
	id     string
	server *Server
	notify chan *protocol.Notification

	// dispatchMu serializes request handling so responses within the
	// session follow arrival order.
	dispatchMu sync.Mutex

	closed    chan struct{}
	closeOnce sync.Once

	createdAt time.Time
	// lastUsed is guarded by the transport's sessionsMu.
	lastUsed time.Time
}

// close marks the session terminated. Safe to call more than once.
func (s *httpSession) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// notifyResourceUpdated pushes a resource update toward the session's event
// stream without blocking the triggering request.
func (s *httpSession) notifyResourceUpdated(_ context.Context, uri string) {
	note := protocol.NewNotification(protocol.MethodResourceUpdated, protocol.ResourceUpdatedParams{URI: uri})
	select {
	case s.notify <- note:
	case <-s.closed:
	default:
		log.Printf("session %s dropped resource update: stream backlog full", s.id)
	}
}

// createSession mints a fresh session with its own server state and records
// it in the registry. The token is never derived from client input.
func (t *HTTPTransport) createSession() (*httpSession, error) {
	session := &httpSession{
		id:        uuid.NewString(),
		notify:    make(chan *protocol.Notification, notifyBufferSize),
		closed:    make(chan struct{}),
		createdAt: time.Now(),
		lastUsed:  time.Now(),
	}

	server, err := NewServer(t.generator, session.notifyResourceUpdated)
	if err != nil {
		return nil, err
	}
	session.server = server

	t.sessionsMu.Lock()
	t.sessions[session.id] = session
	t.sessionsMu.Unlock()

	log.Printf("session %s created", session.id)
	return session, nil
}

// lookupSession resolves a presented token to a live session.
func (t *HTTPTransport) lookupSession(id string) (*httpSession, bool) {
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	session, ok := t.sessions[id]
	return session, ok
}

// touchSession refreshes the idle clock for a session.
func (t *HTTPTransport) touchSession(id string) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	if session, ok := t.sessions[id]; ok {
		session.lastUsed = time.Now()
	}
}

// closeSession removes and terminates a session. It reports whether the
// token named a live session, so callers can stay idempotent.
func (t *HTTPTransport) closeSession(id string) bool {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	session, ok := t.sessions[id]
	if !ok {
		return false
	}
	delete(t.sessions, id)
	session.close()
	return true
}

// closeAllSessions terminates every live session during shutdown.
func (t *HTTPTransport) closeAllSessions() {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	for id, session := range t.sessions {
		session.close()
		delete(t.sessions, id)
	}
}

// sessionCount reports how many sessions are live.
func (t *HTTPTransport) sessionCount() int {
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return len(t.sessions)
}

// cleanupSessions periodically removes sessions idle for longer than the
// transport TTL. A negative TTL disables expiry.
func (t *HTTPTransport) cleanupSessions(ctx context.Context) {
	if t.sessionTTL < 0 {
		return
	}
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-t.sessionTTL)
			t.sessionsMu.Lock()
			for id, session := range t.sessions {
				if session.lastUsed.Before(cutoff) {
					session.close()
					delete(t.sessions, id)
					log.Printf("session %s expired after inactivity", id)
				}
			}
			t.sessionsMu.Unlock()
		}
	}
}
