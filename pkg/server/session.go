package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/patch"
	"github.com/vango-dev/reconcile/pkg/protocol"
	"github.com/vango-dev/reconcile/pkg/treefile"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Session is one remote host connection. Its arena mirrors what the
// client has been sent.
type Session struct {
	ID string

	conn   *websocket.Conn
	arena  *host.Arena
	engine *patch.Engine
	tree   *vdom.VNode
	seq    uint64
	logger *slog.Logger
}

// Tree returns the tree last applied. Like Seq it must not be called
// while the session is handling a message.
func (s *Session) Tree() *vdom.VNode {
	return s.tree
}

// Seq returns the sequence number of the last batch produced.
func (s *Session) Seq() uint64 {
	return s.seq
}

// apply decodes doc and patches the session tree to it. Document errors
// leave the session unchanged; patch errors leave the arena in an
// unknown state and are reported with fatal set.
func (s *Session) apply(ctx context.Context, doc []byte) (frames []*protocol.Frame, fatal bool, err error) {
	next, err := treefile.Parse(doc, treefile.FormatJSON)
	if err != nil {
		return nil, false, err
	}

	if _, err := s.engine.Patch(ctx, s.arena.Root(), s.tree, next); err != nil {
		return nil, true, err
	}
	s.tree = next
	s.seq++

	frames, err = protocol.BatchFrames(&protocol.Batch{
		Seq:       s.seq,
		Mutations: s.arena.Journal().Drain(),
	})
	if err != nil {
		return nil, true, err
	}
	return frames, false, nil
}

// SessionManager tracks open sessions.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	metrics *metrics.Collector
	logger  *slog.Logger
}

func newSessionManager(m *metrics.Collector, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		metrics:  m,
		logger:   logger,
	}
}

// create registers a session for conn.
func (sm *SessionManager) create(conn *websocket.Conn, arena *host.Arena, engine *patch.Engine, logger *slog.Logger) *Session {
	id := uuid.Must(uuid.NewV7()).String()
	s := &Session{
		ID:     id,
		conn:   conn,
		arena:  arena,
		engine: engine,
		logger: logger.With("session_id", id),
	}

	sm.mu.Lock()
	sm.sessions[id] = s
	sm.mu.Unlock()

	if sm.metrics != nil {
		sm.metrics.SessionOpened()
	}
	s.logger.Debug("session opened")
	return s
}

// Get returns the session with id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Count returns the number of open sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for each open session until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	for _, s := range sessions {
		if !fn(s) {
			return
		}
	}
}

// Close unregisters the session and closes its connection. Closing an
// unknown id is a no-op.
func (sm *SessionManager) Close(id string) {
	sm.mu.Lock()
	s, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if !ok {
		return
	}

	_ = s.conn.Close()
	if sm.metrics != nil {
		sm.metrics.SessionClosed()
	}
	s.logger.Debug("session closed")
}

// Shutdown closes every session.
func (sm *SessionManager) Shutdown() {
	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()

	for _, id := range ids {
		sm.Close(id)
	}
}
