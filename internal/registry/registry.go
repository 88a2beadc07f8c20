package registry

import (
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Registry - in-memory index of live sessions and the connections bound to them.
//
// The registry lock only guards its maps. It is never held while a session lock is taken.
type Registry struct {
	mu sync.RWMutex

	sessions    map[string]*entity.Session
	connections map[string]string
}

func New() *Registry {
	return &Registry{
		sessions:    make(map[string]*entity.Session),
		connections: make(map[string]string),
	}
}

// Register - adds the session unless its id is already taken.
func (that *Registry) Register(session *entity.Session) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.sessions[session.ID()]; exists {
		return false
	}

	that.sessions[session.ID()] = session

	return true
}

func (that *Registry) Lookup(id string) (*entity.Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	return session, ok
}

func (that *Registry) Contains(id string) bool {
	_, ok := that.Lookup(id)
	return ok
}

// Remove - deletes the session and every connection still bound to it.
func (that *Registry) Remove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)

	for connID, sessionID := range that.connections {
		if sessionID == id {
			delete(that.connections, connID)
		}
	}
}

// Bind - a connection is bound to at most one session; binding again replaces the old one.
func (that *Registry) Bind(connID, sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections[connID] = sessionID
}

func (that *Registry) Unbind(connID string) (string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sessionID, ok := that.connections[connID]
	if ok {
		delete(that.connections, connID)
	}

	return sessionID, ok
}

func (that *Registry) BoundSession(connID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sessionID, ok := that.connections[connID]
	return sessionID, ok
}

func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// Sessions - copy of the registered sessions, in no particular order.
func (that *Registry) Sessions() []*entity.Session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(that.sessions))
	for _, session := range that.sessions {
		sessions = append(sessions, session)
	}

	return sessions
}

// ListAvailable - waiting sessions with a free seat, newest first.
func (that *Registry) ListAvailable() []entity.SessionSnapshot {
	available := make([]entity.SessionSnapshot, 0)

	for _, session := range that.Sessions() {
		session.Lock()
		if session.IsAvailable() {
			available = append(available, session.Snapshot())
		}
		session.Unlock()
	}

	sort.SliceStable(available, func(i, j int) bool {
		if available[i].CreatedAt.Equal(available[j].CreatedAt) {
			return available[i].ID < available[j].ID
		}
		return available[i].CreatedAt.After(available[j].CreatedAt)
	})

	return available
}
