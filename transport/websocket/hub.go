package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

// Hub - connected clients and the groups they belong to.
//
// Sends never block: each client has a buffered queue drained by its write pump.
// A client whose queue is full is evicted, so it never stays in a session with a gap in its events.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
	}
}

func (that *Hub) register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.id] = client
}

// unregister - drops the client from every group and closes its queue.
func (that *Hub) unregister(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client.id]; !ok {
		return
	}

	delete(that.clients, client.id)
	for group, members := range that.groups {
		delete(members, client.id)
		if len(members) == 0 {
			delete(that.groups, group)
		}
	}

	close(client.send)
}

func (that *Hub) SendTo(connID string, event usecase.Event) {
	data, ok := that.encode(event)
	if !ok {
		return
	}

	that.mu.RLock()
	var slow []*Client
	if client, found := that.clients[connID]; found && !that.enqueue(client, data) {
		slow = append(slow, client)
	}
	that.mu.RUnlock()

	that.evict(slow, event.Action())
}

func (that *Hub) SendToGroup(group string, event usecase.Event) {
	data, ok := that.encode(event)
	if !ok {
		return
	}

	that.mu.RLock()
	var slow []*Client
	for connID := range that.groups[group] {
		if client, found := that.clients[connID]; found && !that.enqueue(client, data) {
			slow = append(slow, client)
		}
	}
	that.mu.RUnlock()

	that.evict(slow, event.Action())
}

func (that *Hub) Broadcast(event usecase.Event) {
	data, ok := that.encode(event)
	if !ok {
		return
	}

	that.mu.RLock()
	var slow []*Client
	for _, client := range that.clients {
		if !that.enqueue(client, data) {
			slow = append(slow, client)
		}
	}
	that.mu.RUnlock()

	that.evict(slow, event.Action())
}

func (that *Hub) AddToGroup(connID, group string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[connID]; !ok {
		return
	}

	if that.groups[group] == nil {
		that.groups[group] = make(map[string]struct{})
	}
	that.groups[group][connID] = struct{}{}
}

func (that *Hub) RemoveFromGroup(connID, group string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.groups[group]
	if !ok {
		return
	}

	delete(members, connID)
	if len(members) == 0 {
		delete(that.groups, group)
	}
}

func (that *Hub) RemoveGroup(group string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.groups, group)
}

func (that *Hub) ClientCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

func (that *Hub) encode(event usecase.Event) ([]byte, bool) {
	data, err := encodeEvent(event)
	if err != nil {
		that.logger.Error("failed to encode event", "action", event.Action(), "error", err)
		return nil, false
	}

	return data, true
}

// enqueue - caller holds at least the read lock, so the queue cannot be closed underneath.
// Returns false when the queue is full.
func (that *Hub) enqueue(client *Client, data []byte) bool {
	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

// evict - unregisters clients that cannot keep up. Closing the queue makes the write pump
// close the connection, and the read side then reports the disconnect.
func (that *Hub) evict(clients []*Client, action string) {
	for _, client := range clients {
		that.logger.Warn("send queue full, disconnecting client", "conn_id", client.id, "action", action)
		that.unregister(client)
	}
}
