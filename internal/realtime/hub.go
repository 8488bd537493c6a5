package realtime

import (
	"encoding/json"
	"sync"
)

// Client is one live connection of a user. The network side is owned by the
// websocket handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the envelope pushed to clients.
type Event struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	Payload any    `json:"payload,omitempty"`
	Version int    `json:"version"`
}

// Hub tracks live clients per user and fans messages out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

// NewHub returns an empty hub. One hub is created per server and injected.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[Client]struct{})}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client and drops the user entry once it is empty.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Connected returns how many clients a user has open.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends a raw message to every client of a user and returns how many
// accepted it. Failed clients are cleaned up by their handler.
func (h *Hub) Broadcast(userID string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients[userID] {
		if c.Send(message) {
			delivered++
		}
	}
	return delivered
}

// Publish encodes evt and broadcasts it to evt.UserID.
func (h *Hub) Publish(evt Event) (int, error) {
	if evt.Version == 0 {
		evt.Version = 1
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(evt.UserID, data), nil
}
