package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/50RISHU/E-Sport-Calc/models"
)

// SnapshotMessage is what connected clients receive after every store
// mutation: the full tournament collection.
type SnapshotMessage struct {
	Type    string              `json:"type"`
	Payload []models.Tournament `json:"payload"`
}

const messageTypeSnapshot = "TOURNAMENTS_UPDATED"

// Hub fans store snapshots out to connected websocket clients. It is wired to
// the store through BroadcastSnapshot, which the store invokes via its
// subscriber hook.
type Hub struct {
	logger *slog.Logger

	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte

	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("live client connected", slog.Int("clients", h.clientCount()))

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("live client disconnected", slog.Int("clients", h.clientCount()))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop this frame for it. The next
					// snapshot carries the full state anyway.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastSnapshot marshals the collection and queues it for every client.
// Safe to call from the store's synchronous notification path: delivery to
// sockets happens on the hub's goroutine.
func (h *Hub) BroadcastSnapshot(tournaments []models.Tournament) {
	raw, err := json.Marshal(SnapshotMessage{Type: messageTypeSnapshot, Payload: tournaments})
	if err != nil {
		h.logger.Error("failed to marshal snapshot message", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		h.logger.Warn("live broadcast queue full, dropping snapshot")
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
