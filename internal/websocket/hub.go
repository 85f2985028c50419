package websocket

import (
	"sync"

	"ipecd-chatbot-be/internal/pkg/logger"
)

// Hub tracks live chat connections keyed by session id. One session can
// have several tabs open; a pushed message reaches all of them.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("WEBSOCKET", "client connected", map[string]interface{}{
				"session": client.SessionID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			conns := h.clients[client.SessionID]
			for i, c := range conns {
				if c == client {
					h.clients[client.SessionID] = append(conns[:i], conns[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
			h.logger.Info("WEBSOCKET", "client disconnected", map[string]interface{}{
				"session": client.SessionID,
			})
		}
	}
}

// SendToSession pushes a payload to every connection of the session.
// Slow consumers are skipped rather than blocking the hub.
func (h *Hub) SendToSession(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// CountClients reports the number of open connections.
func (h *Hub) CountClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
