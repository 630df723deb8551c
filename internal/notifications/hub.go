// Package notifications streams request lifecycle events to connected admin
// dashboard websockets.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"sunseeker/internal/models"
	"sunseeker/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// A single admin may keep several dashboard tabs open.
const maxConns = 16

// Event is a lifecycle change pushed to the admin dashboard.
type Event struct {
	Type      string               `json:"type"`
	RequestID uint                 `json:"request_id"`
	Status    models.RequestStatus `json:"status"`
	At        time.Time            `json:"at"`
}

// Event types published by the API handlers.
const (
	EventRequestSubmitted = "request_submitted"
	EventRequestVerified  = "request_verified"
)

// Hub fans lifecycle events out to every connected dashboard socket.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates an empty admin feed hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a dashboard connection to the feed.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) >= maxConns {
		return nil, errors.New("dashboard connection limit reached")
	}

	client := newClient(h, conn)
	h.clients[client] = struct{}{}
	observability.ActiveAdminFeeds.Set(float64(len(h.clients)))
	return client, nil
}

// UnregisterClient removes a dashboard connection from the feed.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		observability.ActiveAdminFeeds.Set(float64(len(h.clients)))
	}
}

// Publish sends an event to every connected dashboard. Events to slow
// clients are dropped rather than blocking the request path.
func (h *Hub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("admin feed: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.TrySend(data)
	}
}

// ConnectionCount returns the number of connected dashboard sockets.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every dashboard connection.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			_ = client.Conn.Close()
		}
		delete(h.clients, client)
	}
	observability.ActiveAdminFeeds.Set(0)
	return nil
}
