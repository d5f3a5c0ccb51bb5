package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/rysunek/rysunek/internal/engine"
)

const saveTimeout = 10 * time.Second

// Hub tracks connected clients and saves their sessions when they leave or
// the server stops.
type Hub struct {
	docs Documents
	opts engine.Options

	mu         sync.RWMutex
	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(docs Documents, opts engine.Options) *Hub {
	return &Hub{
		docs:       docs,
		opts:       opts,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Open starts a session on drawingID for userID.
func (h *Hub) Open(ctx context.Context, drawingID, userID string) (*Session, error) {
	return Open(ctx, h.docs, h.opts, drawingID, userID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(client.session.Welcome(client.ClientID))

	slog.Info("client joined", "user", client.session.UserID, "drawing", client.session.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	close(client.send)
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := client.session.Save(ctx); err != nil {
		slog.Error("save on disconnect", "error", err, "drawing", client.session.DrawingID)
	}

	slog.Info("client left", "user", client.session.UserID, "drawing", client.session.DrawingID)
}

// Stop saves every open session and disconnects all clients.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		clients := make([]*Client, 0, len(h.clients))
		for _, c := range h.clients {
			clients = append(clients, c)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		for _, c := range clients {
			if err := c.session.Save(ctx); err != nil {
				slog.Error("save on shutdown", "error", err, "drawing", c.session.DrawingID)
			}
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		slog.Info("session hub stopped", "saved", len(clients))
	})
}
