package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rysunek/rysunek/internal/drawing"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// Handler upgrades /ws/drawing/{drawingId} requests into editing sessions.
// Browsers cannot set headers on websocket requests, so the token travels
// in the query string.
type Handler struct {
	hub            *Hub
	auth           TokenValidator
	originPatterns []string
}

func NewHandler(hub *Hub, auth TokenValidator, originPatterns []string) *Handler {
	return &Handler{hub: hub, auth: auth, originPatterns: originPatterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	sess, err := h.hub.Open(r.Context(), drawingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, drawing.ErrNotFound):
			http.Error(w, "drawing not found", http.StatusNotFound)
		case errors.Is(err, drawing.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			slog.Error("open session", "error", err, "drawing", drawingID)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, sess, uuid.New().String())

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
