package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"

	"github.com/rysunek/rysunek/internal/document"
	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/drawing"
	"github.com/rysunek/rysunek/internal/engine"
	"github.com/rysunek/rysunek/internal/render"
)

type memDocs struct {
	mu    sync.Mutex
	owner string
	docs  map[string]*document.Document
	saves int
	saved chan *document.Document
}

func newMemDocs(owner string, ids ...string) *memDocs {
	m := &memDocs{
		owner: owner,
		docs:  map[string]*document.Document{},
		saved: make(chan *document.Document, 16),
	}
	for _, id := range ids {
		m.docs[id] = document.New(id, id, 800, 500, render.White)
	}
	return m
}

func (m *memDocs) Document(_ context.Context, drawingID, userID string) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[drawingID]
	if !ok {
		return nil, drawing.ErrNotFound
	}
	if userID != m.owner {
		return nil, drawing.ErrForbidden
	}
	cp := *doc
	return &cp, nil
}

func (m *memDocs) SaveDocument(_ context.Context, drawingID, userID string, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if userID != m.owner {
		return drawing.ErrForbidden
	}
	m.docs[drawingID] = doc
	m.saves++
	m.saved <- doc
	return nil
}

func (m *memDocs) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func msg(t *testing.T, typ string, payload interface{}) *Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &Message{Type: typ, Payload: data}
}

func only(t *testing.T, replies []*Message) *Message {
	t.Helper()
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	return replies[0]
}

func openTestSession(t *testing.T, docs *memDocs) *Session {
	t.Helper()
	s, err := Open(context.Background(), docs, engine.DefaultOptions(), "drw_1", "user_a")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestOpenErrors(t *testing.T) {
	docs := newMemDocs("user_a", "drw_1")
	ctx := context.Background()

	if _, err := Open(ctx, docs, engine.DefaultOptions(), "drw_missing", "user_a"); !errors.Is(err, drawing.ErrNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := Open(ctx, docs, engine.DefaultOptions(), "drw_1", "user_b"); !errors.Is(err, drawing.ErrForbidden) {
		t.Errorf("Open(other user) error = %v, want ErrForbidden", err)
	}
}

func TestDrawAndSave(t *testing.T) {
	docs := newMemDocs("user_a", "drw_1")
	s := openTestSession(t, docs)
	ctx := context.Background()

	for _, m := range []*Message{
		msg(t, TypePointerPress, PointerPayload{X: 10, Y: 10}),
		msg(t, TypePointerDrag, PointerPayload{X: 50, Y: 40}),
		msg(t, TypePointerRelease, PointerPayload{X: 50, Y: 40}),
	} {
		reply := only(t, s.Handle(ctx, m))
		if reply.Type != TypeFrame {
			t.Fatalf("%s reply = %s (%s), want frame", m.Type, reply.Type, reply.Payload)
		}
	}

	var frame FramePayload
	reply := only(t, s.Handle(ctx, msg(t, TypePointerDrag, PointerPayload{X: 60, Y: 60})))
	if err := json.Unmarshal(reply.Payload, &frame); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	var commands []render.DrawCommand
	if err := json.Unmarshal(frame.Commands, &commands); err != nil || len(commands) == 0 {
		t.Fatalf("frame commands = %s, %v", frame.Commands, err)
	}

	reply = only(t, s.Handle(ctx, &Message{Type: TypeSave}))
	if reply.Type != TypeSaved {
		t.Fatalf("save reply = %s (%s)", reply.Type, reply.Payload)
	}
	var saved SavedPayload
	if err := json.Unmarshal(reply.Payload, &saved); err != nil || saved.Shapes != 1 {
		t.Errorf("saved = %+v, %v, want one shape", saved, err)
	}
	if docs.saveCount() != 1 || len(docs.docs["drw_1"].Shapes) != 1 {
		t.Errorf("store has %d saves and %d shapes", docs.saveCount(), len(docs.docs["drw_1"].Shapes))
	}

	// Nothing changed, nothing written
	only(t, s.Handle(ctx, &Message{Type: TypeSave}))
	if docs.saveCount() != 1 {
		t.Errorf("clean save wrote again, saves = %d", docs.saveCount())
	}
}

func TestHandleSettings(t *testing.T) {
	docs := newMemDocs("user_a", "drw_1")
	s := openTestSession(t, docs)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"tool by name", msg(t, TypeToolSet, ToolPayload{Tool: "Ellipse"}), TypeFrame},
		{"unknown tool", msg(t, TypeToolSet, ToolPayload{Tool: "hexagon"}), TypeError},
		{"shortcut", msg(t, TypeKey, KeyPayload{Key: "m"}), TypeFrame},
		{"unbound key", msg(t, TypeKey, KeyPayload{Key: "q"}), TypeFrame},
		{"two keys", msg(t, TypeKey, KeyPayload{Key: "mx"}), TypeError},
		{"fill color", msg(t, TypeColorFill, ColorPayload{Color: "#ff0000"}), TypeFrame},
		{"line color", msg(t, TypeColorLine, ColorPayload{Color: "#00ff00"}), TypeFrame},
		{"bad color", msg(t, TypeColorFill, ColorPayload{Color: "red"}), TypeError},
		{"bad pointer", &Message{Type: TypePointerPress, Payload: json.RawMessage(`"x"`)}, TypeError},
		{"unknown type", &Message{Type: "shape.rotate"}, TypeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := only(t, s.Handle(ctx, tt.msg))
			if reply.Type != tt.want {
				t.Errorf("reply = %s (%s), want %s", reply.Type, reply.Payload, tt.want)
			}
		})
	}

	if got := s.engine.ActiveTool().String(); got != "move" {
		t.Errorf("active tool = %s, want move", got)
	}
	if got := s.engine.FillColor().Hex(); got != "#ff0000ff" {
		t.Errorf("fill color = %s, want #ff0000ff", got)
	}
	if got := s.engine.LineColor().Hex(); got != "#00ff00ff" {
		t.Errorf("line color = %s, want #00ff00ff", got)
	}
}

type tokens map[string]string

func (tk tokens) ValidateToken(token string) (string, error) {
	if id, ok := tk[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func newTestServer(t *testing.T, docs *memDocs) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(docs, engine.DefaultOptions())
	go hub.Run()

	r := mux.NewRouter()
	r.Handle("/ws/drawing/{drawingId}", NewHandler(hub, tokens{"a": "user_a", "b": "user_b"}, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	// cleanups run last-in first-out, so sessions close before the server
	t.Cleanup(hub.Stop)
	return hub, srv
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) Message {
	t.Helper()
	var m Message
	if err := wsjson.Read(ctx, conn, &m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func waitSaved(t *testing.T, docs *memDocs) *document.Document {
	t.Helper()
	select {
	case doc := <-docs.saved:
		return doc
	case <-time.After(5 * time.Second):
		t.Fatal("document was not saved")
		return nil
	}
}

func TestHandlerRejects(t *testing.T) {
	docs := newMemDocs("user_a", "drw_1")
	_, srv := newTestServer(t, docs)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing token", "/ws/drawing/drw_1", http.StatusUnauthorized},
		{"bad token", "/ws/drawing/drw_1?token=zzz", http.StatusUnauthorized},
		{"other user", "/ws/drawing/drw_1?token=b", http.StatusForbidden},
		{"missing drawing", "/ws/drawing/drw_2?token=a", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestWebSocketSession(t *testing.T) {
	docs := newMemDocs("user_a", "drw_1")
	hub, srv := newTestServer(t, docs)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL+"/ws/drawing/drw_1?token=a", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	welcome := readMessage(t, ctx, conn)
	if welcome.Type != TypeWelcome || welcome.DrawingID != "drw_1" {
		t.Fatalf("first message = %s for %q, want welcome", welcome.Type, welcome.DrawingID)
	}
	if hub.Len() != 1 {
		t.Errorf("hub.Len() = %d, want 1", hub.Len())
	}

	for _, m := range []*Message{
		msg(t, TypeToolSet, ToolPayload{Tool: "ellipse"}),
		msg(t, TypePointerPress, PointerPayload{X: 100, Y: 100}),
		msg(t, TypePointerDrag, PointerPayload{X: 140, Y: 120}),
		msg(t, TypePointerRelease, PointerPayload{X: 140, Y: 120}),
	} {
		if err := wsjson.Write(ctx, conn, m); err != nil {
			t.Fatalf("write %s: %v", m.Type, err)
		}
		if reply := readMessage(t, ctx, conn); reply.Type != TypeFrame {
			t.Fatalf("%s reply = %s (%s)", m.Type, reply.Type, reply.Payload)
		}
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if reply := readMessage(t, ctx, conn); reply.Type != TypeError {
		t.Errorf("garbage reply = %s, want error", reply.Type)
	}

	conn.Close(websocket.StatusNormalClosure, "")

	doc := waitSaved(t, docs)
	if len(doc.Shapes) != 1 || doc.Shapes[0].Kind != drawable.KindEllipse {
		t.Errorf("saved shapes = %+v, want one ellipse", doc.Shapes)
	}
}

func TestStopSavesOpenSessions(t *testing.T) {
	docs := newMemDocs("user_a", "drw_1")
	hub, srv := newTestServer(t, docs)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL+"/ws/drawing/drw_1?token=a", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.CloseNow()

	readMessage(t, ctx, conn)
	for _, m := range []*Message{
		msg(t, TypePointerPress, PointerPayload{X: 10, Y: 10}),
		msg(t, TypePointerRelease, PointerPayload{X: 30, Y: 30}),
	} {
		if err := wsjson.Write(ctx, conn, m); err != nil {
			t.Fatalf("write %s: %v", m.Type, err)
		}
		readMessage(t, ctx, conn)
	}

	hub.Stop()

	if doc := waitSaved(t, docs); len(doc.Shapes) != 1 {
		t.Errorf("saved %d shapes on stop, want 1", len(doc.Shapes))
	}
	if hub.Len() != 0 {
		t.Errorf("hub.Len() = %d after Stop, want 0", hub.Len())
	}
}
