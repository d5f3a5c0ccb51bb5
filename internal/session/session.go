// Package session runs single-user editing sessions over websockets. Each
// connection owns an engine; pointer, tool and color messages drive it and
// every change is answered with a frame of draw commands.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/rysunek/rysunek/internal/document"
	"github.com/rysunek/rysunek/internal/engine"
	"github.com/rysunek/rysunek/internal/render"
)

// Documents loads and stores drawing documents on behalf of a user.
type Documents interface {
	Document(ctx context.Context, drawingID, userID string) (*document.Document, error)
	SaveDocument(ctx context.Context, drawingID, userID string, doc *document.Document) error
}

// Session is one user editing one drawing.
type Session struct {
	DrawingID string
	UserID    string

	docs Documents

	mu     sync.Mutex
	engine *engine.Engine
}

// Open loads drawingID into a fresh engine.
func Open(ctx context.Context, docs Documents, opts engine.Options, drawingID, userID string) (*Session, error) {
	doc, err := docs.Document(ctx, drawingID, userID)
	if err != nil {
		return nil, fmt.Errorf("open drawing: %w", err)
	}

	e := engine.NewEngine(opts)
	if err := e.LoadDocument(doc); err != nil {
		return nil, fmt.Errorf("open drawing %s: %w", drawingID, err)
	}

	return &Session{
		DrawingID: drawingID,
		UserID:    userID,
		docs:      docs,
		engine:    e,
	}, nil
}

// Welcome describes the session to a newly connected client.
func (s *Session) Welcome(clientID string) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := newMessage(TypeWelcome, WelcomePayload{
		ClientID:  clientID,
		DrawingID: s.DrawingID,
		State:     json.RawMessage(s.engine.GetState()),
		Document:  json.RawMessage(s.engine.GetDocument()),
	})
	msg.DrawingID = s.DrawingID
	return msg
}

// Handle applies msg and returns the replies for the client.
func (s *Session) Handle(ctx context.Context, msg *Message) []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch msg.Type {
	case TypePointerPress, TypePointerDrag, TypePointerRelease:
		err = s.pointer(msg)
	case TypeToolSet:
		var p ToolPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = s.engine.SetActiveToolByName(p.Tool)
		}
	case TypeKey:
		err = s.key(msg)
	case TypeColorFill, TypeColorLine:
		err = s.color(msg)
	case TypeSave:
		if err := s.saveLocked(ctx); err != nil {
			slog.Error("save drawing", "error", err, "drawing", s.DrawingID)
			return []*Message{errorMessage("save failed")}
		}
		return []*Message{newMessage(TypeSaved, SavedPayload{
			DrawingID: s.DrawingID,
			Shapes:    s.engine.Scene().Len(),
		})}
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", s.UserID)
		return []*Message{errorMessage("unknown message type: " + msg.Type)}
	}

	if err != nil {
		return []*Message{errorMessage(err.Error())}
	}
	return []*Message{s.frameLocked()}
}

func (s *Session) pointer(msg *Message) error {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return fmt.Errorf("invalid pointer payload: %w", err)
	}
	switch msg.Type {
	case TypePointerPress:
		s.engine.OnPress(p.X, p.Y)
	case TypePointerDrag:
		s.engine.OnDrag(p.X, p.Y)
	case TypePointerRelease:
		s.engine.OnRelease(p.X, p.Y)
	}
	return nil
}

func (s *Session) key(msg *Message) error {
	var p KeyPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return fmt.Errorf("invalid key payload: %w", err)
	}
	r, size := utf8.DecodeRuneInString(p.Key)
	if r == utf8.RuneError || size != len(p.Key) {
		return errors.New("key must be a single character")
	}
	// Unbound keys are ignored
	s.engine.KeyPress(r)
	return nil
}

func (s *Session) color(msg *Message) error {
	var p ColorPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return fmt.Errorf("invalid color payload: %w", err)
	}
	c, err := render.ParseHex(p.Color)
	if err != nil {
		return err
	}
	if msg.Type == TypeColorFill {
		s.engine.SetFillColor(c)
	} else {
		s.engine.SetLineColor(c)
	}
	return nil
}

func (s *Session) frameLocked() *Message {
	commands, err := s.engine.RenderCommands()
	if err != nil {
		return errorMessage(err.Error())
	}
	return newMessage(TypeFrame, FramePayload{
		Commands: json.RawMessage(commands),
		State:    json.RawMessage(s.engine.GetState()),
	})
}

// Save stores the document if it changed since the last save.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Session) saveLocked(ctx context.Context) error {
	if !s.engine.Dirty() {
		return nil
	}
	if err := s.docs.SaveDocument(ctx, s.DrawingID, s.UserID, s.engine.Document()); err != nil {
		return fmt.Errorf("save drawing %s: %w", s.DrawingID, err)
	}
	s.engine.MarkClean()
	slog.Debug("drawing saved", "drawing", s.DrawingID, "shapes", s.engine.Scene().Len())
	return nil
}
