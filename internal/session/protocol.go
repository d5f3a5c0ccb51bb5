package session

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

type KeyPayload struct {
	Key string `json:"key"`
}

type ColorPayload struct {
	Color string `json:"color"`
}

type WelcomePayload struct {
	ClientID  string          `json:"clientId"`
	DrawingID string          `json:"drawingId"`
	State     json.RawMessage `json:"state"`
	Document  json.RawMessage `json:"document"`
}

type FramePayload struct {
	Commands json.RawMessage `json:"commands"`
	State    json.RawMessage `json:"state"`
}

type SavedPayload struct {
	DrawingID string `json:"drawingId"`
	Shapes    int    `json:"shapes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// Client → server
	TypePointerPress   = "pointer.press"
	TypePointerDrag    = "pointer.drag"
	TypePointerRelease = "pointer.release"
	TypeToolSet        = "tool.set"
	TypeKey            = "key"
	TypeColorFill      = "color.fill"
	TypeColorLine      = "color.line"
	TypeSave           = "save"

	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeSaved   = "saved"
	TypeError   = "error"
)

func newMessage(typ string, payload interface{}) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(ErrorPayload{Message: err.Error()})
		typ = TypeError
	}
	return &Message{Type: typ, Payload: data}
}

func errorMessage(text string) *Message {
	return newMessage(TypeError, ErrorPayload{Message: text})
}
