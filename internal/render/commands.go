package render

import (
	"encoding/json"

	"github.com/rysunek/rysunek/internal/geometry"
)

// DrawCommand represents a single drawing operation for a remote host to execute.
// The browser client receives a list of these and replays them on a Canvas2D context.
type DrawCommand struct {
	Op        string           `json:"op"`                  // Operation: "save", "restore", "rect", "disk", "lineStrip"
	Transform []float64        `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	Color     string           `json:"color,omitempty"`     // #rrggbbaa
	Filled    bool             `json:"filled,omitempty"`
	Rect      []float64        `json:"rect,omitempty"` // x0, y0, x1, y1
	Center    *geometry.Point  `json:"center,omitempty"`
	Radius    float64          `json:"radius,omitempty"`
	Points    []geometry.Point `json:"points,omitempty"`
}

type recorderState struct {
	matrix Matrix2D
	color  Color
}

// Recorder implements Renderer by compiling calls into a DrawCommand buffer.
// Primitive coordinates are kept local; each primitive carries the transform
// active when it was issued.
type Recorder struct {
	cur      recorderState
	stack    []recorderState
	commands []DrawCommand
}

// NewRecorder returns an empty recorder with the identity transform.
func NewRecorder() *Recorder {
	return &Recorder{cur: recorderState{matrix: Identity(), color: Black}}
}

func (r *Recorder) Push() {
	r.stack = append(r.stack, r.cur)
	r.commands = append(r.commands, DrawCommand{Op: "save"})
}

// Pop restores the last pushed state. An unbalanced Pop is ignored.
func (r *Recorder) Pop() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.commands = append(r.commands, DrawCommand{Op: "restore"})
}

func (r *Recorder) Translate(x, y float64) {
	r.cur.matrix = r.cur.matrix.Multiply(TranslateMatrix(x, y))
}

func (r *Recorder) Scale(x, y float64) {
	r.cur.matrix = r.cur.matrix.Multiply(ScaleMatrix(x, y))
}

func (r *Recorder) SetColor(c Color) {
	r.cur.color = c
}

func (r *Recorder) Rect(x0, y0, x1, y1 float64, filled bool) {
	r.emit(DrawCommand{Op: "rect", Filled: filled, Rect: []float64{x0, y0, x1, y1}})
}

func (r *Recorder) Disk(x, y, radius float64, filled bool) {
	r.emit(DrawCommand{Op: "disk", Filled: filled, Center: &geometry.Point{X: x, Y: y}, Radius: radius})
}

func (r *Recorder) LineStrip(pts []geometry.Point) {
	if len(pts) == 0 {
		return
	}
	r.emit(DrawCommand{Op: "lineStrip", Points: append([]geometry.Point(nil), pts...)})
}

func (r *Recorder) emit(cmd DrawCommand) {
	if !r.cur.matrix.IsIdentity() {
		cmd.Transform = r.cur.matrix.ToSlice()
	}
	cmd.Color = r.cur.color.Hex()
	r.commands = append(r.commands, cmd)
}

// Depth returns the number of unmatched Push calls.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

// Matrix returns the current transform.
func (r *Recorder) Matrix() Matrix2D {
	return r.cur.matrix
}

// Commands returns the recorded buffer in painter's order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset clears the buffer and transform stack.
func (r *Recorder) Reset() {
	*r = *NewRecorder()
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
