// Package drawing manages stored drawings: ownership, the persisted
// document and PNG thumbnails.
package drawing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rysunek/rysunek/internal/document"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/store"
	"github.com/rysunek/rysunek/internal/typeid"
)

var (
	ErrNotFound        = errors.New("drawing not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDocument = errors.New("invalid document")
)

// Repository is the part of the store the drawing service needs.
type Repository interface {
	CreateDrawing(ctx context.Context, d store.Drawing) (store.Drawing, error)
	GetDrawing(ctx context.Context, id string) (store.Drawing, error)
	ListDrawings(ctx context.Context, ownerID string) ([]store.Drawing, error)
	UpdateDrawingDocument(ctx context.Context, id string, document []byte) error
	DeleteDrawing(ctx context.Context, id string) error
}

// Canvas is the size and background of newly created drawings.
type Canvas struct {
	Width      int
	Height     int
	Background render.Color
}

type Service struct {
	repo   Repository
	canvas Canvas
}

func NewService(repo Repository, canvas Canvas) *Service {
	return &Service{repo: repo, canvas: canvas}
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Drawing, error) {
	drawingID := typeid.NewDrawingID()

	// Seed an empty document
	doc := document.New(drawingID, name, s.canvas.Width, s.canvas.Height, s.canvas.Background)
	docJSON, err := document.Marshal(doc)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.CreateDrawing(ctx, store.Drawing{
		ID:       drawingID,
		OwnerID:  ownerID,
		Name:     name,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	return toDrawing(row), nil
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*Drawing, error) {
	row, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	return toDrawing(row), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Drawing, error) {
	rows, err := s.repo.ListDrawings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := make([]Drawing, len(rows))
	for i, row := range rows {
		drawings[i] = *toDrawing(row)
	}
	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteDrawing(ctx, drawingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

// Document loads the stored document of a drawing.
func (s *Service) Document(ctx context.Context, drawingID, userID string) (*document.Document, error) {
	row, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(row.Document)
	if err != nil {
		return nil, fmt.Errorf("drawing %s: %w", drawingID, err)
	}
	return doc, nil
}

// SaveDocument replaces the stored document. Documents with shapes that
// cannot be rebuilt are rejected with ErrInvalidDocument.
func (s *Service) SaveDocument(ctx context.Context, drawingID, userID string, doc *document.Document) error {
	if doc.Version != document.Version {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, document.ErrUnsupportedVersion)
	}
	if _, err := doc.Drawables(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return err
	}

	saved := *doc
	saved.ID = drawingID
	saved.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := document.Marshal(&saved)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateDrawingDocument(ctx, drawingID, data); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Thumbnail renders the drawing as a PNG no larger than size pixels on its
// longer side.
func (s *Service) Thumbnail(ctx context.Context, drawingID, userID string, size int, w io.Writer) error {
	doc, err := s.Document(ctx, drawingID, userID)
	if err != nil {
		return err
	}
	sc, err := doc.Scene()
	if err != nil {
		return fmt.Errorf("drawing %s: %w", drawingID, err)
	}

	width, height := max(doc.Width, 1), max(doc.Height, 1)
	factor := 1.0
	if longest := max(width, height); size > 0 && longest > size {
		factor = float64(size) / float64(longest)
	}

	r := render.NewRaster(max(int(math.Round(float64(width)*factor)), 1), max(int(math.Round(float64(height)*factor)), 1))
	defer r.Close()

	r.Clear(doc.BackgroundColor())
	r.Push()
	r.Scale(factor, factor)
	sc.Render(r)
	r.Pop()
	if err := r.Err(); err != nil {
		return fmt.Errorf("render thumbnail: %w", err)
	}
	return r.EncodePNG(w)
}

func (s *Service) owned(ctx context.Context, drawingID, userID string) (store.Drawing, error) {
	row, err := s.repo.GetDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Drawing{}, ErrNotFound
		}
		return store.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	if row.OwnerID != userID {
		return store.Drawing{}, ErrForbidden
	}
	return row, nil
}

func toDrawing(d store.Drawing) *Drawing {
	return &Drawing{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: d.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
