package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes d as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Decode reads a document and checks its version.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if d.Shapes == nil {
		d.Shapes = []Shape{}
	}
	return &d, nil
}

// Parse decodes a document from raw JSON.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Marshal encodes d as compact JSON.
func Marshal(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// SaveFile writes d to path through a temporary file in the same directory,
// so a crash never leaves a half-written document behind.
func SaveFile(path string, d *Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, d); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// LoadFile reads a document from path. A missing file yields an error that
// matches fs.ErrNotExist.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
