package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/iiifsearch/internal/media"
)

// FSStore reads documents from a directory tree:
//
//	<root>/<document id>/manifest.json
//	<root>/<document id>/<media filename>
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) docDir(id int64) string {
	return filepath.Join(s.root, strconv.FormatInt(id, 10))
}

// Document loads the manifest of document id.
func (s *FSStore) Document(ctx context.Context, id int64) (*media.Document, error) {
	data, err := os.ReadFile(filepath.Join(s.docDir(id), "manifest.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %d: %w", id, err)
	}
	if m.ID == 0 {
		m.ID = id
	}
	return m.Document(), nil
}

// Open opens the content of m.
func (s *FSStore) Open(ctx context.Context, doc *media.Document, m *media.Media) (io.ReadCloser, error) {
	path, err := s.mediaPath(doc, m)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("media %d: %w", m.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open media %d: %w", m.ID, err)
	}
	return f, nil
}

// ReadFile reads the whole content of m.
func (s *FSStore) ReadFile(ctx context.Context, doc *media.Document, m *media.Media) ([]byte, error) {
	f, err := s.Open(ctx, doc, m)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *FSStore) mediaPath(doc *media.Document, m *media.Media) (string, error) {
	dir := s.docDir(doc.ID)
	path := filepath.Join(dir, filepath.Clean(m.Filename))
	if m.Filename == "" || !strings.HasPrefix(path, dir+string(filepath.Separator)) {
		return "", fmt.Errorf("media %d: invalid filename %q", m.ID, m.Filename)
	}
	return path, nil
}
