// Package store loads documents and their media files.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/dgallion1/iiifsearch/internal/media"
)

// ErrNotFound is returned for unknown documents or files.
var ErrNotFound = errors.New("not found")

// Store gives read access to documents and the content of their media.
type Store interface {
	Document(ctx context.Context, id int64) (*media.Document, error)
	Open(ctx context.Context, doc *media.Document, m *media.Media) (io.ReadCloser, error)
	ReadFile(ctx context.Context, doc *media.Document, m *media.Media) ([]byte, error)
}

// Manifest is the JSON description of a stored document.
type Manifest struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Media []ManifestMedia `json:"media"`
}

// ManifestMedia describes one media file in a Manifest.
type ManifestMedia struct {
	ID         int64       `json:"id"`
	Filename   string      `json:"filename"`
	MediaType  string      `json:"media_type"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Dimensions *media.Size `json:"dimensions,omitempty"`
	Page       int         `json:"page,omitempty"`
}

// Document converts the manifest into a media.Document.
func (m Manifest) Document() *media.Document {
	doc := &media.Document{ID: m.ID, Title: m.Title}
	for _, mm := range m.Media {
		item := &media.Media{
			ID:        mm.ID,
			Filename:  mm.Filename,
			MediaType: mm.MediaType,
			Page:      mm.Page,
		}
		if mm.Width != 0 || mm.Height != 0 {
			item.Stored = &media.Size{Width: mm.Width, Height: mm.Height}
		}
		if mm.Dimensions != nil {
			d := *mm.Dimensions
			item.Declared = &d
		}
		doc.Media = append(doc.Media, item)
	}
	return doc
}
