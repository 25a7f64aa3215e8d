package search

import (
	"context"
	"log/slog"

	"github.com/dgallion1/iiifsearch/internal/media"
)

// PageSizes holds the pixel size of each page image, by 0-based page index.
type PageSizes []media.Size

// At returns the size of page index when it is known.
func (p PageSizes) At(index int) (media.Size, bool) {
	if index < 0 || index >= len(p) {
		return media.Size{}, false
	}
	return p[index], p[index].Known()
}

type ocrFile struct {
	media *media.Media
	typ   string
}

type sizedMedia struct {
	media *media.Media
	size  media.Size
}

// prepared is a document ready to be searched.
type prepared struct {
	ocrFiles []ocrFile
	sizes    PageSizes
}

// prepare selects the OCR files of doc and collects its page image sizes.
func (e *Engine) prepare(ctx context.Context, doc *media.Document, log *slog.Logger) (prepared, error) {
	var (
		p     prepared
		sized []sizedMedia
	)
	for _, m := range doc.Media {
		typ := e.refine(ctx, doc, m, log)
		switch {
		case media.IsOCRType(typ):
			p.ocrFiles = append(p.ocrFiles, ocrFile{media: m, typ: typ})
		case media.IsGenericXML(typ):
			log.Warn("xml media type not precise enough for search", "media_id", m.ID, "media_type", typ)
		default:
			if size, ok := e.mediaSize(ctx, doc, m, typ, log); ok {
				sized = append(sized, sizedMedia{media: m, size: size})
			}
		}
	}

	if len(p.ocrFiles) == 0 || len(sized) == 0 {
		return prepared{}, ErrNotSearchable
	}
	p.sizes = pageSizes(sized, log)
	return p, nil
}

// refine returns the refined media type of m, reading its head when the
// declared type is too generic.
func (e *Engine) refine(ctx context.Context, doc *media.Document, m *media.Media, log *slog.Logger) string {
	if !e.classifier.NeedsContent(m.MediaType) {
		return m.MediaType
	}
	rc, err := e.store.Open(ctx, doc, m)
	if err != nil {
		log.Warn("cannot read media to refine its type", "media_id", m.ID, "error", err)
		return m.MediaType
	}
	defer rc.Close()
	return e.classifier.Refine(rc, m.MediaType)
}

// mediaSize tries stored metadata, then declared metadata, then the image
// header. An unreadable image header yields a zero size.
func (e *Engine) mediaSize(ctx context.Context, doc *media.Document, m *media.Media, typ string, log *slog.Logger) (media.Size, bool) {
	if m.Stored != nil {
		return *m.Stored, true
	}
	if m.Declared != nil {
		return *m.Declared, true
	}
	if !media.IsImageType(typ) {
		return media.Size{}, false
	}

	rc, err := e.store.Open(ctx, doc, m)
	if err != nil {
		return media.Size{}, false
	}
	defer rc.Close()

	size, err := media.ProbeImageSize(rc)
	if err != nil {
		log.Warn("cannot read image size", "media_id", m.ID, "error", err)
		return media.Size{}, true
	}
	return size, true
}

// pageSizes orders sizes by encounter order, unless images carry an explicit
// page number, in which case that number is the join key.
func pageSizes(sized []sizedMedia, log *slog.Logger) PageSizes {
	explicit := false
	for _, s := range sized {
		if s.media.Page > 0 {
			explicit = true
			break
		}
	}

	if !explicit {
		sizes := make(PageSizes, 0, len(sized))
		for _, s := range sized {
			sizes = append(sizes, s.size)
		}
		return sizes
	}

	var sizes PageSizes
	assigned := map[int]bool{}
	for _, s := range sized {
		page := s.media.Page
		if page <= 0 {
			log.Warn("image without page number ignored", "media_id", s.media.ID)
			continue
		}
		if assigned[page] {
			log.Warn("page image mapping ignored", "media_id", s.media.ID, "page", page, "error", ErrPageMapping)
			continue
		}
		assigned[page] = true
		for len(sizes) < page {
			sizes = append(sizes, media.Size{})
		}
		sizes[page-1] = s.size
	}
	return sizes
}
