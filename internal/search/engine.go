// Package search finds query words in the OCR of a document and returns
// IIIF Search annotations positioned on the page images.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/iiifsearch/internal/media"
	"github.com/dgallion1/iiifsearch/internal/query"
	"github.com/dgallion1/iiifsearch/internal/store"
	"github.com/dgallion1/iiifsearch/internal/xmltree"
)

// Options configures an Engine.
type Options struct {
	Store          store.Store
	Classifier     *media.Classifier
	URIs           URIResolver
	MinQueryLength int
	Logger         *slog.Logger
}

// Engine runs searches. It holds no per-search state and is safe for
// concurrent use.
type Engine struct {
	store      store.Store
	classifier *media.Classifier
	uris       URIResolver
	minLength  int
	log        *slog.Logger
}

func NewEngine(opts Options) *Engine {
	minLength := opts.MinQueryLength
	if minLength <= 0 {
		minLength = query.DefaultMinLength
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:      opts.Store,
		classifier: opts.Classifier,
		uris:       opts.URIs,
		minLength:  minLength,
		log:        log,
	}
}

// Search runs rawQuery against doc. It returns nil when the document does not
// support search or its OCR cannot be read, and an empty response when the
// query is too short or nothing matches. Failures are logged, never returned.
func (e *Engine) Search(ctx context.Context, doc *media.Document, rawQuery string) *Response {
	resp, err := e.search(ctx, doc, rawQuery)
	switch {
	case errors.Is(err, ErrNotSearchable):
		e.log.Debug("document not searchable", "document_id", doc.ID)
		return nil
	case err != nil:
		e.log.Error("search failed", "document_id", doc.ID, "error", err)
		return nil
	}
	return resp
}

func (e *Engine) search(ctx context.Context, doc *media.Document, rawQuery string) (*Response, error) {
	log := e.log.With("document_id", doc.ID)

	p, err := e.prepare(ctx, doc, log)
	if err != nil {
		return nil, err
	}

	terms := query.Normalize(rawQuery, e.minLength)
	if len(terms) == 0 {
		return EmptyResponse(), nil
	}

	xdoc, d, err := e.load(ctx, doc, p.ocrFiles, log)
	if err != nil {
		return nil, err
	}

	return match(xdoc, d, matchInput{
		doc:     doc,
		mediaID: p.ocrFiles[0].media.ID,
		terms:   terms,
		sizes:   p.sizes,
		uris:    e.uris,
		log:     e.log,
	})
}

// load parses the OCR to search. The first OCR file picks the dialect;
// several ALTO files are merged into one document.
func (e *Engine) load(ctx context.Context, doc *media.Document, files []ocrFile, log *slog.Logger) (*xmltree.Document, dialect, error) {
	first := files[0]
	var skipped []int64
	for _, f := range files[1:] {
		// Only ALTO files are merged; every other extra file goes unread.
		if first.typ != media.TypeALTO || f.typ != media.TypeALTO {
			skipped = append(skipped, f.media.ID)
		}
	}
	if len(skipped) > 0 {
		log.Debug("extra ocr files skipped", "dialect", first.typ, "media_ids", skipped)
	}

	switch first.typ {
	case media.TypeALTO:
		var alto []*media.Media
		for _, f := range files {
			if f.typ == media.TypeALTO {
				alto = append(alto, f.media)
			}
		}
		if len(alto) > 1 {
			xdoc, err := e.mergeALTO(ctx, doc, alto, log)
			if err != nil {
				return nil, nil, err
			}
			return xdoc, newALTODialect(xdoc), nil
		}
		xdoc, err := e.loadXML(ctx, doc, first.media)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrALTOParse, err)
		}
		return xdoc, newALTODialect(xdoc), nil

	case media.TypePdf2Xml:
		xdoc, err := e.loadXML(ctx, doc, first.media)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrPdfXMLParse, err)
		}
		return xdoc, pdf2xmlDialect{}, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownOCR, first.typ)
}
