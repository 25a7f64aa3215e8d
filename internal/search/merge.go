package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/iiifsearch/internal/media"
	"github.com/dgallion1/iiifsearch/internal/xmltree"
)

// mergeALTO concatenates one-page-per-file ALTO documents into the first
// one. Files that cannot be used contribute an empty placeholder page so page
// positions stay aligned with the page images.
func (e *Engine) mergeALTO(ctx context.Context, doc *media.Document, files []*media.Media, log *slog.Logger) (*xmltree.Document, error) {
	anchor, err := e.loadXML(ctx, doc, files[0])
	if err != nil {
		return nil, fmt.Errorf("%w: media %d: %w", ErrUnreadableOCR, files[0].ID, err)
	}

	ns := newALTODialect(anchor).ns
	container := anchor.Root.First(ns, "Layout")
	if container == nil {
		return nil, fmt.Errorf("%w: media %d: no Layout element", ErrUnreadableOCR, files[0].ID)
	}
	if len(container.ChildElements(ns, "Page")) == 0 {
		container.AppendChild(xmltree.NewElement(ns, "Page"))
	}

	for i, m := range files[1:] {
		page, err := e.altoPage(ctx, doc, m, ns)
		if err != nil {
			log.Warn("alto file replaced by an empty page", "media_id", m.ID, "page", i+2, "error", err)
			page = xmltree.NewElement(ns, "Page")
		}
		container.AppendChild(page)
	}
	return anchor, nil
}

// altoPage returns the first Page element of an ALTO file, rebound to the
// anchor namespace ns.
func (e *Engine) altoPage(ctx context.Context, doc *media.Document, m *media.Media, ns string) (*xmltree.Node, error) {
	x, err := e.loadXML(ctx, doc, m)
	if err != nil {
		return nil, err
	}
	own := newALTODialect(x).ns
	page := x.Root.First(own, "Page")
	if page == nil {
		return nil, fmt.Errorf("no Page element")
	}
	page.Rebind(own, ns)
	return page, nil
}

// loadXML reads, repairs and parses one OCR file.
func (e *Engine) loadXML(ctx context.Context, doc *media.Document, m *media.Media) (*xmltree.Document, error) {
	data, err := e.store.ReadFile(ctx, doc, m)
	if err != nil {
		return nil, fmt.Errorf("read media %d: %w", m.ID, err)
	}
	// Only files claiming to be UTF-8 are repaired; other declared
	// encodings are decoded by the parser.
	if enc := xmltree.DeclaredEncoding(data); enc == "" || enc == "utf-8" || enc == "utf8" {
		data = media.RepairEncoding(data)
	}
	x, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse media %d: %w", m.ID, err)
	}
	return x, nil
}
