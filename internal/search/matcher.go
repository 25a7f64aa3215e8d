package search

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/iiifsearch/internal/media"
	"github.com/dgallion1/iiifsearch/internal/query"
	"github.com/dgallion1/iiifsearch/internal/xmltree"
)

// pageAttrs is what a dialect reads from a page node.
type pageAttrs struct {
	number int // 1-based
	width  int
	height int
}

// dialect adapts the paged matcher to one OCR schema.
type dialect interface {
	name() string
	parseErr() error
	pageNodes(doc *xmltree.Document) []*xmltree.Node
	// pageAttributes returns false when the page lacks width, height or number.
	pageAttributes(page *xmltree.Node, index int) (pageAttrs, bool)
	textNodes(page *xmltree.Node) []*xmltree.Node
	text(node *xmltree.Node) string
	// zoneOf returns false when the bounding box is incomplete.
	zoneOf(node *xmltree.Node) (Zone, bool)
}

// matchInput is everything one matching run needs.
type matchInput struct {
	doc     *media.Document
	mediaID int64
	terms   []query.Term
	sizes   PageSizes
	uris    URIResolver
	log     *slog.Logger
}

type compiledTerm struct {
	term query.Term
	re   *regexp.Regexp
}

// match walks every page of doc and collects annotations and page hits. The
// hit ordinal runs across the whole document.
func match(xdoc *xmltree.Document, d dialect, in matchInput) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("%w: %v", d.parseErr(), r)
		}
	}()

	if xdoc == nil || xdoc.Root == nil {
		return nil, fmt.Errorf("%w: no root element", d.parseErr())
	}

	compiled := make([]compiledTerm, 0, len(in.terms))
	for _, t := range in.terms {
		compiled = append(compiled, compiledTerm{term: t, re: t.Regexp()})
	}

	log := in.log.With("document_id", in.doc.ID, "media_id", in.mediaID, "dialect", d.name())
	resp = EmptyResponse()
	hitCount := 0

	pages := d.pageNodes(xdoc)
	if len(pages) != len(in.sizes) {
		log.Warn("page count differs from page image count", "ocr_pages", len(pages), "images", len(in.sizes), "error", ErrPageMapping)
	}

	for index, pageNode := range pages {
		if !pageNode.HasAttrs() {
			continue
		}

		attrs, ok := d.pageAttributes(pageNode, index)
		if !ok {
			log.Warn("incomplete data for page", "page", index+1)
			continue
		}
		pageIndex := attrs.number - 1
		if pageIndex != index {
			log.Warn("inconsistent data for page", "page", index+1, "declared", attrs.number)
			continue
		}

		page := PageGeometry{Index: pageIndex, Width: attrs.width, Height: attrs.height}
		size, sized := in.sizes.At(pageIndex)
		var hits pageHits

		var nodes []*xmltree.Node
		if sized {
			nodes = d.textNodes(pageNode)
		}
		for row, node := range nodes {
			text := d.text(node)
			for _, ct := range compiled {
				if !ct.re.MatchString(text) {
					continue
				}
				zone, ok := d.zoneOf(node)
				if !ok {
					log.Warn("inconsistent data for zone", "page", index+1, "row", row)
					continue
				}
				zone.Text = text

				hitCount++
				a := newAnnotation(in.uris, in.doc, size, page, zone, ct.term, hitCount)
				resp.Resources = append(resp.Resources, a)
				hits.add(a.ID, ct.term.Text)
			}
		}

		if h, ok := hits.hit(); ok {
			resp.Hits = append(resp.Hits, h)
		}
	}
	return resp, nil
}

// attrInt parses a numeric attribute. OCR engines emit both "12" and "12.0".
func attrInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

// boxFromAttrs reads a zone. top and left must be present, width and height
// must be non-zero.
func boxFromAttrs(node *xmltree.Node, topKey, leftKey, widthKey, heightKey string) (Zone, bool) {
	top, ok := attrInt(node.AttrValue(topKey))
	if !ok {
		return Zone{}, false
	}
	left, ok := attrInt(node.AttrValue(leftKey))
	if !ok {
		return Zone{}, false
	}
	width, _ := attrInt(node.AttrValue(widthKey))
	height, _ := attrInt(node.AttrValue(heightKey))
	if width == 0 || height == 0 {
		return Zone{}, false
	}
	return Zone{Top: top, Left: left, Width: width, Height: height}, true
}
