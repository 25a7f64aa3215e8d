package search

import (
	"fmt"
	"strings"

	"github.com/dgallion1/iiifsearch/internal/media"
	"github.com/dgallion1/iiifsearch/internal/query"
)

// Zone is the bounding box of a text token on a page, in OCR coordinates.
type Zone struct {
	Text   string
	Top    int
	Left   int
	Width  int
	Height int
}

// PageGeometry is a page as declared by the OCR file.
type PageGeometry struct {
	Index  int // 0-based
	Width  int
	Height int
}

// Annotation is one match, addressed on its canvas.
type Annotation struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Motivation string         `json:"motivation"`
	Resource   AnnotationBody `json:"resource"`
	On         string         `json:"on"`

	Hit       int          `json:"-"`
	Page      PageGeometry `json:"-"`
	ImageSize media.Size   `json:"-"`
	Zone      Zone         `json:"-"`
	Term      query.Term   `json:"-"`
}

// AnnotationBody carries the matched text.
type AnnotationBody struct {
	Type  string `json:"type"`
	Chars string `json:"chars"`
}

// Hit summarizes the matches of one page.
type Hit struct {
	Type        string   `json:"type"`
	Annotations []string `json:"annotations"`
	Match       string   `json:"match"`
}

// Response is the result of one search. A nil *Response means the document
// does not support search.
type Response struct {
	Resources []Annotation `json:"resources"`
	Hits      []Hit        `json:"hits"`
}

// EmptyResponse returns a valid response without matches.
func EmptyResponse() *Response {
	return &Response{Resources: []Annotation{}, Hits: []Hit{}}
}

// URIResolver produces the external identifiers embedded in annotations.
type URIResolver interface {
	// CanvasURI returns the canvas of page, or the document itself when page is nil.
	CanvasURI(doc *media.Document, page *PageGeometry) string
	AnnotationBaseURI(doc *media.Document) string
}

// IIIFResolver builds identifiers below a public base URL.
type IIIFResolver struct {
	BaseURL string
}

func (r IIIFResolver) base(doc *media.Document) string {
	return fmt.Sprintf("%s/iiif/%d", strings.TrimRight(r.BaseURL, "/"), doc.ID)
}

func (r IIIFResolver) CanvasURI(doc *media.Document, page *PageGeometry) string {
	if page == nil {
		return r.base(doc)
	}
	return fmt.Sprintf("%s/canvas/p%d", r.base(doc), page.Index+1)
}

func (r IIIFResolver) AnnotationBaseURI(doc *media.Document) string {
	return r.base(doc) + "/annotation/search"
}

// newAnnotation builds the annotation for one match. Identical inputs always
// give identical identifiers.
func newAnnotation(uris URIResolver, doc *media.Document, size media.Size, page PageGeometry, zone Zone, term query.Term, hit int) Annotation {
	box := fmt.Sprintf("%d,%d,%d,%d", zone.Left, zone.Top, zone.Width, zone.Height)
	return Annotation{
		ID:         fmt.Sprintf("%s/a%dh%dr%s", uris.AnnotationBaseURI(doc), page.Index, hit, box),
		Type:       "oa:Annotation",
		Motivation: "sc:painting",
		Resource: AnnotationBody{
			Type:  "cnt:ContentAsText",
			Chars: zone.Text,
		},
		On:        uris.CanvasURI(doc, &page) + "#xywh=" + box,
		Hit:       hit,
		Page:      page,
		ImageSize: size,
		Zone:      zone,
		Term:      term,
	}
}

// pageHits accumulates the matches of the current page.
type pageHits struct {
	ids     []string
	matches []string
	seen    map[string]bool
}

func (p *pageHits) add(id, match string) {
	if p.seen == nil {
		p.seen = map[string]bool{}
	}
	p.ids = append(p.ids, id)
	if !p.seen[match] {
		p.seen[match] = true
		p.matches = append(p.matches, match)
	}
}

func (p *pageHits) hit() (Hit, bool) {
	if len(p.ids) == 0 {
		return Hit{}, false
	}
	return Hit{
		Type:        "search:Hit",
		Annotations: p.ids,
		Match:       strings.Join(p.matches, " "),
	}, true
}
