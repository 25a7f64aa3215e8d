package search

import (
	"strconv"
	"strings"

	"github.com/dgallion1/iiifsearch/internal/xmltree"
)

// pdf2xmlDialect reads the output of pdftohtml -xml: <page number width
// height> elements holding positioned <text> rows.
type pdf2xmlDialect struct{}

func (pdf2xmlDialect) name() string    { return "pdf2xml" }
func (pdf2xmlDialect) parseErr() error { return ErrPdfXMLParse }

func (pdf2xmlDialect) pageNodes(doc *xmltree.Document) []*xmltree.Node {
	return doc.Root.Elements("", "page")
}

// pageAttributes requires number, width and height to be present; "0" counts
// as present.
func (pdf2xmlDialect) pageAttributes(page *xmltree.Node, index int) (pageAttrs, bool) {
	number := strings.TrimSpace(page.AttrValue("number"))
	width := page.AttrValue("width")
	height := page.AttrValue("height")
	if number == "" || width == "" || height == "" {
		return pageAttrs{}, false
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return pageAttrs{}, false
	}
	w, ok := attrInt(width)
	if !ok {
		return pageAttrs{}, false
	}
	h, ok := attrInt(height)
	if !ok {
		return pageAttrs{}, false
	}
	return pageAttrs{number: n, width: w, height: h}, true
}

func (pdf2xmlDialect) textNodes(page *xmltree.Node) []*xmltree.Node {
	return page.ChildElements("", "text")
}

func (pdf2xmlDialect) text(node *xmltree.Node) string {
	return node.TextContent()
}

func (pdf2xmlDialect) zoneOf(node *xmltree.Node) (Zone, bool) {
	return boxFromAttrs(node, "top", "left", "width", "height")
}
