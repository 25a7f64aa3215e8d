package search

import (
	"github.com/dgallion1/iiifsearch/internal/xmltree"
)

// ALTONamespaceV4 is bound when a document declares no usable namespace.
const ALTONamespaceV4 = "http://www.loc.gov/standards/alto/ns-v4#"

type altoDialect struct {
	ns string
}

// newALTODialect matches unqualified names when the root element has no
// namespace. Otherwise it binds the namespace declared as "alto", else the
// default namespace, else ALTO v4.
func newALTODialect(doc *xmltree.Document) altoDialect {
	if doc.Root != nil && doc.Root.Name.Space == "" {
		return altoDialect{}
	}
	if ns, ok := doc.Namespaces["alto"]; ok && ns != "" {
		return altoDialect{ns: ns}
	}
	if ns, ok := doc.Namespaces[""]; ok && ns != "" {
		return altoDialect{ns: ns}
	}
	return altoDialect{ns: ALTONamespaceV4}
}

func (altoDialect) name() string    { return "alto" }
func (altoDialect) parseErr() error { return ErrALTOParse }

func (d altoDialect) pageNodes(doc *xmltree.Document) []*xmltree.Node {
	return doc.Root.Elements(d.ns, "Page")
}

// pageAttributes numbers pages by position; PHYSICAL_IMG_NR is not trusted.
func (altoDialect) pageAttributes(page *xmltree.Node, index int) (pageAttrs, bool) {
	width, ok := attrInt(page.AttrValue("WIDTH"))
	if !ok {
		return pageAttrs{}, false
	}
	height, ok := attrInt(page.AttrValue("HEIGHT"))
	if !ok {
		return pageAttrs{}, false
	}
	return pageAttrs{number: index + 1, width: width, height: height}, true
}

func (d altoDialect) textNodes(page *xmltree.Node) []*xmltree.Node {
	return page.Elements(d.ns, "String")
}

func (altoDialect) text(node *xmltree.Node) string {
	return node.AttrValue("CONTENT")
}

func (altoDialect) zoneOf(node *xmltree.Node) (Zone, bool) {
	return boxFromAttrs(node, "VPOS", "HPOS", "WIDTH", "HEIGHT")
}
