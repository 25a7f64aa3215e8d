// Package xmltree is a small mutable XML tree built on encoding/xml. It keeps
// namespace URIs on every element so nodes can be moved between documents.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrEmptyContent is returned when there is nothing to parse.
var ErrEmptyContent = errors.New("empty xml content")

// Node is an element or a run of character data.
type Node struct {
	Name     xml.Name // zero for chardata nodes
	Attrs    []xml.Attr
	Text     string // chardata only
	Children []*Node
	Parent   *Node
}

// Document is a parsed XML document.
type Document struct {
	Root *Node

	// Namespaces declared on the root element, keyed by prefix. The default
	// namespace uses the empty key.
	Namespaces map[string]string
}

// NewElement returns a detached element with no attributes.
func NewElement(space, local string) *Node {
	return &Node{Name: xml.Name{Space: space, Local: local}}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n.Name.Local != ""
}

// HasAttrs reports whether the element carries any attribute other than
// namespace declarations.
func (n *Node) HasAttrs() bool {
	for _, a := range n.Attrs {
		if !isNamespaceDecl(a) {
			return true
		}
	}
	return false
}

// Attr returns the value of the first attribute with the given local name.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local && !isNamespaceDecl(a) {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue is Attr without the presence flag.
func (n *Node) AttrValue(local string) string {
	v, _ := n.Attr(local)
	return v
}

// AppendChild moves child to the end of n's children, detaching it from any
// previous parent.
func (n *Node) AppendChild(child *Node) {
	if p := child.Parent; p != nil {
		for i, c := range p.Children {
			if c == child {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Rebind moves n and every descendant element in namespace from into
// namespace to. Attributes are left alone.
func (n *Node) Rebind(from, to string) {
	if from == to || !n.IsElement() {
		return
	}
	if n.Name.Space == from {
		n.Name.Space = to
	}
	for _, c := range n.Children {
		c.Rebind(from, to)
	}
}

// Elements returns the descendant elements of n (excluding n) matching
// space and local, in document order. An empty space matches any namespace.
func (n *Node) Elements(space, local string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if !c.IsElement() {
				continue
			}
			if c.Name.Local == local && (space == "" || c.Name.Space == space) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// ChildElements returns the direct element children of n matching space and local.
func (n *Node) ChildElements(space, local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() && c.Name.Local == local && (space == "" || c.Name.Space == space) {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first descendant element matching space and local, or nil.
func (n *Node) First(space, local string) *Node {
	var found *Node
	var walk func(*Node) bool
	walk = func(cur *Node) bool {
		for _, c := range cur.Children {
			if !c.IsElement() {
				continue
			}
			if c.Name.Local == local && (space == "" || c.Name.Space == space) {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(n)
	return found
}

// TextContent returns the concatenated character data below n, with tags
// stripped and surrounding whitespace trimmed.
func (n *Node) TextContent() string {
	var buf strings.Builder
	var extract func(*Node)
	extract = func(cur *Node) {
		if !cur.IsElement() {
			buf.WriteString(cur.Text)
			return
		}
		for _, c := range cur.Children {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// Parse builds a Document from raw XML. Encodings declared in the prolog are
// honoured.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyContent
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{Namespaces: map[string]string{}}
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("decode xml: multiple root elements")
				}
				doc.Root = node
				collectNamespaces(doc.Namespaces, t.Attr)
			} else {
				stack[len(stack)-1].AppendChild(node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].AppendChild(&Node{Text: string(t)})
			}
		}
	}

	if doc.Root == nil {
		return nil, ErrEmptyContent
	}
	return doc, nil
}

// DeclaredEncoding returns the encoding named in the XML declaration of
// data, lower-cased, or "" when there is none.
func DeclaredEncoding(data []byte) string {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\ufeff \t\r\n"), []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(data, []byte("?>"))
	if end < 0 {
		return ""
	}
	decl := string(data[:end])
	i := strings.Index(decl, "encoding=")
	if i < 0 || len(decl) <= i+len("encoding=") {
		return ""
	}
	rest := decl[i+len("encoding="):]
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return ""
	}
	j := strings.IndexByte(rest[1:], quote)
	if j < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(rest[1 : j+1]))
}

func collectNamespaces(dst map[string]string, attrs []xml.Attr) {
	for _, a := range attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			dst[""] = a.Value
		case a.Name.Space == "xmlns":
			dst[a.Name.Local] = a.Value
		}
	}
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}
