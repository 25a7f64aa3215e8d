package media

import (
	_ "embed"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html/charset"
)

//go:embed mediatypes.json
var defaultTableJSON []byte

// Signature identifies an XML dialect by doctype, namespace prefix or root
// element name.
type Signature struct {
	Doctype   string `json:"doctype,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Root      string `json:"root,omitempty"`
	MediaType string `json:"media_type"`
}

// Table is an immutable set of XML signatures.
type Table struct {
	signatures []Signature
}

// NewTable validates and wraps signatures.
func NewTable(sigs []Signature) (*Table, error) {
	for i, s := range sigs {
		if s.MediaType == "" {
			return nil, fmt.Errorf("signature %d: media_type is required", i)
		}
		if s.Doctype == "" && s.Namespace == "" && s.Root == "" {
			return nil, fmt.Errorf("signature %d: one of doctype, namespace or root is required", i)
		}
	}
	return &Table{signatures: append([]Signature(nil), sigs...)}, nil
}

// ParseTable reads a JSON array of signatures.
func ParseTable(data []byte) (*Table, error) {
	var sigs []Signature
	if err := json.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("parse media type table: %w", err)
	}
	return NewTable(sigs)
}

// DefaultTable returns the built-in table, loaded on first use.
var DefaultTable = sync.OnceValues(func() (*Table, error) {
	return ParseTable(defaultTableJSON)
})

// Lookup matches doctype first, then namespace, then root element name.
func (t *Table) Lookup(doctype, namespace, root string) (string, bool) {
	if doctype != "" {
		for _, s := range t.signatures {
			if s.Doctype != "" && strings.EqualFold(s.Doctype, doctype) {
				return s.MediaType, true
			}
		}
	}
	if namespace != "" {
		for _, s := range t.signatures {
			if s.Namespace != "" && strings.HasPrefix(namespace, s.Namespace) {
				return s.MediaType, true
			}
		}
	}
	if root != "" {
		for _, s := range t.signatures {
			if s.Root != "" && s.Root == root {
				return s.MediaType, true
			}
		}
	}
	return "", false
}

// Classifier refines coarse media types by looking at file content.
type Classifier struct {
	table *Table
}

// NewClassifier returns a Classifier backed by table.
func NewClassifier(table *Table) *Classifier {
	return &Classifier{table: table}
}

// NeedsContent reports whether Refine would read content for coarse.
func (c *Classifier) NeedsContent(coarse string) bool {
	return needsSniffing(coarse)
}

// Refine returns the refined media type of the file in r. Only XML content
// is inspected; anything else, and any XML not found in the table, keeps its
// coarse type.
func (c *Classifier) Refine(r io.Reader, coarse string) string {
	if !needsSniffing(coarse) || r == nil {
		return coarse
	}
	doctype, namespace, root := sniffXML(r)
	if t, ok := c.table.Lookup(doctype, namespace, root); ok {
		return t
	}
	return coarse
}

// sniffXML reads tokens up to the root element.
func sniffXML(r io.Reader) (doctype, namespace, root string) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return doctype, "", ""
		}
		switch t := tok.(type) {
		case xml.Directive:
			d := strings.TrimSpace(string(t))
			if fields := strings.Fields(d); len(fields) >= 2 && strings.EqualFold(fields[0], "DOCTYPE") {
				doctype = fields[1]
			}
		case xml.StartElement:
			return doctype, t.Name.Space, t.Name.Local
		}
	}
}
