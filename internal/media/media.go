// Package media describes the files that make up a digitized document and
// classifies them for search.
package media

import "strings"

// Media types the search engine distinguishes.
const (
	TypeALTO    = "application/alto+xml"
	TypePdf2Xml = "application/vnd.pdf2xml+xml"
	TypeTextXML = "text/xml"
	TypeAppXML  = "application/xml"
)

// Document is an ordered collection of media files.
type Document struct {
	ID    int64
	Title string
	Media []*Media
}

// Media is a single file belonging to a Document.
type Media struct {
	ID        int64
	Filename  string
	MediaType string // declared (coarse) media type

	Stored   *Size // pixel size recorded when the file was ingested
	Declared *Size // pixel size supplied by an external source
	Page     int   // optional 1-based page the image belongs to (0 = by position)
}

// Size is a pixel size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known reports whether both dimensions are set.
func (s Size) Known() bool {
	return s.Width != 0 && s.Height != 0
}

// IsOCRType reports whether t is one of the supported OCR dialects.
func IsOCRType(t string) bool {
	return t == TypeALTO || t == TypePdf2Xml
}

// IsGenericXML reports whether t is a plain XML type that says nothing about
// the dialect.
func IsGenericXML(t string) bool {
	return t == TypeTextXML || t == TypeAppXML
}

// IsImageType reports whether t is an image media type.
func IsImageType(t string) bool {
	return strings.HasPrefix(t, "image/")
}

// needsSniffing reports whether the content must be read to refine t.
func needsSniffing(t string) bool {
	return IsGenericXML(t) || (strings.HasSuffix(t, "+xml") && !IsOCRType(t))
}
