package search

import "errors"

var (
	// ErrNotSearchable means the document has no usable OCR file or no sized
	// page image. It is not reported to end users.
	ErrNotSearchable = errors.New("document is not searchable")

	// ErrUnreadableOCR means the anchor file of an ALTO merge could not be used.
	ErrUnreadableOCR = errors.New("unreadable ocr file")

	ErrALTOParse   = errors.New("alto parse error")
	ErrPdfXMLParse = errors.New("pdf2xml parse error")
	ErrUnknownOCR  = errors.New("unsupported ocr media type")
	ErrPageMapping = errors.New("conflicting page image mapping")
)
