package media

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RepairEncoding returns data unchanged when it is valid UTF-8. Otherwise the
// bytes are assumed to be Windows-1252 (a superset of Latin-1, the usual
// culprit in OCR exports) and transcoded to UTF-8.
func RepairEncoding(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	fixed, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return fixed
}
