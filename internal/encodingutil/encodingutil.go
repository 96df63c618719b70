// Package encodingutil decodes uploaded file bytes into text, trying a
// fixed list of encodings commonly produced by bank export tools.
package encodingutil

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported for diagnostics.
const (
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8Lossy   = "utf-8-lossy"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Bytes in the 0x80-0x9F range that Windows-1252 leaves undefined.
var windows1252Undefined = map[byte]bool{
	0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true,
}

// Decode converts raw file bytes to a string, trying in order: UTF-8
// with BOM, plain UTF-8, Latin-1, Windows-1252. It never fails: the last
// resort replaces invalid bytes with the Unicode replacement character.
// Returns the decoded text and the name of the encoding used.
func Decode(data []byte) (string, string) {
	if bytes.HasPrefix(data, utf8BOM) {
		stripped := data[len(utf8BOM):]
		if utf8.Valid(stripped) {
			return string(stripped), EncodingUTF8BOM
		}
		// A BOM on invalid UTF-8 content; replace the bad bytes.
		return string(bytes.ToValidUTF8(stripped, []byte("�"))), EncodingUTF8Lossy
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8
	}

	// Not UTF-8. Bytes in 0x80-0x9F decode to control characters under
	// Latin-1 but to printable punctuation under Windows-1252, so their
	// presence rules Latin-1 out.
	if !hasC1Bytes(data) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
			return string(decoded), EncodingLatin1
		}
	}

	if decodable1252(data) {
		if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
			return string(decoded), EncodingWindows1252
		}
	}

	return string(bytes.ToValidUTF8(data, []byte("�"))), EncodingUTF8Lossy
}

func hasC1Bytes(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}

func decodable1252(data []byte) bool {
	for _, b := range data {
		if windows1252Undefined[b] {
			return false
		}
	}
	return true
}
