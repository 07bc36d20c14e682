package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// utf8BOM is stripped from the front of plain text; Windows editors
// still prepend it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractPlain decodes content as UTF-8 text. A leading byte order mark
// is dropped and invalid sequences become the replacement character so
// rune-based chunking downstream never sees broken encoding.
func extractPlain(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return string(content), nil
	}
	return strings.ToValidUTF8(string(content), string(utf8.RuneError)), nil
}
