package source

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeReader wraps r so it yields UTF-8.
// A UTF-8 BOM is stripped and a UTF-16 LE/BE BOM switches decoding; input without
// a BOM is read as UTF-8.
func decodeReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
