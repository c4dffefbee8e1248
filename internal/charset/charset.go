// Package charset turns charset names into decoding readers.
package charset

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is the charset ING Romania uses for its CSV exports.
const Default = "iso-8859-2"

var common = map[string]encoding.Encoding{
	"iso-8859-2":   charmap.ISO8859_2,
	"latin2":       charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
	"cp1250":       charmap.Windows1250,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
}

// Lookup resolves a charset name. The empty name means Default.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Default
	}
	if enc, ok := common[strings.ReplaceAll(key, "_", "-")]; ok {
		return enc, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// NewReader wraps r so that it yields UTF-8 decoded from the named charset.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
