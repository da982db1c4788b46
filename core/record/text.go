package record

import (
	"github.com/npillmayer/hiidb/core"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Text in record streams is either native UCS-2 (UTF-16LE, 2 bytes per
// character) or narrow (1 byte per character, widened to 16 bit on read).

var ucs2 = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeUCS2 converts null-terminated or plain UTF-16LE bytes to a string.
// A trailing zero character is dropped.
func DecodeUCS2(b []byte) (string, error) {
	if n := len(b); n >= 2 && b[n-2] == 0 && b[n-1] == 0 {
		b = b[:n-2]
	}
	if len(b)%2 != 0 {
		return "", core.Error(core.ECORRUPT, "UCS-2 text of odd length %d", len(b))
	}
	s, err := ucs2.NewDecoder().Bytes(b)
	if err != nil {
		return "", core.WrapError(err, core.ECORRUPT, "cannot decode UCS-2 text")
	}
	return string(s), nil
}

// EncodeUCS2 converts s to UTF-16LE and appends a zero character.
func EncodeUCS2(s string) ([]byte, error) {
	b, err := ucs2.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot encode %q as UCS-2", s)
	}
	return append(b, 0, 0), nil
}

// DecodeNarrow widens null-terminated or plain 8-bit text. Every byte maps to
// the code point of the same value.
func DecodeNarrow(b []byte) (string, error) {
	if n := len(b); n >= 1 && b[n-1] == 0 {
		b = b[:n-1]
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", core.WrapError(err, core.ECORRUPT, "cannot decode narrow text")
	}
	return string(s), nil
}

// EncodeNarrow converts s to 8-bit text and appends a zero byte.
// Characters above U+00FF cannot be represented.
func EncodeNarrow(s string) ([]byte, error) {
	for _, r := range s {
		if r > 0xFF {
			return nil, core.Error(core.EINVALID, "character U+%04X cannot be stored as narrow text", r)
		}
	}
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot encode %q as narrow text", s)
	}
	return append(b, 0), nil
}
