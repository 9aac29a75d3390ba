// Package codec implements the wire-level byte codecs the HTTP/1.x engine
// uses for percent-encoding and base-N encoded credentials: URL
// percent-encoding (RFC 3986 section 2.1) and the RFC 4648 base16/32/32-hex/64
// families.
package codec

import (
	"strings"

	herrors "github.com/go-httpcore/httpcore/pkg/errors"
)

// isUnreserved reports whether b is an RFC 3986 unreserved character
// (A-Z a-z 0-9 - _ . ~) that passes through URL encoding untouched.
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	}
	return false
}

const upperHex = "0123456789ABCDEF"

// URLEncode percent-encodes input per RFC 3986. Unreserved characters pass
// through unchanged; every other byte becomes %HH using uppercase hex
// digits. When plusForSpace is true, a space byte becomes "+" instead of
// "%20" (the application/x-www-form-urlencoded convention).
func URLEncode(input string, plusForSpace bool) string {
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case isUnreserved(c):
			b.WriteByte(c)
		case c == ' ' && plusForSpace:
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
		}
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// URLDecode reverses URLEncode. A malformed "%" sequence (not followed by
// two hex digits) is left verbatim in the output rather than erroring, per
// spec.md section 4.1. When plusForSpace is true, "+" decodes to a space.
func URLDecode(input string, plusForSpace bool) string {
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '+' && plusForSpace:
			b.WriteByte(' ')
		case c == '%' && i+2 < len(input):
			hi, ok1 := hexVal(input[i+1])
			lo, ok2 := hexVal(input[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EncodingError reports a codec failure, naming the codec that produced it.
type EncodingError = herrors.Error

func newEncodingError(codec, message string) error {
	return herrors.NewEncodingError(codec, message)
}
