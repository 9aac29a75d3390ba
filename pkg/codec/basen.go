package codec

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Padding controls whether an encoder emits/requires the trailing pad
// character for a partial final group.
type Padding int

const (
	// WithPadding pads the final group (the RFC 4648 default).
	WithPadding Padding = iota
	// NoPadding omits the final group's padding.
	NoPadding
)

const (
	stdBase64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

// Base64Alphabet returns the 64-character alphabet used by NewBase64,
// letting callers swap the 62nd/63rd characters for a URL-safe variant
// (conventionally '-' and '_') while keeping the rest of the RFC 4648
// table fixed.
func Base64Alphabet(c62, c63 byte) string {
	b := []byte(stdBase64Alphabet)
	b[62] = c62
	b[63] = c63
	return string(b)
}

func base64Encoding(c62, c63 byte, pad Padding) *base64.Encoding {
	enc := base64.NewEncoding(Base64Alphabet(c62, c63))
	if pad == NoPadding {
		enc = enc.WithPadding(base64.NoPadding)
	}
	return enc
}

// Base64Encode encodes data with the standard '+'/'/' alphabet.
func Base64Encode(data []byte, pad Padding) string {
	return base64Encoding('+', '/', pad).EncodeToString(data)
}

// Base64Decode decodes a standard-alphabet base64 string. It returns an
// EncodingError (codec "base64") when the input contains characters
// outside the alphabet, has a length inconsistent with the padding mode,
// or places padding in the middle of the string.
func Base64Decode(s string, pad Padding) ([]byte, error) {
	return decodeBase64(s, '+', '/', pad)
}

// Base64URLEncode encodes data with the URL- and filename-safe alphabet
// ('-' and '_' in place of '+' and '/').
func Base64URLEncode(data []byte, pad Padding) string {
	return base64Encoding('-', '_', pad).EncodeToString(data)
}

// Base64URLDecode decodes a URL-safe-alphabet base64 string.
func Base64URLDecode(s string, pad Padding) ([]byte, error) {
	return decodeBase64(s, '-', '_', pad)
}

func decodeBase64(s string, c62, c63 byte, pad Padding) ([]byte, error) {
	out, err := base64Encoding(c62, c63, pad).DecodeString(s)
	if err != nil {
		return nil, newEncodingError("base64", err.Error())
	}
	return out, nil
}

// Base32Encode encodes data with the RFC 4648 base32 alphabet (A-Z 2-7).
func Base32Encode(data []byte, pad Padding) string {
	return base32Encoding(base32.StdEncoding, pad).EncodeToString(data)
}

// Base32Decode decodes an RFC 4648 base32 string.
func Base32Decode(s string, pad Padding) ([]byte, error) {
	out, err := base32Encoding(base32.StdEncoding, pad).DecodeString(s)
	if err != nil {
		return nil, newEncodingError("base32", err.Error())
	}
	return out, nil
}

// Base32HexEncode encodes data with the RFC 4648 "base32hex" alphabet (0-9 A-V).
func Base32HexEncode(data []byte, pad Padding) string {
	return base32Encoding(base32.HexEncoding, pad).EncodeToString(data)
}

// Base32HexDecode decodes a base32hex string.
func Base32HexDecode(s string, pad Padding) ([]byte, error) {
	out, err := base32Encoding(base32.HexEncoding, pad).DecodeString(s)
	if err != nil {
		return nil, newEncodingError("base32hex", err.Error())
	}
	return out, nil
}

func base32Encoding(base *base32.Encoding, pad Padding) *base32.Encoding {
	if pad == NoPadding {
		return base.WithPadding(base32.NoPadding)
	}
	return base
}

// Base16Encode encodes data as uppercase hexadecimal, the RFC 4648
// "base16" alphabet (0-9 A-F). Base16 has no partial final group, so
// padding never applies.
func Base16Encode(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// Base16Decode decodes a hexadecimal string. Both upper- and lower-case
// hex digits are accepted on input; any other character, or an odd-length
// string, is an EncodingError (codec "base16").
func Base16Decode(s string) ([]byte, error) {
	out, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, newEncodingError("base16", err.Error())
	}
	return out, nil
}
