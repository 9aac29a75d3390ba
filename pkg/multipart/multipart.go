// Package multipart implements parsing and formatting of multipart/* bodies
// (spec.md section 4.7): boundary-delimited parts, each with its own
// headers and raw content.
package multipart

import (
	"strings"

	"github.com/go-httpcore/httpcore/pkg/errors"
	"github.com/go-httpcore/httpcore/pkg/headers"
)

// Part is a single multipart body part: its own header block plus raw
// content bytes.
type Part struct {
	Headers *headers.Multimap
	Content []byte
}

// Multipart is a boundary string plus an ordered list of parts.
type Multipart struct {
	Boundary string
	Parts    []Part
}

// ValidBoundary reports whether boundary is non-empty, printable ASCII, and
// does not end with a space, the validity rule spec.md section 4.7 requires
// before a multipart body can be parsed.
func ValidBoundary(boundary string) bool {
	if boundary == "" {
		return false
	}
	if strings.HasSuffix(boundary, " ") {
		return false
	}
	for i := 0; i < len(boundary); i++ {
		c := boundary[i]
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// Parse reads data (the already-framed body content) as a multipart/*
// payload delimited by boundary. Lines are classified as boundary
// ("--boundary"), last-boundary ("--boundary--"), or data; the trailing
// CRLF immediately before a boundary line is stripped from the preceding
// part's content, and everything between boundaries is nested headers
// followed by raw content bytes.
func Parse(data []byte, boundary string) (*Multipart, error) {
	if !ValidBoundary(boundary) {
		return nil, errors.NewParserError("invalid multipart boundary", nil)
	}

	lines := splitCRLF(data)
	delim := "--" + boundary
	lastDelim := delim + "--"

	mp := &Multipart{Boundary: boundary}

	i := 0
	for i < len(lines) && lines[i] != delim {
		i++
	}
	if i >= len(lines) {
		return nil, errors.NewParserError("multipart boundary not found", nil)
	}
	i++

	for i < len(lines) {
		if lines[i] == lastDelim {
			return mp, nil
		}

		h := headers.NewHeaders()
		for i < len(lines) && lines[i] != "" {
			name, value, ok := splitHeaderLine(lines[i])
			if !ok {
				return nil, errors.NewParserError("malformed multipart part header", nil)
			}
			h.Append(name, value)
			i++
		}
		if i < len(lines) {
			i++ // consume the blank line terminating the headers
		}

		var content []string
		for i < len(lines) && lines[i] != delim && lines[i] != lastDelim {
			content = append(content, lines[i])
			i++
		}
		mp.Parts = append(mp.Parts, Part{Headers: h, Content: []byte(strings.Join(content, "\r\n"))})

		if i >= len(lines) {
			break
		}
		if lines[i] == lastDelim {
			return mp, nil
		}
		i++ // consume the intermediate boundary line, next part follows
	}

	return mp, nil
}

func splitCRLF(data []byte) []string {
	return strings.Split(string(data), "\r\n")
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:colon]), strings.TrimSpace(line[colon+1:]), true
}

// Format serializes mp back onto the wire, symmetric to Parse.
func Format(mp *Multipart) []byte {
	var b strings.Builder
	delim := "--" + mp.Boundary
	for _, part := range mp.Parts {
		b.WriteString(delim)
		b.WriteString("\r\n")
		for _, pair := range part.Headers.Items() {
			b.WriteString(pair.Key)
			b.WriteString(": ")
			b.WriteString(pair.Value)
			b.WriteString("\r\n")
		}
		b.WriteString("\r\n")
		b.Write(part.Content)
		b.WriteString("\r\n")
	}
	b.WriteString(delim)
	b.WriteString("--")
	return []byte(b.String())
}
