// Package cookie implements RFC 6265 cookies: the server-side Set-Cookie
// model and the client-side stored-cookie model with domain/path matching
// and expiry.
package cookie

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-httpcore/httpcore/pkg/codec"
)

// ServerCookie is the outbound form built by application code and emitted
// as a Set-Cookie header.
type ServerCookie struct {
	Name       string
	Value      string
	Expires    *time.Time
	MaxAge     *time.Duration
	Domain     string
	Path       string
	Secure     bool
	HTTPOnly   bool
	Extensions []string
}

// String renders the full Set-Cookie header value ("Name=Value" plus
// attributes) in the field order: Name=value; Expires; Max-Age; Domain;
// Path; Secure; HttpOnly; then each extension.
func (c ServerCookie) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Expires != nil {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(http1123))
	}
	if c.MaxAge != nil {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.FormatInt(int64(c.MaxAge.Seconds()), 10))
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(codec.URLEncode(c.Path, false))
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	for _, ext := range c.Extensions {
		b.WriteString("; ")
		b.WriteString(ext)
	}

	return b.String()
}

// http1123 matches the "Expires" date format (RFC 7231 section 7.1.1.1,
// the IMF-fixdate "Sun, 06 Nov 1994 08:49:37 GMT" form).
const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"
