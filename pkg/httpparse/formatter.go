package httpparse

import (
	"io"
	"strconv"
	"time"

	"github.com/go-httpcore/httpcore/pkg/headers"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

// Formatter serializes Request/Response objects back onto the wire,
// symmetric to Parser (spec.md section 4.7's "Formatter" paragraph). The
// zero value uses "\r\n" line endings; set LineEnding to override it.
type Formatter struct {
	LineEnding string
}

// NewFormatter builds a Formatter using the default CRLF line ending.
func NewFormatter() *Formatter {
	return &Formatter{LineEnding: "\r\n"}
}

func (f *Formatter) eol() string {
	if f.LineEnding == "" {
		return "\r\n"
	}
	return f.LineEnding
}

// FormatRequest writes method, encoded target, query string and protocol,
// then headers, then a Host header (if one is not already present), then a
// Cookie header consolidated from req.Cookies (if no Cookie header is
// already set), then Content-Type/Content-Length when a body is present,
// the blank line, and finally the body.
func (f *Formatter) FormatRequest(w io.Writer, req *message.Request) error {
	eol := f.eol()
	bw := &errWriter{w: w}

	target := req.URL.Path.URLEncoded(false)
	if target == "" {
		target = "/"
	}
	target += req.URL.QueryString(true)

	bw.writeString(req.Method)
	bw.writeString(" ")
	bw.writeString(target)
	bw.writeString(" ")
	bw.writeString(req.Protocol.String())
	bw.writeString(eol)

	for _, pair := range req.Headers.Items() {
		writeHeaderLine(bw, pair.Key, pair.Value, eol)
	}

	if !req.Headers.Has(headers.Host) {
		writeHeaderLine(bw, headers.Host, req.URL.Authority.Full(), eol)
	}

	if !req.Headers.Has(headers.Cookie) && req.Cookies != nil && req.Cookies.Len() > 0 {
		writeHeaderLine(bw, headers.Cookie, formatCookieHeader(req.Cookies), eol)
	}

	if err := writeBodyHeadersAndContent(bw, req.Headers, &req.Input, eol); err != nil {
		return err
	}
	return bw.err
}

// FormatResponse writes the status line, a Date header (unless present),
// caller headers, pending Set-Cookie entries (unless already present),
// authenticate challenges (unless already present), Content-Type/Length
// when a body exists (unless present), the blank line, then the body.
func (f *Formatter) FormatResponse(w io.Writer, resp *message.Response) error {
	eol := f.eol()
	bw := &errWriter{w: w}

	bw.writeString(resp.Protocol.String())
	bw.writeString(" ")
	bw.writeString(resp.Status.String())
	bw.writeString(eol)

	if !resp.Headers.Has(headers.Date) {
		writeHeaderLine(bw, headers.Date, resp.EmittedAt.UTC().Format(time.RFC1123), eol)
	}

	for _, pair := range resp.Headers.Items() {
		writeHeaderLine(bw, pair.Key, pair.Value, eol)
	}

	if !resp.Headers.Has(headers.SetCookie) {
		for _, sc := range resp.CookieSet {
			writeHeaderLine(bw, headers.SetCookie, sc.String(), eol)
		}
	}

	if !resp.Headers.Has(headers.WWWAuthenticate) {
		for _, c := range resp.WWWAuthenticate {
			writeHeaderLine(bw, headers.WWWAuthenticate, c.String(), eol)
		}
	}
	if !resp.Headers.Has(headers.ProxyAuthenticate) {
		for _, c := range resp.ProxyAuthenticate {
			writeHeaderLine(bw, headers.ProxyAuthenticate, c.String(), eol)
		}
	}

	if err := writeBodyHeadersAndContent(bw, resp.Headers, &resp.Output, eol); err != nil {
		return err
	}
	return bw.err
}

func formatCookieHeader(cookies *headers.Multimap) string {
	var out string
	for i, pair := range cookies.Items() {
		if i > 0 {
			out += "; "
		}
		out += pair.Key + "=" + pair.Value
	}
	return out
}

func writeHeaderLine(bw *errWriter, name, value, eol string) {
	bw.writeString(name)
	bw.writeString(": ")
	bw.writeString(value)
	bw.writeString(eol)
}

// bodyCarrier is the subset of *body.Body the formatter needs: does this
// message actually have an output body, and what are its framing details.
type bodyCarrier interface {
	HasOutputData() bool
	OutputLen() int64
	OutputContentType() (string, bool)
	OutputReader() (io.ReadCloser, error)
}

func writeBodyHeadersAndContent(bw *errWriter, h *headers.Multimap, b bodyCarrier, eol string) error {
	if !b.HasOutputData() {
		bw.writeString(eol)
		return bw.err
	}

	if ct, ok := b.OutputContentType(); ok && !h.Has(headers.ContentType) {
		writeHeaderLine(bw, headers.ContentType, ct, eol)
	}
	if !h.Has(headers.ContentLength) {
		writeHeaderLine(bw, headers.ContentLength, strconv.FormatInt(b.OutputLen(), 10), eol)
	}
	bw.writeString(eol)

	r, err := b.OutputReader()
	if err != nil {
		return err
	}
	defer r.Close()
	if bw.err != nil {
		return bw.err
	}
	_, err = io.Copy(bw.w, r)
	if err != nil {
		bw.err = err
	}
	return bw.err
}

// errWriter wraps an io.Writer, latching the first error so call sites can
// chain writes without checking each one.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// ResolveRedirectTarget resolves a Location header value against the
// request that provoked it: a relative reference (no authority) inherits
// base's scheme and authority, matching spec.md section 4.9's "resolve the
// target (inheriting the original authority when missing)".
func ResolveRedirectTarget(base, ref uri.URI) uri.URI {
	if !ref.Authority.Empty() {
		return ref
	}
	resolved := ref
	resolved.Authority = base.Authority
	resolved.Scheme = base.Scheme
	return resolved
}
