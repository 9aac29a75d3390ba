package message

import (
	"time"

	"github.com/go-httpcore/httpcore/pkg/body"
	"github.com/go-httpcore/httpcore/pkg/cookie"
	"github.com/go-httpcore/httpcore/pkg/headers"
	"github.com/go-httpcore/httpcore/pkg/protocol"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
	"github.com/go-httpcore/httpcore/pkg/status"
)

// Response is a received (or about-to-be-formatted) HTTP response
// (spec.md section 3).
type Response struct {
	Status   status.Status
	Protocol protocol.Protocol
	Headers  *headers.Multimap

	CookieSet []cookie.ServerCookie

	WWWAuthenticate   []AuthChallenge
	ProxyAuthenticate []AuthChallenge

	Output body.Body

	EmittedAt  time.Time
	Connection *sockconn.Connection
}

// NewResponse builds a response carrying st, ready to have headers and a
// body attached before being sent or formatted.
func NewResponse(st status.Status) *Response {
	return &Response{
		Status:   st,
		Protocol: protocol.HTTP11,
		Headers:  headers.NewHeaders(),
	}
}

// SetCookie appends sc to the response's outgoing cookie set.
func (r *Response) SetCookie(sc cookie.ServerCookie) {
	r.CookieSet = append(r.CookieSet, sc)
}

// Challenge appends an authentication challenge to the WWW-Authenticate
// list.
func (r *Response) Challenge(c AuthChallenge) {
	r.WWWAuthenticate = append(r.WWWAuthenticate, c)
}

// ProxyChallenge appends an authentication challenge to the
// Proxy-Authenticate list.
func (r *Response) ProxyChallenge(c AuthChallenge) {
	r.ProxyAuthenticate = append(r.ProxyAuthenticate, c)
}
