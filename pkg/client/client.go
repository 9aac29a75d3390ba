// Package client implements the synchronous HTTP client transaction (C14):
// connect, format, send, parse, and redirect-follow, grounded on spec.md
// section 4.9 and adapted from the teacher's pkg/transport host-pool for
// the optional keep-alive extension point (SPEC_FULL.md section 4.11).
package client

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-httpcore/httpcore/pkg/constants"
	"github.com/go-httpcore/httpcore/pkg/errors"
	"github.com/go-httpcore/httpcore/pkg/headers"
	"github.com/go-httpcore/httpcore/pkg/httpparse"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
	"github.com/go-httpcore/httpcore/pkg/status"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

// Options controls how a Client dials and replays requests across
// redirects (spec.md section 4.9).
type Options struct {
	// Timeout is the per-operation socket deadline applied to every
	// connection the client opens (spec.md section 4.6).
	Timeout time.Duration

	// UserAgent is the "User-Agent" header value the client sets on a
	// request that carries none, when no Hooks.ProcessRequest is installed
	// (an installed hook replaces this default).
	UserAgent string

	// MaxRedirects bounds how many 3xx hops query() will follow before
	// failing with a redirect error.
	MaxRedirects int

	// FollowSchemeChange resolves spec.md section 9's open question:
	// whether a redirect may change http<->https is a policy knob,
	// defaulting to true ("follow").
	FollowSchemeChange bool

	// ReuseConnection turns on the keep-alive connection pool
	// (SPEC_FULL.md section 4.11); off by default, matching spec.md's
	// explicit close-after-use semantics.
	ReuseConnection bool
	Pool            PoolConfig
}

// DefaultOptions returns sensible defaults: a 30s deadline, up to 10
// redirects followed, scheme changes allowed, pooling off.
func DefaultOptions() Options {
	return Options{
		Timeout:            constants.DefaultReadTimeout,
		UserAgent:          "httpcore/1.0",
		MaxRedirects:       10,
		FollowSchemeChange: true,
		Pool:               DefaultPoolConfig(),
	}
}

// Hooks are the extension points spec.md section 4.9/section 6 name:
// ProcessRequest/ProcessResponse observe or rewrite a request/response in
// place; OnAttempt decides whether a 3xx response should be followed;
// OnConnect runs right after a TCP connection is established (a TLS
// adapter performs its handshake here); CreateConnection lets a caller
// substitute a TLS-capable *sockconn.Connection for the plain default.
type Hooks struct {
	ProcessRequest   func(*message.Request)
	ProcessResponse  func(*message.Request, *message.Response)
	OnAttempt        func(req *message.Request, resp *message.Response, attempt int) bool
	OnConnect        func(u uri.URI, conn *sockconn.Connection) error
	CreateConnection func(net.Conn) *sockconn.Connection
}

// Client performs HTTP/1.x request/response cycles over connections it
// dials itself, following redirects per the policy in Options.
type Client struct {
	Options Options
	Hooks   Hooks
	Dialer  *net.Dialer

	parser    *httpparse.Parser
	formatter *httpparse.Formatter
	pool      *hostPool
}

// New builds a Client with default options and no pooling.
func New() *Client {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions builds a Client with the given options, starting the
// connection pool's background sweep goroutine when pooling is enabled.
func NewWithOptions(opts Options) *Client {
	c := &Client{
		Options:   opts,
		Dialer:    &net.Dialer{},
		parser:    httpparse.NewParser(),
		formatter: httpparse.NewFormatter(),
	}
	if opts.ReuseConnection {
		c.pool = newHostPool(opts.Pool)
	}
	return c
}

// Close stops the connection pool's background goroutine, if pooling is
// enabled, and closes every idle connection it holds.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.close()
	}
}

// PoolStats reports the pool's idle-connection counts; zero value when
// pooling is disabled.
func (c *Client) PoolStats() Stats {
	if c.pool == nil {
		return Stats{}
	}
	return c.pool.stats()
}

// resolveAuthority returns u's host and the port to dial: the explicit
// port when present, otherwise the scheme's default (443 for https, 80
// otherwise), matching spec.md section 4.9's "connect(uri) resolves the
// authority... defaulting port to the scheme when absent".
func resolveAuthority(u uri.URI) (host string, port int) {
	host = u.Authority.Host
	if u.Authority.Port != nil {
		return host, int(*u.Authority.Port)
	}
	if strings.EqualFold(u.Scheme, "https") {
		return host, 443
	}
	return host, 80
}

// Connect resolves u's authority, dials a TCP connection (via CreateConnection
// if the caller supplied one, e.g. a TLS adapter), applies the configured
// timeout, and invokes OnConnect.
func (c *Client) Connect(ctx context.Context, u uri.URI) (*sockconn.Connection, error) {
	host, port := resolveAuthority(u)
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	if c.pool != nil {
		if conn, ok := c.pool.take(addr); ok {
			return conn, nil
		}
	}

	netConn, err := c.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.NewConnectionError(host, port, err)
	}

	var conn *sockconn.Connection
	if c.Hooks.CreateConnection != nil {
		conn = c.Hooks.CreateConnection(netConn)
	} else {
		conn = sockconn.NewConnection(netConn)
	}
	conn.SetTimeout(c.Options.Timeout)

	if c.Hooks.OnConnect != nil {
		if err := c.Hooks.OnConnect(u, conn); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// Do is the convenience entry point: connect (if req has no connection
// attached yet) and run the full query/redirect cycle.
func (c *Client) Do(ctx context.Context, req *message.Request) (*message.Response, error) {
	return c.Query(ctx, req)
}

// Query performs one request/response cycle and follows redirects per
// spec.md section 4.9, returning the final response (attempt N).
func (c *Client) Query(ctx context.Context, req *message.Request) (*message.Response, error) {
	return c.attempt(ctx, req, 0)
}

func defaultProcessRequest(req *message.Request, userAgent string) {
	if userAgent != "" && !req.Headers.Has(headers.UserAgent) {
		req.Headers.Append(headers.UserAgent, userAgent)
	}
}

func connectionWantsClose(resp *message.Response) bool {
	v, ok := resp.Headers.Get(headers.Connection)
	return ok && strings.EqualFold(strings.TrimSpace(v), "close")
}

func sameAuthority(a, b uri.URI) bool {
	ah, ap := resolveAuthority(a)
	bh, bp := resolveAuthority(b)
	return strings.EqualFold(ah, bh) && ap == bp
}

func (c *Client) attempt(ctx context.Context, req *message.Request, n int) (*message.Response, error) {
	if req.Connection == nil {
		conn, err := c.Connect(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		req.Connection = conn
	}

	if c.Hooks.ProcessRequest != nil {
		c.Hooks.ProcessRequest(req)
	} else {
		defaultProcessRequest(req, c.Options.UserAgent)
	}

	send := req.Connection.SendStream()
	if err := c.formatter.FormatRequest(send, req); err != nil {
		send.Close()
		req.Connection.Close()
		return nil, err
	}
	if err := send.Close(); err != nil {
		req.Connection.Close()
		return nil, err
	}

	resp, err := c.parser.ParseResponse(req.Connection, req.Method)
	if err != nil {
		req.Connection.Close()
		return nil, err
	}
	resp.EmittedAt = time.Now()

	if c.Hooks.ProcessResponse != nil {
		c.Hooks.ProcessResponse(req, resp)
	}

	eligible := resp.Status.Category() == status.Redirection
	follow := eligible
	if c.Hooks.OnAttempt != nil {
		follow = c.Hooks.OnAttempt(req, resp, n) && eligible
	}

	if !follow {
		c.release(req.Connection, resp)
		return resp, nil
	}

	if n >= c.Options.MaxRedirects {
		c.release(req.Connection, resp)
		return resp, errors.NewRedirectError("too many redirects")
	}

	loc, ok := resp.Headers.Get(headers.Location)
	if !ok {
		c.release(req.Connection, resp)
		return resp, nil
	}

	target := httpparse.ResolveRedirectTarget(req.URL, uri.Parse(loc))
	if !c.Options.FollowSchemeChange && !strings.EqualFold(target.Scheme, req.URL.Scheme) {
		c.release(req.Connection, resp)
		return resp, nil
	}

	nextReq := message.NewRequest(req.Method, target)
	nextReq.Headers = req.Headers.Clone()
	if req.Cookies != nil {
		nextReq.Cookies = req.Cookies.Clone()
	}
	nextReq.Auth = req.Auth

	// Legacy redirect behavior (spec.md section 4.9): a POST redirected by
	// a 3xx is rewritten to GET with its body dropped. nextReq already
	// starts with no body attached, so "drop the body" falls out of
	// building a fresh Request rather than carrying req.Input forward.
	if strings.EqualFold(req.Method, "POST") {
		nextReq.Method = "GET"
		nextReq.Headers.Del(headers.ContentLength)
		nextReq.Headers.Del(headers.ContentType)
	}

	// When pooling is off (the default, spec.md section 9's "explicit close
	// after each response"), the connection was already handed to the peer
	// as a one-shot socket, so every redirect hop needs a fresh one — there
	// is no keep-alive to reuse regardless of authority or Connection header.
	reconnect := !c.Options.ReuseConnection || connectionWantsClose(resp) || req.Connection.Closed() || !sameAuthority(target, req.URL)

	if reconnect {
		req.Connection.Close()
		conn, err := c.Connect(ctx, target)
		if err != nil {
			return nil, err
		}
		nextReq.Connection = conn
	} else {
		nextReq.Connection = req.Connection
	}

	return c.attempt(ctx, nextReq, n+1)
}

// release either parks conn in the pool (when reuse is enabled and the
// peer did not ask to close) or closes it, the default spec.md section 9
// "explicit close semantics" behavior.
func (c *Client) release(conn *sockconn.Connection, resp *message.Response) {
	if c.pool != nil && !connectionWantsClose(resp) {
		c.pool.put(conn.RemoteAddr().String(), conn)
		return
	}
	conn.Close()
}
