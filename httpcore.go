// Package httpcore is an embeddable toolkit for speaking HTTP/1.x over
// TCP: a precise, allocation-conservative message model together with the
// parser/formatter and connection runtime needed to read and write it, on
// both sides of a connection (server and client). Routing, TLS, templating,
// and persistence are left to the application; see the package docs of
// pkg/sockconn for the socket capability a TLS adapter must satisfy.
//
// This file is the thin facade the teacher's rawhttp.go also used: the
// package-level building blocks live in leaf packages under pkg/, and this
// file re-exports the types an application typically needs without making
// it import half a dozen subpackages for a basic client/server.
package httpcore

import (
	"github.com/go-httpcore/httpcore/pkg/asyncclient"
	"github.com/go-httpcore/httpcore/pkg/client"
	"github.com/go-httpcore/httpcore/pkg/cookie"
	"github.com/go-httpcore/httpcore/pkg/headers"
	"github.com/go-httpcore/httpcore/pkg/httpparse"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/mimetype"
	"github.com/go-httpcore/httpcore/pkg/protocol"
	"github.com/go-httpcore/httpcore/pkg/server"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
	"github.com/go-httpcore/httpcore/pkg/status"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

// Version is the current version of the httpcore module.
const Version = "1.0.0"

// GetVersion returns the current module version string.
func GetVersion() string {
	return Version
}

// Re-export the types an application wires together most often, so that
// basic client/server code can import a single package.
type (
	// Request is a parsed or about-to-be-formatted HTTP request.
	Request = message.Request
	// Response is a received or about-to-be-formatted HTTP response.
	Response = message.Response
	// Headers is the ordered, case-insensitive header multimap.
	Headers = headers.Multimap
	// URI is the parsed scheme://authority/path?query#fragment model.
	URI = uri.URI
	// Protocol is the "NAME/MAJOR.MINOR" token (e.g. HTTP/1.1).
	Protocol = protocol.Protocol
	// Status pairs a numeric code with its reason phrase.
	Status = status.Status
	// MimeType is the parsed Content-Type-style tuple.
	MimeType = mimetype.MimeType
	// ServerCookie is the outbound Set-Cookie model.
	ServerCookie = cookie.ServerCookie
	// ClientCookie is the inbound stored-cookie model.
	ClientCookie = cookie.ClientCookie
	// CookieJar stores and matches client-side cookies.
	CookieJar = cookie.Jar

	// Connection pairs a deadline socket with input/output stream buffers.
	Connection = sockconn.Connection
	// Parser reads Request/Response objects off a Connection.
	Parser = httpparse.Parser
	// Formatter writes Request/Response objects onto a Connection.
	Formatter = httpparse.Formatter

	// Server accepts connections and dispatches requests to a Respond callback.
	Server = server.Server
	// ServerOptions configures a Server.
	ServerOptions = server.Options
	// Respond is the application's request-handling callback.
	Respond = server.Respond

	// Client performs synchronous request/response cycles with redirects.
	Client = client.Client
	// ClientOptions configures a Client.
	ClientOptions = client.Options
	// ClientHooks are the Client's request/response/redirect extension points.
	ClientHooks = client.Hooks

	// AsyncClient services many concurrent outstanding requests in the background.
	AsyncClient = asyncclient.AsyncClient
)

// NewRequest builds an empty request for method/url.
func NewRequest(method string, url URI) *Request { return message.NewRequest(method, url) }

// NewResponse builds a response carrying st.
func NewResponse(st Status) *Response { return message.NewResponse(st) }

// NewHeaders creates an empty case-insensitive header multimap.
func NewHeaders() *Headers { return headers.NewHeaders() }

// ParseURI parses raw URI text per RFC 3986.
func ParseURI(raw string) URI { return uri.Parse(raw) }

// NewServer builds an idle Server with opts.
func NewServer(opts ServerOptions) *Server { return server.New(opts) }

// NewClient builds a Client with default options and no connection pooling.
func NewClient() *Client { return client.New() }

// NewClientWithOptions builds a Client with the given options.
func NewClientWithOptions(opts ClientOptions) *Client { return client.NewWithOptions(opts) }

// NewAsyncClient wraps c (or a default client.Client, when c is nil) in an
// AsyncClient with no worker running yet.
func NewAsyncClient(c *Client) *AsyncClient { return asyncclient.New(c) }

// DefaultServerOptions returns server.DefaultOptions().
func DefaultServerOptions() ServerOptions { return server.DefaultOptions() }

// DefaultClientOptions returns client.DefaultOptions().
func DefaultClientOptions() ClientOptions { return client.DefaultOptions() }
