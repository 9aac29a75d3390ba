// Package server implements the listening server (C13): bind, accept,
// per-connection dispatch to application handling logic, and graceful
// shutdown, grounded on spec.md section 4.8. The teacher has no server
// side at all (it is a client-only library); the accept-loop/registry
// shape here follows the broader retrieval pack's server-shaped
// conventions (goroutine-per-connection; shutdown closes the listener and
// the registered connections, then waits on a sync.WaitGroup).
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/go-httpcore/httpcore/pkg/constants"
	"github.com/go-httpcore/httpcore/pkg/httpparse"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
)

// State is the server's lifecycle stage (spec.md section 4.8: idle ->
// bound -> running -> stopped).
type State int

const (
	StateIdle State = iota
	StateBound
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateBound:
		return "bound"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Options configures a Server.
type Options struct {
	// Timeout is the per-operation deadline applied to every accepted
	// connection's socket.
	Timeout time.Duration
	// Network selects the listening family: "tcp", "tcp4", or "tcp6". An
	// empty value and an empty host together bind to all interfaces on
	// whichever family Network names (default "tcp").
	Network string
}

// DefaultOptions returns a 30-second per-connection deadline on "tcp".
func DefaultOptions() Options {
	return Options{Timeout: constants.DefaultReadTimeout, Network: "tcp"}
}

// Respond is the application's request-handling callback (spec.md section
// 4.8's "server callback contract"): it must write a response back onto
// conn or close it. When req.SuggestedStatus is an error, the handler is
// expected to answer with that status.
type Respond func(conn *sockconn.Connection, req *message.Request)

// CreateConnection lets a caller substitute a TLS-capable *sockconn.Connection
// for the plain default, invoked once per accepted net.Conn.
type CreateConnection func(net.Conn) *sockconn.Connection

// Server binds a listener and dispatches each accepted connection to a
// Respond callback, one goroutine per connection.
type Server struct {
	Options Options

	mu       sync.Mutex
	state    State
	listener net.Listener

	connMu      sync.Mutex
	connections map[*sockconn.Connection]struct{}

	wg sync.WaitGroup

	parser *httpparse.Parser

	LogFormatter *LogFormatter
}

// New builds an idle Server with opts.
func New(opts Options) *Server {
	return &Server{
		Options:      opts,
		connections:  make(map[*sockconn.Connection]struct{}),
		parser:       httpparse.NewParser(),
		LogFormatter: NewLogFormatter(),
	}
}

// State reports the server's current lifecycle stage.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start binds address (host:port; an empty host binds to all interfaces)
// and transitions idle -> bound. It does not yet accept connections; call
// Run or RunBackground for that.
func (s *Server) Start(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return errAlreadyStarted
	}

	network := s.Options.Network
	if network == "" {
		network = "tcp"
	}
	lc := net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), network, address)
	if err != nil {
		return err
	}
	s.listener = ln
	s.state = StateBound
	return nil
}

// Run drives the accept loop on the calling goroutine until Stop is
// called or the listener fails irrecoverably, dispatching each accepted
// connection to respond on its own goroutine. createConnection may be nil
// to use the plain-TCP default (a TLS adapter would supply one here).
func (s *Server) Run(respond Respond, createConnection CreateConnection) error {
	s.mu.Lock()
	if s.state != StateBound {
		s.mu.Unlock()
		return errNotBound
	}
	s.state = StateRunning
	ln := s.listener
	s.mu.Unlock()

	for {
		netConn, err := ln.Accept()
		if err != nil {
			if s.State() == StateStopped {
				return nil
			}
			return err
		}

		var conn *sockconn.Connection
		if createConnection != nil {
			conn = createConnection(netConn)
		} else {
			conn = sockconn.NewConnection(netConn)
		}
		conn.SetTimeout(s.Options.Timeout)

		if !s.registerConn(conn) {
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.unregisterConn(conn)
			s.dispatch(conn, respond)
		}()
	}
}

// RunBackground wraps Run in a background goroutine (spec.md section
// 4.8's "the public start() API wraps [the event loop] in a background
// thread"), returning immediately. Errors from the accept loop are sent to
// onFailure, if non-nil.
func (s *Server) RunBackground(respond Respond, createConnection CreateConnection, onFailure func(error)) {
	go func() {
		if err := s.Run(respond, createConnection); err != nil && onFailure != nil {
			onFailure(err)
		}
	}()
}

// dispatch parses one request off conn and invokes respond, closing conn
// once respond returns (spec.md section 9: keep-alive is not implemented
// here, only a documented extension point at the client's connection
// pool). A connection whose initial read fails (e.g. the deadline fires
// before any byte arrives) never reaches respond; a request that fails to
// parse reaches respond with SuggestedStatus set to the parser's error
// status (e.g. BadRequest).
func (s *Server) dispatch(conn *sockconn.Connection, respond Respond) {
	defer conn.Close()

	req, suggested, err := s.parser.ParseRequest(conn)
	if err != nil && req == nil {
		return
	}
	req.SuggestedStatus = suggested
	req.ReceivedAt = time.Now()
	if host, _, splitErr := net.SplitHostPort(conn.RemoteAddr().String()); splitErr == nil {
		req.RemoteIP = host
	}

	respond(conn, req)
}

func (s *Server) registerConn(conn *sockconn.Connection) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if _, exists := s.connections[conn]; exists {
		return false
	}
	s.connections[conn] = struct{}{}
	return true
}

func (s *Server) unregisterConn(conn *sockconn.Connection) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.connections, conn)
}

// Stop closes the listener (ending the accept loop) and every
// currently-registered connection, then waits for in-flight dispatch
// goroutines to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateBound {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	ln := s.listener
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}

	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return err
}

// Addr returns the listener's bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

type serverError string

func (e serverError) Error() string { return string(e) }

const (
	errAlreadyStarted = serverError("server: already started")
	errNotBound       = serverError("server: not bound")
)
