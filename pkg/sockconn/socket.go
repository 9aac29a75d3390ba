// Package sockconn implements the deadline-aware socket wrapper (C11) and
// the connection that pairs it with input/output stream buffers (C12).
package sockconn

import (
	"net"
	"sync"
	"time"

	"github.com/go-httpcore/httpcore/pkg/errors"
)

// DeadlineSocket is the capability set a connection needs from its
// transport: close, endpoint addresses, and deadline-governed read/write.
// A plain net.Conn already satisfies it; a TLS adapter's *tls.Conn does
// too, so the distinction between plain and TLS transport never needs to
// leak above this package (spec.md section 9's "polymorphic socket
// transport" design note).
type DeadlineSocket interface {
	Close() error
	RemoteAddr() net.Addr
	LocalAddr() net.Addr
	SetDeadline(t time.Time) error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// TimeoutSocket owns a DeadlineSocket and a single deadline shared across
// reads and writes. Setting a new timeout only takes effect for the next
// operation — it never reaches back into one already in flight (spec.md
// section 9's resolved open question), because the deadline is applied to
// the underlying socket immediately before each call, not when it is set.
type TimeoutSocket struct {
	socket DeadlineSocket
	mu     sync.Mutex
	timeout time.Duration
}

// NewTimeoutSocket wraps socket with no timeout configured (blocking
// indefinitely until SetTimeout is called).
func NewTimeoutSocket(socket DeadlineSocket) *TimeoutSocket {
	return &TimeoutSocket{socket: socket}
}

// SetTimeout replaces the deadline duration applied to subsequent
// operations. A zero duration means no deadline.
func (s *TimeoutSocket) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

func (s *TimeoutSocket) arm() {
	s.mu.Lock()
	d := s.timeout
	s.mu.Unlock()
	if d > 0 {
		s.socket.SetDeadline(time.Now().Add(d))
	} else {
		s.socket.SetDeadline(time.Time{})
	}
}

// Read arms the current deadline and reads from the underlying socket. A
// deadline firing surfaces as a structured timeout error.
func (s *TimeoutSocket) Read(p []byte) (int, error) {
	s.arm()
	n, err := s.socket.Read(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, errors.NewTimeoutError("read", s.timeout)
		}
	}
	return n, err
}

// Write arms the current deadline and writes to the underlying socket.
func (s *TimeoutSocket) Write(p []byte) (int, error) {
	s.arm()
	n, err := s.socket.Write(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, errors.NewTimeoutError("write", s.timeout)
		}
	}
	return n, err
}

// Close closes the underlying socket.
func (s *TimeoutSocket) Close() error { return s.socket.Close() }

// RemoteAddr returns the peer's address.
func (s *TimeoutSocket) RemoteAddr() net.Addr { return s.socket.RemoteAddr() }

// LocalAddr returns this end's address.
func (s *TimeoutSocket) LocalAddr() net.Addr { return s.socket.LocalAddr() }
