package sockconn

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

const initialPrimeSize = 1024

// inputStreambuf buffers already-read bytes and tracks an "expected input"
// counter: how many more bytes the next read may pull from the socket to
// satisfy a caller, per spec.md's glossary entry for expected input. The
// counter is a pull budget, not a framing guarantee — pkg/body's
// InputStream is what enforces the hard Content-Length cutoff.
type inputStreambuf struct {
	socket        io.Reader
	buffered      []byte
	expectedInput int64 // -1 means unlimited (still reading header lines)
}

func newInputStreambuf(socket io.Reader) *inputStreambuf {
	return &inputStreambuf{socket: socket, expectedInput: -1}
}

// prime performs the initial best-effort read that seeds the buffer before
// the consumer starts pulling lines or body bytes from it.
func (s *inputStreambuf) prime(n int) error {
	buf := make([]byte, n)
	read, err := s.socket.Read(buf)
	if read > 0 {
		s.buffered = append(s.buffered, buf[:read]...)
	}
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}

// setExpectedInput tells the streambuf how many more bytes may be pulled
// from the socket to satisfy reads beyond what is already buffered. A
// negative value means unlimited.
func (s *inputStreambuf) setExpectedInput(n int64) {
	s.expectedInput = n
}

func (s *inputStreambuf) Read(p []byte) (int, error) {
	if len(s.buffered) == 0 {
		if s.expectedInput == 0 {
			return 0, io.EOF
		}
		chunk := 4096
		if s.expectedInput > 0 && s.expectedInput < int64(chunk) {
			chunk = int(s.expectedInput)
		}
		buf := make([]byte, chunk)
		n, err := s.socket.Read(buf)
		if n > 0 {
			s.buffered = append(s.buffered, buf[:n]...)
			if s.expectedInput > 0 {
				s.expectedInput -= int64(n)
			}
		}
		if n == 0 && err != nil {
			return 0, err
		}
	}
	n := copy(p, s.buffered)
	s.buffered = s.buffered[n:]
	return n, nil
}

// outputStreambuf accumulates writes and commits them to the socket in one
// shot, so a partially built response is never dribbled onto the wire.
type outputStreambuf struct {
	socket io.Writer
	buf    bytes.Buffer
}

func newOutputStreambuf(socket io.Writer) *outputStreambuf {
	return &outputStreambuf{socket: socket}
}

func (s *outputStreambuf) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Commit flushes the accumulated bytes to the socket and resets the buffer.
func (s *outputStreambuf) Commit() error {
	if s.buf.Len() == 0 {
		return nil
	}
	_, err := s.socket.Write(s.buf.Bytes())
	s.buf.Reset()
	return err
}

// sendCommitter is the io.WriteCloser handed to callers of SendStream:
// Close commits the accumulated bytes to the socket.
type sendCommitter struct {
	out *outputStreambuf
}

func (c *sendCommitter) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c *sendCommitter) Close() error                { return c.out.Commit() }

// Connection pairs a DeadlineSocket with an input and an output streambuf
// (C12): the unit the parser and formatter read from and write to.
type Connection struct {
	socket *TimeoutSocket
	in     *inputStreambuf
	out    *outputStreambuf

	mu     sync.Mutex
	closed bool
}

// NewConnection wraps conn (a net.Conn, a *tls.Conn, or any other
// DeadlineSocket) into a Connection with no timeout configured.
func NewConnection(conn DeadlineSocket) *Connection {
	ts := NewTimeoutSocket(conn)
	return &Connection{
		socket: ts,
		in:     newInputStreambuf(ts),
		out:    newOutputStreambuf(ts),
	}
}

// SetTimeout configures the deadline applied to the next socket operation.
func (c *Connection) SetTimeout(d time.Duration) {
	c.socket.SetTimeout(d)
}

// ReceiveStream primes the input buffer with an initial read (spec.md
// section 4.8's "initial 1 KiB read" design note) and returns a reader over
// it. expectedInput bounds how many more bytes may be pulled from the
// socket once the buffer runs dry; pass a negative value while the caller
// is still reading header lines of unknown total length.
//
// Call this only once per message, before any bytes have been consumed
// from the returned reader by an intermediate buffering reader (e.g. the
// parser's bufio.Reader). Once consumption has started, use
// SetExpectedInput to narrow the framing instead — re-priming here would
// issue a second blocking socket read even when the body already arrived
// and sits buffered inside that intermediate reader, with no further bytes
// coming from the peer.
func (c *Connection) ReceiveStream(expectedInput int64) (io.Reader, error) {
	if len(c.in.buffered) == 0 {
		if err := c.in.prime(initialPrimeSize); err != nil {
			return nil, err
		}
	}
	c.in.setExpectedInput(expectedInput)
	return c.in, nil
}

// SetExpectedInput narrows how many more bytes a stream already obtained
// from ReceiveStream may pull from the socket, without issuing a fresh
// priming read. Use this once a body's declared Content-Length is known
// but the stream has already been wrapped by an intermediate buffering
// reader, so the body bytes it already holds are not stranded behind an
// unnecessary (and potentially blocking) re-prime.
func (c *Connection) SetExpectedInput(n int64) {
	c.in.setExpectedInput(n)
}

// SendStream returns a writer that accumulates bytes in memory; Close
// commits the accumulated message onto the socket in a single write.
func (c *Connection) SendStream() io.WriteCloser {
	return &sendCommitter{out: c.out}
}

// RemoteAddr returns the peer address.
func (c *Connection) RemoteAddr() net.Addr { return c.socket.RemoteAddr() }

// LocalAddr returns this end's address.
func (c *Connection) LocalAddr() net.Addr { return c.socket.LocalAddr() }

// Close closes the underlying socket. Safe to call more than once.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.socket.Close()
}

// Closed reports whether Close has already been called.
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
