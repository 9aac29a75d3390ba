// Package body implements the dual-mode message body stream (spec.md
// section 3): an input stream framed by Content-Length, and an output
// buffer with deferred write. The two are modeled as distinct types behind
// a Body union whose mode, once set by first use, never changes (design
// note, spec.md section 9).
package body

import (
	"bytes"
	"io"

	"github.com/go-httpcore/httpcore/pkg/buffer"
	"github.com/go-httpcore/httpcore/pkg/errors"
	"github.com/go-httpcore/httpcore/pkg/mimetype"
)

// InputStream is bound to a source byte reader (typically a connection's
// input streambuf) and remembers the declared framing metadata. Its
// lifetime must not exceed the source's.
type InputStream struct {
	source        io.Reader
	contentLength int64
	contentType   mimetype.MimeType
	hasType       bool
	err           error
	read          int64
}

// NewInputStream binds an InputStream to source, framed by contentLength
// bytes (or io.EOF-terminated when contentLength < 0, the read-until-close
// case used when neither Content-Length nor a recognized transfer coding
// is present).
func NewInputStream(source io.Reader, contentLength int64) *InputStream {
	return &InputStream{source: source, contentLength: contentLength}
}

// SetContentType records the declared Content-Type for this body.
func (in *InputStream) SetContentType(mt mimetype.MimeType) {
	in.contentType = mt
	in.hasType = true
}

// ContentType returns the declared Content-Type, if any.
func (in *InputStream) ContentType() (mimetype.MimeType, bool) {
	return in.contentType, in.hasType
}

// ContentLength returns the declared length, or -1 if the body is
// read-until-close framed.
func (in *InputStream) ContentLength() int64 { return in.contentLength }

// HasData reports whether more bytes remain to be read.
func (in *InputStream) HasData() bool {
	if in.err != nil {
		return false
	}
	if in.contentLength < 0 {
		return true
	}
	return in.read < in.contentLength
}

// Err returns the first read error encountered, if any.
func (in *InputStream) Err() error { return in.err }

// Read implements io.Reader, stopping at the declared Content-Length.
func (in *InputStream) Read(p []byte) (int, error) {
	if in.err != nil {
		return 0, in.err
	}
	if in.contentLength >= 0 {
		remaining := in.contentLength - in.read
		if remaining <= 0 {
			return 0, io.EOF
		}
		if int64(len(p)) > remaining {
			p = p[:remaining]
		}
	}
	n, err := in.source.Read(p)
	in.read += int64(n)
	if err != nil && err != io.EOF {
		in.err = err
	}
	return n, err
}

// ReadAll reads the body to completion, returning its full content.
func (in *InputStream) ReadAll() ([]byte, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		in.err = err
		return nil, errors.NewIOError("reading body", err)
	}
	return data, nil
}

// OutputStream owns a growable byte buffer (spilling to disk past a
// configured limit, see pkg/buffer) plus a MIME type, written by the
// application before the formatter serializes it.
type OutputStream struct {
	buf         *buffer.Buffer
	contentType mimetype.MimeType
	hasType     bool
}

// NewOutputStream creates an OutputStream backed by a Buffer with the given
// in-memory limit before spilling to disk (0 selects buffer.DefaultMemoryLimit).
func NewOutputStream(memLimit int64) *OutputStream {
	return &OutputStream{buf: buffer.New(memLimit)}
}

// SetContentType records the MIME type the formatter should emit.
func (out *OutputStream) SetContentType(mt mimetype.MimeType) {
	out.contentType = mt
	out.hasType = true
}

// ContentType returns the declared Content-Type, if any.
func (out *OutputStream) ContentType() (mimetype.MimeType, bool) {
	return out.contentType, out.hasType
}

// Write implements io.Writer.
func (out *OutputStream) Write(p []byte) (int, error) {
	return out.buf.Write(p)
}

// HasData reports whether any bytes have been written.
func (out *OutputStream) HasData() bool {
	return out.buf.Size() > 0
}

// Len returns the number of bytes written so far (the Content-Length the
// formatter should emit).
func (out *OutputStream) Len() int64 {
	return out.buf.Size()
}

// Reader returns a fresh reader over the written bytes, for the formatter
// to copy onto the connection's send stream.
func (out *OutputStream) Reader() (io.ReadCloser, error) {
	return out.buf.Reader()
}

// Close releases the underlying buffer (and any spilled temp file).
func (out *OutputStream) Close() error {
	return out.buf.Close()
}

// mode tracks which of Input/Output a Body has committed to.
type mode int

const (
	modeUninitialized mode = iota
	modeInput
	modeOutput
)

// Body is the uninitialized-or-input-or-output union spec.md section 9
// calls for: a Request/Response starts with neither stream bound, and the
// first call to AsInput or AsOutput commits it one-way.
type Body struct {
	mode   mode
	input  *InputStream
	output *OutputStream
}

// AsInput binds the body to an InputStream, the framing used when the
// parser attaches it to a received message. It panics if the body was
// already committed to the other mode.
func (b *Body) AsInput(in *InputStream) {
	if b.mode == modeOutput {
		panic("body: cannot switch from output to input mode")
	}
	b.mode = modeInput
	b.input = in
}

// AsOutput binds the body to a fresh OutputStream, returning it for the
// application to write into. It panics if the body was already committed
// to the other mode.
func (b *Body) AsOutput(memLimit int64) *OutputStream {
	if b.mode == modeInput {
		panic("body: cannot switch from input to output mode")
	}
	if b.output == nil {
		b.output = NewOutputStream(memLimit)
	}
	b.mode = modeOutput
	return b.output
}

// Input returns the bound InputStream, or nil if the body is not in input mode.
func (b *Body) Input() *InputStream {
	if b.mode != modeInput {
		return nil
	}
	return b.input
}

// Output returns the bound OutputStream, or nil if the body is not in
// output mode.
func (b *Body) Output() *OutputStream {
	if b.mode != modeOutput {
		return nil
	}
	return b.output
}

// IsInput reports whether the body committed to input mode.
func (b *Body) IsInput() bool { return b.mode == modeInput }

// IsOutput reports whether the body committed to output mode.
func (b *Body) IsOutput() bool { return b.mode == modeOutput }

// HasData reports whether the committed stream has data; an uninitialized
// body has none.
func (b *Body) HasData() bool {
	switch b.mode {
	case modeInput:
		return b.input.HasData()
	case modeOutput:
		return b.output.HasData()
	default:
		return false
	}
}

// HasOutputData reports whether the body is in output mode and carries at
// least one written byte, the question pkg/httpparse's Formatter asks
// before emitting Content-Type/Content-Length and the body itself.
func (b *Body) HasOutputData() bool {
	return b.mode == modeOutput && b.output.HasData()
}

// OutputLen returns the output stream's length, or 0 when the body is not
// in output mode.
func (b *Body) OutputLen() int64 {
	if b.mode != modeOutput {
		return 0
	}
	return b.output.Len()
}

// OutputContentType returns the output stream's declared Content-Type as a
// wire-ready string, if one was set.
func (b *Body) OutputContentType() (string, bool) {
	if b.mode != modeOutput {
		return "", false
	}
	mt, ok := b.output.ContentType()
	if !ok {
		return "", false
	}
	return mt.String(), true
}

// OutputReader returns a fresh reader over the output stream's written
// bytes, for the formatter to copy onto the wire.
func (b *Body) OutputReader() (io.ReadCloser, error) {
	if b.mode != modeOutput {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return b.output.Reader()
}
