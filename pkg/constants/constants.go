// Package constants defines magic numbers and default values shared across
// httpcore's connection runtime, parser, and buffer packages.
package constants

import "time"

// Connection timeouts, grounded on the teacher's pkg/transport pool
// defaults (idle eviction, dial/read deadlines, periodic sweep cadence).
const (
	DefaultIdleTimeout    = 90 * time.Second
	DefaultConnTimeout    = 10 * time.Second
	DefaultReadTimeout    = 30 * time.Second
	MaxConnectionIdleTime = 5 * time.Minute
	CleanupInterval       = 30 * time.Second
)

// MaxContentLength bounds a request/response Content-Length the parser will
// accept before buffering any body data (spec.md section 9's size-limit
// open question, resolved as a hard cap rather than unbounded trust in the
// peer-declared length).
const MaxContentLength = 1024 * 1024 * 1024 * 1024 // 1TB

// Buffer limits for pkg/buffer's in-memory/disk-spill body storage.
const (
	DefaultBodyMemLimit = 4 * 1024 * 1024   // 4MB
	MaxRawBufferSize    = 100 * 1024 * 1024 // 100MB hard cap per body
)
