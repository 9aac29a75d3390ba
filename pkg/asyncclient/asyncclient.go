// Package asyncclient implements the asynchronous multi-request client
// (C15): a background worker services many concurrent outstanding
// requests, each over its own connection, grounded on spec.md section
// 4.10. The teacher has no async-client precedent (its pkg/transport
// background goroutine only sweeps idle connections); the
// stopChan+sync.WaitGroup shape here is adapted from that
// cleanupIdleConnections pattern, generalized from a periodic sweep into a
// request-servicing loop.
package asyncclient

import (
	"context"
	"sync"

	"github.com/go-httpcore/httpcore/pkg/client"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
)

// request is one outstanding async query: the work to do, plus the
// per-request callbacks fired, in order, from the per-request goroutine
// that services it.
type request struct {
	ctx        context.Context
	req        *message.Request
	onConnect  func(*sockconn.Connection)
	onResponse func(*message.Response)
	onError    func(error)
}

// AsyncClient wraps a synchronous *client.Client with a worker that
// services many outstanding requests concurrently, each over its own
// connection. Callbacks for one request always fire in the order
// connect -> (response | error); callbacks for different requests may
// interleave (spec.md section 4.10's ordering guarantee).
type AsyncClient struct {
	Client *client.Client

	mu      sync.Mutex
	running bool
	queue   chan *request
	stopCh  chan struct{}
	wg      sync.WaitGroup // worker dispatch loop
	active  sync.WaitGroup // in-flight per-request goroutines
}

// New wraps c (or a freshly-built default client.Client, when c is nil) in
// an AsyncClient with no worker running yet.
func New(c *client.Client) *AsyncClient {
	if c == nil {
		c = client.New()
	}
	return &AsyncClient{Client: c}
}

// Start launches the single worker goroutine that dispatches outstanding
// requests. Calling Start twice without an intervening Stop is a no-op.
func (a *AsyncClient) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.queue = make(chan *request, 64)
	a.stopCh = make(chan struct{})

	a.wg.Add(1)
	go a.worker(a.queue, a.stopCh)
}

// worker waits for outstanding requests and spawns one goroutine per
// request to run it to completion; per-request goroutines are what
// actually pump each connection's I/O, so many requests progress
// concurrently without the worker itself blocking on any single one.
func (a *AsyncClient) worker(queue chan *request, stopCh chan struct{}) {
	defer a.wg.Done()
	for {
		select {
		case <-stopCh:
			// Cancellation: requests already queued but not yet started
			// are dropped without firing callbacks. In-flight requests
			// (already handed to a goroutine below) run to completion on
			// their own; Stop waits for them via a.active.
			return
		case r, ok := <-queue:
			if !ok {
				return
			}
			a.active.Add(1)
			go func(r *request) {
				defer a.active.Done()
				a.run(r)
			}(r)
		}
	}
}

func (a *AsyncClient) run(r *request) {
	conn, err := a.Client.Connect(r.ctx, r.req.URL)
	if err != nil {
		if r.onError != nil {
			r.onError(err)
		}
		return
	}
	r.req.Connection = conn
	if r.onConnect != nil {
		r.onConnect(conn)
	}

	resp, err := a.Client.Query(r.ctx, r.req)
	if err != nil {
		if r.onError != nil {
			r.onError(err)
		}
		return
	}
	if r.onResponse != nil {
		r.onResponse(resp)
	}
}

// AsyncQuery enqueues req for background processing. onConnect fires once
// the TCP connection is established; onResponse fires on a completed
// query; onError fires in place of onResponse on any connect/query
// failure. At most one of onResponse/onError fires per call.
func (a *AsyncClient) AsyncQuery(ctx context.Context, req *message.Request, onConnect func(*sockconn.Connection), onResponse func(*message.Response), onError func(error)) {
	a.mu.Lock()
	queue := a.queue
	a.mu.Unlock()
	if queue == nil {
		if onError != nil {
			onError(errNotStarted)
		}
		return
	}

	r := &request{ctx: ctx, req: req, onConnect: onConnect, onResponse: onResponse, onError: onError}
	select {
	case queue <- r:
	case <-a.stopCh:
		// Client is stopping; drop without firing callbacks per the
		// cancellation contract.
	}
}

// Stop signals the worker to stop accepting new outstanding requests and
// waits for every in-flight request's callbacks to finish before
// returning. Already-queued-but-not-yet-started requests are dropped
// without firing callbacks.
func (a *AsyncClient) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	stopCh := a.stopCh
	a.mu.Unlock()

	close(stopCh)
	a.wg.Wait()
	a.active.Wait()
	a.Client.Close()
}

type asyncError string

func (e asyncError) Error() string { return string(e) }

const errNotStarted = asyncError("asyncclient: Start was not called")
