package client

import (
	"sync"
	"time"

	"github.com/go-httpcore/httpcore/pkg/constants"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
)

// PoolConfig bounds the optional keep-alive connection pool (spec.md
// section 9's "documented extension point", adapted from the teacher's
// pkg/transport host-pool: a LIFO idle list per host, a cap on how many
// idle connections to hold, and a background sweep that drops connections
// idle past IdleTimeout).
type PoolConfig struct {
	MaxIdlePerHost int
	IdleTimeout    time.Duration
}

// DefaultPoolConfig returns the pool's defaults: four idle connections per
// host, recycled after 90 seconds of inactivity.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxIdlePerHost: 4, IdleTimeout: constants.DefaultIdleTimeout}
}

type idleConn struct {
	conn    *sockconn.Connection
	parked  time.Time
}

// hostPool is a host-keyed idle-connection cache. Unlike the teacher's
// transport.go (which pooled raw net.Conn across HTTP/1.1, HTTP/2 and proxy
// tunnels), this pool only ever holds *sockconn.Connection values, since
// pooling is now an explicit client.Options.ReuseConnection opt-in rather
// than the teacher's always-on default.
type hostPool struct {
	cfg PoolConfig

	mu    sync.Mutex
	idle  map[string][]idleConn

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newHostPool(cfg PoolConfig) *hostPool {
	p := &hostPool{cfg: cfg, idle: make(map[string][]idleConn), stopCh: make(chan struct{})}
	p.wg.Add(1)
	go p.sweep()
	return p
}

// take returns a still-open idle connection for addr, if one is available.
func (p *hostPool) take(addr string) (*sockconn.Connection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.idle[addr]
	for len(bucket) > 0 {
		last := bucket[len(bucket)-1]
		bucket = bucket[:len(bucket)-1]
		p.idle[addr] = bucket
		if !last.conn.Closed() {
			return last.conn, true
		}
	}
	return nil, false
}

// put parks conn for reuse, closing it instead when the per-host cap is
// already full.
func (p *hostPool) put(addr string, conn *sockconn.Connection) {
	if conn == nil || conn.Closed() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	max := p.cfg.MaxIdlePerHost
	if max <= 0 {
		max = DefaultPoolConfig().MaxIdlePerHost
	}
	if len(p.idle[addr]) >= max {
		conn.Close()
		return
	}
	p.idle[addr] = append(p.idle[addr], idleConn{conn: conn, parked: time.Now()})
}

func (p *hostPool) sweep() {
	defer p.wg.Done()
	interval := p.cfg.IdleTimeout
	if interval <= 0 {
		interval = DefaultPoolConfig().IdleTimeout
	}
	ticker := time.NewTicker(interval / 3)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			p.closeAll()
			return
		case <-ticker.C:
			p.evictStale(interval)
		}
	}
}

func (p *hostPool) evictStale(maxAge time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for addr, bucket := range p.idle {
		fresh := bucket[:0]
		for _, ic := range bucket {
			if now.Sub(ic.parked) > maxAge || ic.conn.Closed() {
				ic.conn.Close()
				continue
			}
			fresh = append(fresh, ic)
		}
		p.idle[addr] = fresh
	}
}

func (p *hostPool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, bucket := range p.idle {
		for _, ic := range bucket {
			ic.conn.Close()
		}
		delete(p.idle, addr)
	}
}

func (p *hostPool) close() {
	close(p.stopCh)
	p.wg.Wait()
}

// Stats reports the pool's current idle-connection counts, grounded on the
// teacher's transport.PoolStats.
type Stats struct {
	IdleByHost map[string]int
}

func (p *hostPool) stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := Stats{IdleByHost: make(map[string]int, len(p.idle))}
	for addr, bucket := range p.idle {
		out.IdleByHost[addr] = len(bucket)
	}
	return out
}
