package client

import (
	"net"
	"testing"
	"time"

	"github.com/go-httpcore/httpcore/pkg/sockconn"
)

func TestHostPoolTakePutRoundTrip(t *testing.T) {
	server, clientConn := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		clientConn.Close()
	})
	conn := sockconn.NewConnection(clientConn)

	p := newHostPool(PoolConfig{MaxIdlePerHost: 2, IdleTimeout: time.Minute})
	defer p.close()

	if _, ok := p.take("a:1"); ok {
		t.Fatal("expected no idle connection before any put")
	}

	p.put("a:1", conn)
	got, ok := p.take("a:1")
	if !ok || got != conn {
		t.Fatalf("expected to get back the parked connection, got %v, %v", got, ok)
	}

	if _, ok := p.take("a:1"); ok {
		t.Fatal("expected the bucket to be empty after taking its only entry")
	}
}

func TestHostPoolCapsIdleConnectionsPerHost(t *testing.T) {
	p := newHostPool(PoolConfig{MaxIdlePerHost: 1, IdleTimeout: time.Minute})
	defer p.close()

	mkConn := func() *sockconn.Connection {
		server, clientConn := net.Pipe()
		t.Cleanup(func() {
			server.Close()
			clientConn.Close()
		})
		return sockconn.NewConnection(clientConn)
	}

	first := mkConn()
	second := mkConn()
	p.put("a:1", first)
	p.put("a:1", second) // over cap, should be closed rather than parked

	stats := p.stats()
	if stats.IdleByHost["a:1"] != 1 {
		t.Fatalf("IdleByHost[a:1] = %d, want 1", stats.IdleByHost["a:1"])
	}
	if !second.Closed() {
		t.Error("expected the over-cap connection to be closed")
	}
}
