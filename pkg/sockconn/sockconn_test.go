package sockconn

import (
	"io"
	"net"
	"testing"
	"time"
)

func pipePair(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return server, client
}

func TestConnectionSendReceive(t *testing.T) {
	server, client := pipePair(t)

	serverConn := NewConnection(server)
	clientConn := NewConnection(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w := serverConn.SendStream()
		w.Write([]byte("hello there"))
		w.Close()
	}()

	r, err := clientConn.ReceiveStream(11)
	if err != nil {
		t.Fatalf("ReceiveStream failed: %v", err)
	}
	buf := make([]byte, 11)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf) != "hello there" {
		t.Errorf("got %q", buf)
	}
	<-done
}

func TestTimeoutSocketDeadlineFires(t *testing.T) {
	server, client := pipePair(t)
	_ = server

	ts := NewTimeoutSocket(client)
	ts.SetTimeout(10 * time.Millisecond)

	buf := make([]byte, 1)
	_, err := ts.Read(buf)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestConnectionCloseIdempotent(t *testing.T) {
	server, _ := pipePair(t)
	c := NewConnection(server)
	if err := c.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got: %v", err)
	}
	if !c.Closed() {
		t.Error("expected Closed() to report true")
	}
}
