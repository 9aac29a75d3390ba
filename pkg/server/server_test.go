package server

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/go-httpcore/httpcore/pkg/httpparse"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
	"github.com/go-httpcore/httpcore/pkg/status"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

func sendRequest(t *testing.T, addr string, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, raw); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	conn.(*net.TCPConn).CloseWrite()

	out, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(out)
}

func TestServerPingPong(t *testing.T) {
	srv := New(DefaultOptions())
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	respond := func(conn *sockconn.Connection, req *message.Request) {
		resp := message.NewResponse(status.NotFound)
		resp.EmittedAt = time.Now()
		if req.URL.Path.String(true) == "/ping" {
			resp.Status = status.OK
			out := resp.Output.AsOutput(0)
			io.WriteString(out, "pong")
		}
		f := httpparse.NewFormatter()
		w := conn.SendStream()
		f.FormatResponse(w, resp)
		w.Close()
	}
	srv.RunBackground(respond, nil, nil)
	t.Cleanup(func() { srv.Stop() })

	reply := sendRequest(t, srv.Addr().String(), "GET /ping HTTP/1.1\r\nHost: x\r\n\r\n")
	if !strings.Contains(reply, "200 OK") || !strings.Contains(reply, "pong") {
		t.Errorf("unexpected reply: %q", reply)
	}

	reply = sendRequest(t, srv.Addr().String(), "GET /missing HTTP/1.1\r\nHost: x\r\n\r\n")
	if !strings.Contains(reply, "404") {
		t.Errorf("unexpected reply for missing route: %q", reply)
	}
}

func TestServerStopClosesListenerAndConnections(t *testing.T) {
	srv := New(DefaultOptions())
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	respond := func(conn *sockconn.Connection, req *message.Request) {
		resp := message.NewResponse(status.OK)
		resp.EmittedAt = time.Now()
		f := httpparse.NewFormatter()
		w := conn.SendStream()
		f.FormatResponse(w, resp)
		w.Close()
	}
	srv.RunBackground(respond, nil, nil)

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("state = %v, want stopped", srv.State())
	}

	if _, err := net.Dial("tcp", srv.Addr().String()); err == nil {
		t.Error("expected dial to a stopped server's listener to fail")
	}
}

func TestLogFormatterRendersRequestLine(t *testing.T) {
	req := message.NewRequest("GET", uri.Parse("http://example.com/ping"))
	req.ReceivedAt = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

	resp := message.NewResponse(status.OK)
	out := resp.Output.AsOutput(0)
	io.WriteString(out, "pong")

	f := NewLogFormatter()
	line := f.Format(nil, req, resp)

	if !strings.Contains(line, `"GET`) {
		t.Errorf("expected the request line in output, got %q", line)
	}
	if !strings.Contains(line, "200") {
		t.Errorf("expected the status code in output, got %q", line)
	}
	if !strings.Contains(line, "4") {
		t.Errorf("expected the body size in output, got %q", line)
	}
	if !strings.Contains(line, "02/Jan/2024") {
		t.Errorf("expected the formatted request time in output, got %q", line)
	}
}
