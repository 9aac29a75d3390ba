package client

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-httpcore/httpcore/pkg/httpparse"
	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/server"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
	"github.com/go-httpcore/httpcore/pkg/status"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

func startEchoServer(t *testing.T) *server.Server {
	t.Helper()
	srv := server.New(server.Options{Timeout: 5 * time.Second, Network: "tcp"})
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	respond := func(conn *sockconn.Connection, req *message.Request) {
		resp := message.NewResponse(status.OK)
		resp.EmittedAt = time.Now()
		if req.URL.Path.String(true) == "/redirect" {
			resp.Status = status.Found
			resp.Headers.Set("Location", "/landed")
		} else {
			out := resp.Output.AsOutput(0)
			io.WriteString(out, "hello from "+req.URL.Path.String(true))
		}
		f := httpparse.NewFormatter()
		w := conn.SendStream()
		f.FormatResponse(w, resp)
		w.Close()
	}
	srv.RunBackground(respond, nil, nil)
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func TestClientQuerySimpleGet(t *testing.T) {
	srv := startEchoServer(t)
	target := "http://" + srv.Addr().String() + "/ping"

	c := New()
	defer c.Close()

	req := message.NewRequest("GET", uri.Parse(target))
	resp, err := c.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.Status.Code != 200 {
		t.Fatalf("status = %d", resp.Status.Code)
	}
	data, err := resp.Output.Input().ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "hello from /ping" {
		t.Errorf("body = %q", data)
	}
}

func TestClientFollowsRedirect(t *testing.T) {
	srv := startEchoServer(t)
	target := "http://" + srv.Addr().String() + "/redirect"

	c := New()
	defer c.Close()

	req := message.NewRequest("GET", uri.Parse(target))
	resp, err := c.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.Status.Code != 200 {
		t.Fatalf("expected the redirect to be followed to 200, got %d", resp.Status.Code)
	}
	data, _ := resp.Output.Input().ReadAll()
	if string(data) != "hello from /landed" {
		t.Errorf("body = %q, redirect was not followed to /landed", data)
	}
}

func TestClientMaxRedirectsExceeded(t *testing.T) {
	srv := server.New(server.Options{Timeout: 5 * time.Second, Network: "tcp"})
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	respond := func(conn *sockconn.Connection, req *message.Request) {
		resp := message.NewResponse(status.Found)
		resp.EmittedAt = time.Now()
		resp.Headers.Set("Location", "/loop")
		f := httpparse.NewFormatter()
		w := conn.SendStream()
		f.FormatResponse(w, resp)
		w.Close()
	}
	srv.RunBackground(respond, nil, nil)
	t.Cleanup(func() { srv.Stop() })

	opts := DefaultOptions()
	opts.MaxRedirects = 2
	c := NewWithOptions(opts)
	defer c.Close()

	req := message.NewRequest("GET", uri.Parse("http://"+srv.Addr().String()+"/loop"))
	_, err := c.Query(context.Background(), req)
	if err == nil {
		t.Fatal("expected a too-many-redirects error")
	}
}
