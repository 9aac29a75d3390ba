package body

import (
	"io"
	"strings"
	"testing"
)

func TestInputStreamReadAll(t *testing.T) {
	in := NewInputStream(strings.NewReader("helloXXXXX"), 5)
	data, err := in.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadAll = %q, want %q", data, "hello")
	}
	if in.HasData() {
		t.Error("expected no more data after reading declared length")
	}
}

func TestInputStreamReadUntilClose(t *testing.T) {
	in := NewInputStream(strings.NewReader("all of it"), -1)
	data, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "all of it" {
		t.Errorf("got %q", data)
	}
}

func TestOutputStreamWrite(t *testing.T) {
	out := NewOutputStream(0)
	defer out.Close()

	if out.HasData() {
		t.Error("expected no data initially")
	}
	if _, err := out.Write([]byte("payload")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !out.HasData() || out.Len() != 7 {
		t.Errorf("HasData=%v Len=%d, want true, 7", out.HasData(), out.Len())
	}

	r, err := out.Reader()
	if err != nil {
		t.Fatalf("reader failed: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "payload" {
		t.Errorf("read back %q", data)
	}
}

func TestBodyOneWayTransition(t *testing.T) {
	var b Body
	b.AsOutput(0)
	if !b.IsOutput() {
		t.Fatal("expected output mode")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic switching output body to input mode")
		}
	}()
	b.AsInput(NewInputStream(strings.NewReader(""), 0))
}

func TestBodyUninitializedHasNoData(t *testing.T) {
	var b Body
	if b.HasData() {
		t.Error("uninitialized body should report no data")
	}
	if b.IsInput() || b.IsOutput() {
		t.Error("uninitialized body should be neither input nor output")
	}
}
