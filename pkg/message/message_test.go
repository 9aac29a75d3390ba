package message

import (
	"strings"
	"testing"

	"github.com/go-httpcore/httpcore/pkg/body"
	"github.com/go-httpcore/httpcore/pkg/mimetype"
	"github.com/go-httpcore/httpcore/pkg/status"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

func TestParseAuthBasic(t *testing.T) {
	// "alice:secret" base64-encoded.
	a := ParseAuth("Basic YWxpY2U6c2VjcmV0")
	if a.Scheme != "Basic" {
		t.Errorf("Scheme = %q", a.Scheme)
	}
	if a.User != "alice" || a.Password != "secret" {
		t.Errorf("User/Password = %q/%q", a.User, a.Password)
	}
}

func TestParseAuthWithRealmParameter(t *testing.T) {
	a := ParseAuth(`Digest realm="example.com", nonce="abc123"`)
	if a.Scheme != "Digest" {
		t.Errorf("Scheme = %q", a.Scheme)
	}
	if a.Realm != "example.com" {
		t.Errorf("Realm = %q", a.Realm)
	}
	if v, ok := a.Parameters.Get("nonce"); !ok || v != "abc123" {
		t.Errorf("nonce parameter = %q, %v", v, ok)
	}
}

func TestAuthChallengeString(t *testing.T) {
	c := NewAuthChallenge("Basic", "restricted")
	got := c.String()
	if !strings.HasPrefix(got, "Basic realm=") {
		t.Errorf("String() = %q", got)
	}
}

func TestRequestQuery(t *testing.T) {
	u := uri.Parse("http://example.com/search?q=go&lang=en")
	req := NewRequest("GET", u)
	if v, ok := req.Query().Get("q"); !ok || v != "go" {
		t.Errorf("query q = %q, %v", v, ok)
	}
}

func TestRequestPostForm(t *testing.T) {
	u := uri.Parse("http://example.com/submit")
	req := NewRequest("POST", u)

	mt, _ := mimetype.Parse("application/x-www-form-urlencoded")
	in := body.NewInputStream(strings.NewReader("name=Ada&lang=go"), 16)
	in.SetContentType(mt)
	req.Input.AsInput(in)

	form, err := req.PostForm()
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if v, ok := form.Get("name"); !ok || v != "Ada" {
		t.Errorf("name = %q, %v", v, ok)
	}
}

func TestRequestPostFormMultipart(t *testing.T) {
	u := uri.Parse("http://example.com/upload")
	req := NewRequest("POST", u)

	raw := "--XYZ\r\n" +
		`Content-Disposition: form-data; name="title"` + "\r\n\r\n" +
		"hello\r\n" +
		"--XYZ\r\n" +
		`Content-Disposition: form-data; name="file"; filename="a.txt"` + "\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"contents\r\n" +
		"--XYZ--\r\n"

	mt, _ := mimetype.Parse(`multipart/form-data; boundary=XYZ`)
	in := body.NewInputStream(strings.NewReader(raw), int64(len(raw)))
	in.SetContentType(mt)
	req.Input.AsInput(in)

	form, err := req.PostForm()
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if v, ok := form.Get("title"); !ok || v != "hello" {
		t.Errorf("title = %q, %v", v, ok)
	}
	if v, ok := form.Get("file"); !ok || v != "contents" {
		t.Errorf("file = %q, %v", v, ok)
	}
}

func TestResponseChallenge(t *testing.T) {
	resp := NewResponse(status.OK)
	resp.Challenge(NewAuthChallenge("Basic", "restricted"))
	if len(resp.WWWAuthenticate) != 1 {
		t.Fatalf("expected one challenge, got %d", len(resp.WWWAuthenticate))
	}
}
