package cookie

import (
	"testing"
	"time"

	"github.com/go-httpcore/httpcore/pkg/uri"
)

func TestMatchesDomain(t *testing.T) {
	cc := ClientCookie{Domain: "example.com"}

	if !cc.MatchesDomain("a.example.com") {
		t.Error("expected subdomain to match")
	}
	if cc.MatchesDomain("bexample.com") {
		t.Error("expected non-dotted suffix not to match")
	}
	if !cc.MatchesDomain("example.com") {
		t.Error("expected exact host to match")
	}
}

func TestMatchesPath(t *testing.T) {
	cc := ClientCookie{Path: uri.ParsePath("/a", false)}

	if !cc.MatchesPath(uri.ParsePath("/a/b", false)) {
		t.Error("expected /a to match /a/b")
	}
	if cc.MatchesPath(uri.ParsePath("/b", false)) {
		t.Error("expected /a not to match /b")
	}
}

func TestMaxAgeZeroExpiresImmediately(t *testing.T) {
	zero := time.Duration(0)
	sc := ServerCookie{Value: "v", MaxAge: &zero}
	cc := NewClientCookie(sc, "example.com", "/")

	if !cc.Expired(time.Now()) {
		t.Error("expected max-age=0 cookie to be immediately expired")
	}
}

func TestSessionCookieNotExpired(t *testing.T) {
	cc := NewClientCookie(ServerCookie{Value: "v"}, "example.com", "/")
	if !cc.IsSession() {
		t.Error("expected session cookie (no max-age/expires)")
	}
	if cc.Expired(time.Now().Add(24 * time.Hour)) {
		t.Error("session cookie should never report expired")
	}
}

func TestServerCookieString(t *testing.T) {
	sc := ServerCookie{Name: "session", Value: "abc", Domain: "example.com", Path: "/p", Secure: true, HTTPOnly: true}
	got := sc.String()
	want := "session=abc; Domain=example.com; Path=%2Fp; Secure; HttpOnly"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestJarSetAndMatch(t *testing.T) {
	jar := NewJar()
	jar.SetCookies("session", ServerCookie{Value: "xyz", Path: "/"}, "example.com", "/")

	u := uri.Parse("http://example.com/account")
	m := jar.CookiesForURI(u)
	if v, ok := m.Get("session"); !ok || v != "xyz" {
		t.Errorf("CookiesForURI = %q, %v", v, ok)
	}
}

func TestJarRejectsPublicSuffix(t *testing.T) {
	jar := NewJar()
	ok := jar.SetCookies("evil", ServerCookie{Value: "x", Domain: "com", Path: "/"}, "example.com", "/")
	if ok {
		t.Error("expected public-suffix domain to be rejected")
	}
	if jar.Len() != 0 {
		t.Error("expected jar to remain empty")
	}
}
