package protocol

import "testing"

func TestParse(t *testing.T) {
	p, ok := Parse("HTTP/1.1")
	if !ok || !p.Equal(HTTP11) {
		t.Errorf("Parse(HTTP/1.1) = %+v, %v", p, ok)
	}

	p, ok = Parse("HTTP/1")
	if !ok || p.Minor != 0 {
		t.Errorf("Parse(HTTP/1) = %+v, %v, want minor 0", p, ok)
	}

	if _, ok := Parse("HTTP-1.1"); ok {
		t.Error("expected parse failure without slash")
	}
	if _, ok := Parse("HTTP/x.1"); ok {
		t.Error("expected parse failure on non-digit major")
	}
}

func TestOrdering(t *testing.T) {
	a, _ := Parse("HTTP/1.2")
	b := HTTP11

	if !a.Greater(b) {
		t.Error("expected HTTP/1.2 > HTTP/1.1")
	}
	if !b.Less(a) {
		t.Error("expected HTTP/1.1 < HTTP/1.2")
	}
}

func TestCrossNameComparisonsAreFalse(t *testing.T) {
	a := Protocol{Name: "HTTP", Major: 2, Minor: 0}
	b := Protocol{Name: "SPDY", Major: 1, Minor: 0}

	if a.Less(b) || a.Greater(b) || a.Equal(b) {
		t.Error("expected all comparisons across differing names to be false")
	}
	if _, ok := a.Compare(b); ok {
		t.Error("expected Compare to report ok=false across differing names")
	}
}

func TestString(t *testing.T) {
	if got := HTTP11.String(); got != "HTTP/1.1" {
		t.Errorf("String() = %q", got)
	}
}
