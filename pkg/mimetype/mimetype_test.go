package mimetype

import "testing"

func TestParseEquality(t *testing.T) {
	a, ok := Parse("Text/Plain;Charset=UTF-8")
	if !ok {
		t.Fatal("expected successful parse")
	}
	b := NewWithParameter("text", "plain", "charset", "utf-8")

	if !a.Equal(b) {
		t.Errorf("%+v != %+v", a, b)
	}
}

func TestMatchesType(t *testing.T) {
	m, _ := Parse("application/json; charset=utf-8")
	if !m.MatchesType("Application", "JSON") {
		t.Error("expected case-insensitive type match")
	}
	if m.MatchesType("text", "json") {
		t.Error("expected type mismatch")
	}
}

func TestNonCharsetValueCaseSensitive(t *testing.T) {
	a := NewWithParameter("multipart", "form-data", "boundary", "AbC")
	b := NewWithParameter("multipart", "form-data", "boundary", "abc")
	if a.Equal(b) {
		t.Error("non-charset parameter values must compare case-sensitively")
	}
}

func TestParseQuotedParameter(t *testing.T) {
	m, ok := Parse(`multipart/form-data; boundary="a\"b"`)
	if !ok {
		t.Fatal("expected successful parse")
	}
	if m.Parameter.Value != `a"b` {
		t.Errorf("Parameter.Value = %q", m.Parameter.Value)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, ok := Parse("not-a-mime-type"); ok {
		t.Error("expected parse failure without subtype separator")
	}
}

func TestString(t *testing.T) {
	m := NewWithParameter("text", "html", "charset", "utf-8")
	if got := m.String(); got != "text/html;charset=utf-8" {
		t.Errorf("String() = %q", got)
	}
}
