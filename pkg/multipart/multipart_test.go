package multipart

import "testing"

func rawFixture() []byte {
	return []byte(
		"--p0ny\r\n" +
			"Content-Disposition: form-data; name=\"a\"\r\n" +
			"\r\n" +
			"hello\r\n" +
			"--p0ny\r\n" +
			"Content-Disposition: form-data; name=\"b\"\r\n" +
			"\r\n" +
			"world\r\n" +
			"--p0ny--",
	)
}

func TestParseTwoParts(t *testing.T) {
	mp, err := Parse(rawFixture(), "p0ny")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(mp.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(mp.Parts))
	}
	if string(mp.Parts[0].Content) != "hello" {
		t.Errorf("part 0 content = %q", mp.Parts[0].Content)
	}
	if string(mp.Parts[1].Content) != "world" {
		t.Errorf("part 1 content = %q", mp.Parts[1].Content)
	}
	if v, ok := mp.Parts[0].Headers.Get("Content-Disposition"); !ok || v != `form-data; name="a"` {
		t.Errorf("part 0 header = %q, %v", v, ok)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	mp, err := Parse(rawFixture(), "p0ny")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	formatted := Format(mp)
	reparsed, err := Parse(formatted, "p0ny")
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}

	if len(reparsed.Parts) != len(mp.Parts) {
		t.Fatalf("part count mismatch after round trip")
	}
	for i := range mp.Parts {
		if string(reparsed.Parts[i].Content) != string(mp.Parts[i].Content) {
			t.Errorf("part %d content mismatch: %q != %q", i, reparsed.Parts[i].Content, mp.Parts[i].Content)
		}
	}
}

func TestValidBoundary(t *testing.T) {
	if !ValidBoundary("p0ny") {
		t.Error("expected p0ny to be a valid boundary")
	}
	if ValidBoundary("") {
		t.Error("expected empty boundary to be invalid")
	}
	if ValidBoundary("trailing ") {
		t.Error("expected trailing-space boundary to be invalid")
	}
}

func TestParseInvalidBoundary(t *testing.T) {
	if _, err := Parse([]byte("data"), ""); err == nil {
		t.Error("expected error for empty boundary")
	}
}

func TestParseMissingBoundary(t *testing.T) {
	if _, err := Parse([]byte("no boundary markers here"), "p0ny"); err == nil {
		t.Error("expected error when the boundary never appears")
	}
}
