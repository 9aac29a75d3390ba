// Package mimetype implements the MIME type tuple used by Content-Type and
// related headers: type "/" subtype [ ; param=value ], with RFC-aligned
// case-folding and equality rules.
package mimetype

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Parameter is the single optional (name, value) parameter a MIME type may
// carry, e.g. ("charset", "utf-8").
type Parameter struct {
	Name  string
	Value string
}

// MimeType is the parsed form of a Content-Type-style value: a lowercased
// type, a lowercased subtype, and an optional parameter.
type MimeType struct {
	Type      string
	Subtype   string
	Parameter Parameter
	hasParam  bool
}

// New builds a MimeType with no parameter.
func New(typ, subtype string) MimeType {
	return MimeType{Type: strings.ToLower(typ), Subtype: strings.ToLower(subtype)}
}

// NewWithParameter builds a MimeType carrying a single parameter.
func NewWithParameter(typ, subtype, paramName, paramValue string) MimeType {
	m := New(typ, subtype)
	m.hasParam = true
	m.Parameter = Parameter{Name: strings.ToLower(paramName), Value: normalizeParamValue(paramName, paramValue)}
	return m
}

// HasParameter reports whether the MimeType carries a parameter.
func (m MimeType) HasParameter() bool { return m.hasParam }

func normalizeParamValue(name, value string) string {
	if strings.EqualFold(name, "charset") {
		if enc, err := htmlindex.Get(value); err == nil {
			if canon, err := htmlindex.Name(enc); err == nil {
				return strings.ToLower(canon)
			}
		}
		return strings.ToLower(value)
	}
	return value
}

// Parse parses "type/subtype[;param=value]" per spec.md section 4.4: the
// parameter value may be a quoted string (backslash-escapes processed);
// OWS around ";" and "=" is tolerated.
func Parse(s string) (MimeType, bool) {
	s = strings.TrimSpace(s)
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return MimeType{}, false
	}
	typ := strings.TrimSpace(s[:slash])
	rest := s[slash+1:]

	subtype := rest
	var paramName, paramValue string
	hasParam := false

	if semi := strings.IndexByte(rest, ';'); semi >= 0 {
		subtype = rest[:semi]
		paramText := strings.TrimSpace(rest[semi+1:])
		if eq := strings.IndexByte(paramText, '='); eq >= 0 {
			paramName = strings.TrimSpace(paramText[:eq])
			paramValue = strings.TrimSpace(paramText[eq+1:])
			paramValue = unquote(paramValue)
			hasParam = paramName != ""
		}
	}
	subtype = strings.TrimSpace(subtype)

	if typ == "" || subtype == "" {
		return MimeType{}, false
	}

	m := New(typ, subtype)
	if hasParam {
		m.hasParam = true
		m.Parameter = Parameter{Name: strings.ToLower(paramName), Value: normalizeParamValue(paramName, paramValue)}
	}
	return m, true
}

// unquote strips a surrounding quoted-string and processes backslash
// escapes; unquoted input passes through unchanged.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	b.Grow(len(inner))
	escaped := false
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// String formats the MimeType back to "type/subtype[;param=value]".
func (m MimeType) String() string {
	s := m.Type + "/" + m.Subtype
	if m.hasParam {
		s += ";" + m.Parameter.Name + "=" + m.Parameter.Value
	}
	return s
}

// MatchesType compares only the type and subtype components, ignoring any
// parameter.
func (m MimeType) MatchesType(typ, subtype string) bool {
	return strings.EqualFold(m.Type, typ) && strings.EqualFold(m.Subtype, subtype)
}

// Equal compares type, subtype and parameter name case-insensitively; the
// parameter value is compared case-insensitively only when its name is
// "charset" (values are already folded by normalizeParamValue, so a plain
// comparison suffices here).
func (m MimeType) Equal(other MimeType) bool {
	if !strings.EqualFold(m.Type, other.Type) || !strings.EqualFold(m.Subtype, other.Subtype) {
		return false
	}
	if m.hasParam != other.hasParam {
		return false
	}
	if !m.hasParam {
		return true
	}
	if !strings.EqualFold(m.Parameter.Name, other.Parameter.Name) {
		return false
	}
	if strings.EqualFold(m.Parameter.Name, "charset") {
		return strings.EqualFold(m.Parameter.Value, other.Parameter.Value)
	}
	return m.Parameter.Value == other.Parameter.Value
}
