package uri

import (
	"strings"

	"github.com/go-httpcore/httpcore/pkg/headers"
)

// URI is the parsed form of an RFC 3986 URI: scheme, authority, path,
// query, and fragment. Query is an ordered, case-sensitive multimap
// (spec.md section 3); equality compares all five components, preserving
// query insertion order.
type URI struct {
	Scheme    string
	Authority Authority
	Path      Path
	Query     *headers.Multimap
	Fragment  string
}

// New builds a URI directly from its components.
func New(scheme string, authority Authority, path Path, query *headers.Multimap, fragment string) URI {
	if query == nil {
		query = headers.NewDataMap()
	}
	return URI{Scheme: scheme, Authority: authority, Path: path, Query: query, Fragment: fragment}
}

// Parse splits raw URI text per RFC 3986's component grammar:
//
//	^(scheme:)?(//authority)?(path)?(\?query)?(#fragment)?$
//
// Path segments are percent-decoded and normalized (section 4.2); the
// authority, once isolated, is parsed by ParseAuthority.
func Parse(raw string) URI {
	var u URI
	rest := raw

	if idx := strings.Index(rest, ":"); idx >= 0 && isValidScheme(rest[:idx]) {
		u.Scheme = rest[:idx]
		rest = rest[idx+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := len(rest)
		for i, c := range rest {
			if c == '/' || c == '?' || c == '#' {
				end = i
				break
			}
		}
		u.Authority = ParseAuthority(rest[:end])
		rest = rest[end:]
	}

	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		u.Fragment = rest[idx+1:]
		rest = rest[:idx]
	}

	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		u.Query = ParseQueryString(rest[idx+1:])
		rest = rest[:idx]
	} else {
		u.Query = headers.NewDataMap()
	}

	u.Path = ParsePath(rest, true)

	return u
}

func isValidScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		case (c == '+' || c == '-' || c == '.') && i > 0:
		default:
			return false
		}
	}
	return true
}

// String formats the URI back onto the wire: "scheme:" if non-empty,
// "//authority" if non-empty, the url-encoded path (rendered "/" when an
// authority is present and the path is empty), "?query" if non-empty, and
// "#fragment" if non-empty.
func (u URI) String() string {
	var b strings.Builder

	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}

	hasAuthority := !u.Authority.Empty()
	if hasAuthority {
		b.WriteString("//")
		b.WriteString(u.Authority.Full())
	}

	b.WriteString(u.Path.URLEncoded(hasAuthority))

	if u.Query != nil && u.Query.Len() > 0 {
		b.WriteString(BuildQueryString(u.Query, true))
	}

	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}

	return b.String()
}

// QueryString renders the query component alone, optionally prefixed with "?".
func (u URI) QueryString(questionMark bool) string {
	return BuildQueryString(u.Query, questionMark)
}

// Equal compares all five components; query equality preserves insertion
// order (it delegates to Multimap.Equal).
func (u URI) Equal(other URI) bool {
	if u.Scheme != other.Scheme || u.Fragment != other.Fragment {
		return false
	}
	if !u.Authority.Equal(other.Authority) {
		return false
	}
	if !u.Path.Equal(other.Path) {
		return false
	}
	uq, oq := u.Query, other.Query
	if uq == nil {
		uq = headers.NewDataMap()
	}
	if oq == nil {
		oq = headers.NewDataMap()
	}
	return uq.Equal(oq)
}
