package uri

import (
	"strings"

	"github.com/go-httpcore/httpcore/pkg/codec"
	"github.com/go-httpcore/httpcore/pkg/headers"
)

// ParseQueryString splits a query string on "&"; each token splits on the
// first "=". A token without "=" becomes a key with an empty value; a
// token with "=" but an empty value preserves the pair. Both keys and
// values are percent-decoded using "+"-as-space.
func ParseQueryString(s string) *headers.Multimap {
	m := headers.NewDataMap()
	if s == "" {
		return m
	}
	for _, token := range strings.Split(s, "&") {
		if token == "" {
			continue
		}
		if eq := strings.IndexByte(token, '='); eq >= 0 {
			key := codec.URLDecode(token[:eq], true)
			value := codec.URLDecode(token[eq+1:], true)
			m.Append(key, value)
		} else {
			m.Append(codec.URLDecode(token, true), "")
		}
	}
	return m
}

// BuildQueryString renders a data map as a query string. Keys and values
// are percent-encoded using "+"-as-space; an empty value omits the "=".
func BuildQueryString(m *headers.Multimap, questionMark bool) string {
	items := m.Items()
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	if questionMark {
		b.WriteByte('?')
	}
	for i, it := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(codec.URLEncode(it.Key, true))
		if it.Value != "" {
			b.WriteByte('=')
			b.WriteString(codec.URLEncode(it.Value, true))
		}
	}
	return b.String()
}
