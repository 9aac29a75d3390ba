package httpparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-httpcore/httpcore/pkg/cookie"
)

// parseSetCookie parses one Set-Cookie header value into a ServerCookie,
// following the same "Name=Value; Attr=...; Attr" grammar String()
// produces, grounded on Http1Parser::response's cookie_params handling
// (original_source/src/http/parser.cpp).
func parseSetCookie(raw string) (cookie.ServerCookie, bool) {
	parts := strings.Split(raw, ";")
	if len(parts) == 0 {
		return cookie.ServerCookie{}, false
	}

	name, value, ok := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !ok {
		return cookie.ServerCookie{}, false
	}
	sc := cookie.ServerCookie{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)}

	for _, attr := range parts[1:] {
		attr = strings.TrimSpace(attr)
		if attr == "" {
			continue
		}
		key, val, hasVal := strings.Cut(attr, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch strings.ToLower(key) {
		case "expires":
			if hasVal {
				if t, err := time.Parse(time.RFC1123, val); err == nil {
					sc.Expires = &t
				}
			}
		case "max-age":
			if hasVal {
				if secs, err := strconv.Atoi(val); err == nil {
					d := time.Duration(secs) * time.Second
					sc.MaxAge = &d
				}
			}
		case "domain":
			sc.Domain = val
		case "path":
			sc.Path = val
		case "secure":
			sc.Secure = true
		case "httponly":
			sc.HTTPOnly = true
		default:
			sc.Extensions = append(sc.Extensions, attr)
		}
	}

	return sc, true
}
