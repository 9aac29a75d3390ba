// Package message defines the Request, Response, and shared Auth types
// that the parser (pkg/httpparse) produces and the formatter consumes
// (spec.md section 3).
package message

import (
	"strings"

	"github.com/go-httpcore/httpcore/pkg/codec"
	"github.com/go-httpcore/httpcore/pkg/headers"
)

// Auth is a parsed Authorization (or WWW-Authenticate/Proxy-Authenticate)
// header value: a scheme token, the opaque auth string that followed it, a
// realm, and any remaining scheme parameters. For the Basic scheme the raw
// auth string additionally decodes into user/password (original_source's
// Http1Parser::auth, grounded in _examples/original_source/src/http/parser.cpp).
type Auth struct {
	Scheme     string
	AuthString string
	Realm      string
	Parameters *headers.Multimap
	User       string
	Password   string
}

// ParseAuth splits an Authorization-style header value into scheme, auth
// string, realm and parameters, decoding user/password when the scheme is
// Basic.
func ParseAuth(headerValue string) Auth {
	a := Auth{Parameters: headers.NewDataMap()}

	fields := strings.Fields(headerValue)
	if len(fields) == 0 {
		return a
	}
	a.Scheme = fields[0]

	rest := strings.TrimSpace(strings.TrimPrefix(headerValue, a.Scheme))
	a.AuthString, a.Parameters = splitAuthStringAndParameters(rest)

	if realm, ok := a.Parameters.Get("realm"); ok {
		a.Realm = realm
		a.Parameters.Del("realm")
	}

	if strings.EqualFold(a.Scheme, "Basic") {
		decoded, err := codec.Base64Decode(a.AuthString, codec.WithPadding)
		if err == nil {
			if user, password, ok := strings.Cut(string(decoded), ":"); ok {
				a.User = user
				a.Password = password
			}
		}
	}

	return a
}

// splitAuthStringAndParameters takes the portion of a header value after
// the scheme token and separates the leading auth-string token from any
// trailing "name=value" parameters.
func splitAuthStringAndParameters(rest string) (authString string, params *headers.Multimap) {
	params = headers.NewDataMap()
	if rest == "" {
		return "", params
	}

	parts := strings.Split(rest, ",")
	first := strings.TrimSpace(parts[0])

	if eq := strings.IndexByte(first, '='); eq < 0 {
		authString = first
		parts = parts[1:]
	}

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		params.Append(strings.TrimSpace(name), unquoteParam(strings.TrimSpace(value)))
	}
	return authString, params
}

func unquoteParam(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// AuthChallenge is a WWW-Authenticate/Proxy-Authenticate header value: the
// same scheme/realm/parameter shape as Auth, offered by the server rather
// than presented by the client.
type AuthChallenge struct {
	Scheme     string
	Realm      string
	Parameters *headers.Multimap
}

// String formats the challenge back into a header value.
func (c AuthChallenge) String() string {
	var b strings.Builder
	b.WriteString(c.Scheme)
	if c.Realm != "" {
		b.WriteString(` realm="`)
		b.WriteString(c.Realm)
		b.WriteByte('"')
	}
	if c.Parameters != nil {
		for _, pair := range c.Parameters.Items() {
			b.WriteString(", ")
			b.WriteString(pair.Key)
			b.WriteString(`="`)
			b.WriteString(pair.Value)
			b.WriteByte('"')
		}
	}
	return b.String()
}

// NewAuthChallenge builds a challenge for scheme/realm with no extra
// parameters.
func NewAuthChallenge(scheme, realm string) AuthChallenge {
	return AuthChallenge{Scheme: scheme, Realm: realm, Parameters: headers.NewDataMap()}
}
