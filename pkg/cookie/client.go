package cookie

import (
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/go-httpcore/httpcore/pkg/headers"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

// ClientCookie is the client-side stored form of a cookie, resolved from a
// ServerCookie at the moment it is received.
type ClientCookie struct {
	Value      string
	Domain     string
	Path       uri.Path
	Secure     bool
	HTTPOnly   bool
	ExpiryTime *time.Time // nil means a session cookie
	Created    time.Time
	LastAccess time.Time
}

// NewClientCookie resolves a ServerCookie (received for the given request
// host/path) into its client-stored form. A Max-Age <= 0 resolves to an
// already-expired sentinel (the zero time.Time, which compares before any
// real instant); otherwise Max-Age resolves to now+duration; absent Max-Age,
// Expires is used verbatim; absent both, the cookie is a session cookie
// (ExpiryTime is nil).
func NewClientCookie(sc ServerCookie, requestHost, requestPath string) ClientCookie {
	now := time.Now()
	c := ClientCookie{
		Value:      sc.Value,
		Domain:     sc.Domain,
		Path:       uri.ParsePath(cookiePathOrDefault(sc.Path, requestPath), false),
		Secure:     sc.Secure,
		HTTPOnly:   sc.HTTPOnly,
		Created:    now,
		LastAccess: now,
	}
	if c.Domain == "" {
		c.Domain = requestHost
	}

	switch {
	case sc.MaxAge != nil:
		if *sc.MaxAge <= 0 {
			zero := time.Time{}
			c.ExpiryTime = &zero
		} else {
			t := now.Add(*sc.MaxAge)
			c.ExpiryTime = &t
		}
	case sc.Expires != nil:
		t := *sc.Expires
		c.ExpiryTime = &t
	}

	return c
}

func cookiePathOrDefault(path, requestPath string) string {
	if path != "" {
		return path
	}
	return requestPath
}

// IsSession reports whether the cookie has no resolved expiry.
func (c ClientCookie) IsSession() bool { return c.ExpiryTime == nil }

// Expired reports whether the cookie's expiry is before at. A session
// cookie is never expired by this check.
func (c ClientCookie) Expired(at time.Time) bool {
	return c.ExpiryTime != nil && c.ExpiryTime.Before(at)
}

// MatchesDomain reports whether host equals the cookie's domain, or ends
// with "." + domain (RFC 6265 domain-match).
func (c ClientCookie) MatchesDomain(host string) bool {
	if strings.EqualFold(host, c.Domain) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(c.Domain))
}

// MatchesPath reports whether the cookie's stored path is a segment-wise
// prefix of other.
func (c ClientCookie) MatchesPath(other uri.Path) bool {
	mine := c.Path.Segments()
	theirs := other.Segments()
	if len(mine) > len(theirs) {
		return false
	}
	for i, seg := range mine {
		if theirs[i] != seg {
			return false
		}
	}
	return true
}

// MatchesURI reports whether the cookie should be sent on a request to u:
// domain-match(host) AND path-match(path).
func (c ClientCookie) MatchesURI(u uri.URI) bool {
	return c.MatchesDomain(u.Authority.Host) && c.MatchesPath(u.Path)
}

// UpdateAccess stamps LastAccess with the current time.
func (c *ClientCookie) UpdateAccess() {
	c.LastAccess = time.Now()
}

// Jar is an ordered map of cookie name (compared case-sensitively) to
// ClientCookie. It holds one cookie per name: storing a name again replaces
// the earlier cookie and keeps its original position.
type Jar struct {
	cookies map[string]ClientCookie
	order   []string
}

// NewJar creates an empty cookie jar.
func NewJar() *Jar {
	return &Jar{cookies: make(map[string]ClientCookie)}
}

// SetCookies stores cookies received for requestHost/requestPath. A cookie
// whose resolved Domain attribute is itself a public suffix (e.g. a bare
// "com" or "co.uk") is rejected, mirroring net/http/cookiejar's use of the
// same public-suffix list.
func (j *Jar) SetCookies(name string, sc ServerCookie, requestHost, requestPath string) bool {
	cc := NewClientCookie(sc, requestHost, requestPath)
	if isPublicSuffix(cc.Domain) {
		return false
	}
	if _, exists := j.cookies[name]; !exists {
		j.order = append(j.order, name)
	}
	j.cookies[name] = cc
	return true
}

func isPublicSuffix(domain string) bool {
	if domain == "" {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(domain))
	return icann && suffix == strings.ToLower(domain)
}

// CookiesForURI returns every stored cookie that matches u, as a
// case-sensitive data map suitable for formatting a Cookie header, and
// stamps each returned cookie's LastAccess.
func (j *Jar) CookiesForURI(u uri.URI) *headers.Multimap {
	m := headers.NewDataMap()
	for _, name := range j.order {
		cc, ok := j.cookies[name]
		if !ok || cc.Expired(time.Now()) || !cc.MatchesURI(u) {
			continue
		}
		cc.UpdateAccess()
		j.cookies[name] = cc
		m.Append(name, cc.Value)
	}
	return m
}

// Get returns a stored cookie by name.
func (j *Jar) Get(name string) (ClientCookie, bool) {
	cc, ok := j.cookies[name]
	return cc, ok
}

// Len returns the number of stored cookies.
func (j *Jar) Len() int { return len(j.order) }
