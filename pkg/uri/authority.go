package uri

import (
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Authority is the "[user[:password]@]host[:port]" component of a URI
// (RFC 3986 section 3.2). User, password and port are optional; Host is
// always present (possibly empty, e.g. for a bare "//").
type Authority struct {
	User     *string
	Password *string
	Host     string
	Port     *uint16
}

// ParseAuthority splits raw authority text using the last ":" for the port
// and the first "@" for credentials, per spec.md section 4.2.
func ParseAuthority(raw string) Authority {
	var a Authority

	hostport := raw
	if at := strings.Index(raw, "@"); at >= 0 {
		userinfo := raw[:at]
		hostport = raw[at+1:]
		if colon := strings.Index(userinfo, ":"); colon >= 0 {
			user := userinfo[:colon]
			pass := userinfo[colon+1:]
			a.User = &user
			a.Password = &pass
		} else if userinfo != "" {
			a.User = &userinfo
		}
	}

	if colon := strings.LastIndex(hostport, ":"); colon >= 0 {
		host := hostport[:colon]
		portStr := hostport[colon+1:]
		if n, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			p := uint16(n)
			a.Host = host
			a.Port = &p
		} else {
			// Not a valid port (e.g. a bare IPv6 literal without brackets);
			// treat the whole string as the host.
			a.Host = hostport
		}
	} else {
		a.Host = hostport
	}

	return a
}

// Empty reports whether the authority carries no information at all.
func (a Authority) Empty() bool {
	return a.User == nil && a.Password == nil && a.Host == "" && a.Port == nil
}

// Full renders the authority as "[user[:password]@]host[:port]". The host
// is normalized to its ASCII (punycode) form when it contains non-ASCII
// characters, so the wire form the formatter emits is always ASCII as
// HTTP/1.x requires.
func (a Authority) Full() string {
	var b strings.Builder
	if a.User != nil {
		b.WriteString(*a.User)
		if a.Password != nil {
			b.WriteByte(':')
			b.WriteString(*a.Password)
		}
		b.WriteByte('@')
	}
	b.WriteString(normalizeHost(a.Host))
	if a.Port != nil {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(*a.Port), 10))
	}
	return b.String()
}

// normalizeHost converts a non-ASCII host to its IDNA A-label form. Hosts
// that are already ASCII, empty, or that fail IDNA processing (e.g. bare
// IPv6 literals) pass through unchanged.
func normalizeHost(host string) string {
	if host == "" || isASCII(host) {
		return host
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Equal reports whether two authorities have identical fields.
func (a Authority) Equal(other Authority) bool {
	return equalStrPtr(a.User, other.User) &&
		equalStrPtr(a.Password, other.Password) &&
		a.Host == other.Host &&
		equalUint16Ptr(a.Port, other.Port)
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalUint16Ptr(a, b *uint16) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
