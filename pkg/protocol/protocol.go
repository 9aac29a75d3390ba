// Package protocol implements the "NAME/MAJOR.MINOR" protocol token used
// on request and response lines (e.g. "HTTP/1.1").
package protocol

import (
	"strconv"
	"strings"
)

// Protocol is a (name, major, minor) triple with a partial order: two
// protocols of different names are never less, greater, or equal to one
// another: Equal, Less and Greater all report false, and Compare reports
// ok=false.
type Protocol struct {
	Name  string
	Major int
	Minor int
}

// HTTP10 and HTTP11 are the two protocol versions this engine speaks.
var (
	HTTP10 = Protocol{Name: "HTTP", Major: 1, Minor: 0}
	HTTP11 = Protocol{Name: "HTTP", Major: 1, Minor: 1}
)

// Parse reads "NAME/MAJOR[.MINOR]"; MINOR defaults to 0 when omitted. It
// fails when the slash is missing or the version component is not a valid
// digit sequence.
func Parse(s string) (Protocol, bool) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return Protocol{}, false
	}
	name := s[:slash]
	version := s[slash+1:]

	majorStr := version
	minorStr := "0"
	if dot := strings.IndexByte(version, '.'); dot >= 0 {
		majorStr = version[:dot]
		minorStr = version[dot+1:]
	}

	major, err := strconv.Atoi(majorStr)
	if err != nil || major < 0 {
		return Protocol{}, false
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil || minor < 0 {
		return Protocol{}, false
	}

	return Protocol{Name: name, Major: major, Minor: minor}, true
}

// String formats the protocol as "NAME/MAJOR.MINOR".
func (p Protocol) String() string {
	return p.Name + "/" + strconv.Itoa(p.Major) + "." + strconv.Itoa(p.Minor)
}

// Equal reports whether two protocols have the same name and version.
func (p Protocol) Equal(other Protocol) bool {
	return p.Name == other.Name && p.Major == other.Major && p.Minor == other.Minor
}

// Compare returns (-1, 0, 1) for p <, ==, > other, and ok=false when the
// names differ (the triple only has a partial order across names).
func (p Protocol) Compare(other Protocol) (cmp int, ok bool) {
	if p.Name != other.Name {
		return 0, false
	}
	if p.Major != other.Major {
		if p.Major < other.Major {
			return -1, true
		}
		return 1, true
	}
	if p.Minor != other.Minor {
		if p.Minor < other.Minor {
			return -1, true
		}
		return 1, true
	}
	return 0, true
}

// Less reports whether p < other; it is false whenever the names differ.
func (p Protocol) Less(other Protocol) bool {
	cmp, ok := p.Compare(other)
	return ok && cmp < 0
}

// Greater reports whether p > other; it is false whenever the names differ.
func (p Protocol) Greater(other Protocol) bool {
	cmp, ok := p.Compare(other)
	return ok && cmp > 0
}
