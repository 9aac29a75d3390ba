package message

import (
	"strings"
	"time"

	"github.com/go-httpcore/httpcore/pkg/body"
	"github.com/go-httpcore/httpcore/pkg/headers"
	"github.com/go-httpcore/httpcore/pkg/multipart"
	"github.com/go-httpcore/httpcore/pkg/protocol"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
	"github.com/go-httpcore/httpcore/pkg/status"
	"github.com/go-httpcore/httpcore/pkg/uri"
)

// Request is a parsed (or about-to-be-formatted) HTTP request (spec.md
// section 3): everything the parser fills in when reading from the wire,
// plus the fields a client fills in before sending.
type Request struct {
	Method   string
	URL      uri.URI
	Protocol protocol.Protocol
	Headers  *headers.Multimap

	// Cookies holds the name=value pairs parsed out of the request's Cookie
	// header(s) (original_source's Http1Parser::request, which folds each
	// "Cookie" header through the same semicolon-delimited parameter
	// grammar used for compound headers).
	Cookies *headers.Multimap

	RemoteIP string
	Auth     Auth

	Input body.Body

	// SuggestedStatus holds the status ParseRequest suggested (OK, or a
	// condition the server should respond with, e.g. 411 Length Required,
	// 417 Expectation Failed); the server's dispatch copies it here before
	// the handler runs.
	SuggestedStatus status.Status

	ReceivedAt time.Time
	Connection *sockconn.Connection

	postForm *headers.Multimap
}

// NewRequest builds an empty request for method/url, ready to have headers
// and a body attached before being sent or formatted.
func NewRequest(method string, url uri.URI) *Request {
	return &Request{
		Method:   method,
		URL:      url,
		Protocol: protocol.HTTP11,
		Headers:  headers.NewHeaders(),
		Cookies:  headers.NewDataMap(),
	}
}

// Query returns the request URL's query multimap (spec.md's "query data
// (from URL)").
func (r *Request) Query() *headers.Multimap {
	return r.URL.Query
}

// PostForm lazily parses the body as either application/x-www-form-urlencoded
// data or a multipart/form-data part set, the supplemented operation
// SPEC_FULL.md adds beyond the base parser (original_source's
// Request::post_data is populated the same way whenever the content type
// matches). For multipart bodies, each part's Content-Disposition "name"
// becomes the key and the part's raw content the value; file parts (those
// carrying a "filename") are included the same way a plain field is.
func (r *Request) PostForm() (*headers.Multimap, error) {
	if r.postForm != nil {
		return r.postForm, nil
	}

	in := r.Input.Input()
	if in == nil {
		r.postForm = headers.NewDataMap()
		return r.postForm, nil
	}

	mt, ok := in.ContentType()
	if !ok {
		r.postForm = headers.NewDataMap()
		return r.postForm, nil
	}

	if mt.MatchesType("multipart", "form-data") {
		mp, err := r.PostMultipart()
		if err != nil {
			return nil, err
		}
		r.postForm = headers.NewDataMap()
		if mp != nil {
			for _, part := range mp.Parts {
				name, _ := partFieldName(part)
				if name != "" {
					r.postForm.Append(name, string(part.Content))
				}
			}
		}
		return r.postForm, nil
	}

	if !mt.MatchesType("application", "x-www-form-urlencoded") {
		r.postForm = headers.NewDataMap()
		return r.postForm, nil
	}

	raw, err := in.ReadAll()
	if err != nil {
		return nil, err
	}

	r.postForm = uri.ParseQueryString(string(raw))
	return r.postForm, nil
}

// PostMultipart parses a multipart/form-data body into its raw parts,
// giving callers access to file-upload parts' headers (filename, part
// Content-Type) that the flattened PostForm() view discards.
func (r *Request) PostMultipart() (*multipart.Multipart, error) {
	in := r.Input.Input()
	if in == nil {
		return nil, nil
	}

	mt, ok := in.ContentType()
	if !ok || !mt.MatchesType("multipart", "form-data") || !mt.HasParameter() || mt.Parameter.Name != "boundary" {
		return nil, nil
	}

	raw, err := in.ReadAll()
	if err != nil {
		return nil, err
	}

	return multipart.Parse(raw, mt.Parameter.Value)
}

// partFieldName extracts the "name" parameter from a part's
// Content-Disposition header, the field key spec.md's multipart/form-data
// convenience accessor is keyed on.
func partFieldName(part multipart.Part) (string, bool) {
	if part.Headers == nil {
		return "", false
	}
	cd, ok := part.Headers.Get("Content-Disposition")
	if !ok {
		return "", false
	}
	return dispositionParameter(cd, "name")
}

// dispositionParameter pulls a single quoted-or-bare parameter value out of
// a Content-Disposition-style header value ('form-data; name="field"').
func dispositionParameter(value, param string) (string, bool) {
	for _, p := range strings.Split(value, ";") {
		p = strings.TrimSpace(p)
		name, v, ok := strings.Cut(p, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), param) {
			continue
		}
		v = strings.Trim(v, `"`)
		return v, true
	}
	return "", false
}
