package headers

// Canonical HTTP header name constants, grouped by concern. Comparisons
// against a Multimap never need these (NewHeaders folds case), but they
// give call sites a typo-resistant way to build and read messages.
const (
	// Message framing and transport.
	Host          = "Host"
	ContentLength = "Content-Length"
	ContentType   = "Content-Type"
	Connection    = "Connection"
	Date          = "Date"
	Expect        = "Expect"
	UserAgent     = "User-Agent"
	Server        = "Server"
	Location      = "Location"
	Via           = "Via"

	// Content negotiation and conditionals.
	Accept         = "Accept"
	AcceptEncoding = "Accept-Encoding"
	AcceptLanguage = "Accept-Language"
	IfMatch        = "If-Match"
	IfNoneMatch    = "If-None-Match"
	IfModifiedSince = "If-Modified-Since"
	ETag           = "ETag"
	LastModified   = "Last-Modified"

	// Cookies.
	Cookie    = "Cookie"
	SetCookie = "Set-Cookie"

	// Authentication.
	Authorization      = "Authorization"
	WWWAuthenticate    = "WWW-Authenticate"
	ProxyAuthenticate  = "Proxy-Authenticate"
	ProxyAuthorization = "Proxy-Authorization"

	// CORS.
	Origin                      = "Origin"
	AccessControlAllowOrigin    = "Access-Control-Allow-Origin"
	AccessControlRequestMethod  = "Access-Control-Request-Method"
	AccessControlRequestHeaders = "Access-Control-Request-Headers"
)
