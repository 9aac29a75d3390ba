package server

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-httpcore/httpcore/pkg/message"
	"github.com/go-httpcore/httpcore/pkg/sockconn"
)

// LogFormatter renders an Apache-style access-log line from a
// request/response/connection triple (spec.md section 6's
// process_log_format hook; SPEC_FULL.md section 4.12), grounded on
// original_source's httpony::Server::set_log_format substitution table:
//
//	%h  remote host
//	%l  remote logname (always "-", not resolved by this module)
//	%u  authenticated user (Auth.User, or "-")
//	%t  request time, Apache common-log format
//	%r  first line of the request ("METHOD target PROTOCOL")
//	%s  response status code
//	%b  response body size in bytes, or "-" when zero
type LogFormatter struct {
	Template string
}

// DefaultLogFormat is the Apache "common log format" string.
const DefaultLogFormat = `%h %l %u %t "%r" %s %b`

// NewLogFormatter builds a LogFormatter using DefaultLogFormat.
func NewLogFormatter() *LogFormatter {
	return &LogFormatter{Template: DefaultLogFormat}
}

// Format renders one log line for req/resp/conn.
func (f *LogFormatter) Format(conn *sockconn.Connection, req *message.Request, resp *message.Response) string {
	format := f.Template
	if format == "" {
		format = DefaultLogFormat
	}

	host := "-"
	if conn != nil {
		if h, _, err := net.SplitHostPort(conn.RemoteAddr().String()); err == nil {
			host = h
		}
	}

	user := "-"
	if req != nil && req.Auth.User != "" {
		user = req.Auth.User
	}

	requestLine := "-"
	if req != nil {
		requestLine = req.Method + " " + req.URL.String() + " " + req.Protocol.String()
	}

	statusCode := "-"
	bodySize := "-"
	if resp != nil {
		statusCode = strconv.Itoa(resp.Status.Code)
		if n := resp.Output.OutputLen(); n > 0 {
			bodySize = strconv.FormatInt(n, 10)
		}
	}

	when := time.Now()
	if req != nil && !req.ReceivedAt.IsZero() {
		when = req.ReceivedAt
	}

	replacer := strings.NewReplacer(
		"%h", host,
		"%l", "-",
		"%u", user,
		"%t", "["+when.Format("02/Jan/2006:15:04:05 -0700")+"]",
		"%r", requestLine,
		"%s", statusCode,
		"%b", bodySize,
	)
	return replacer.Replace(format)
}
