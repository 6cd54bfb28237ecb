package http

import (
	"iter"

	"github.com/indigo-web/h1/http/headers"
)

// RequestLine is the first line of a request message.
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// Request is a fully parsed request message. It's built once per connection and is
// never modified afterwards, so it's safe to read it from any goroutine.
type Request struct {
	line    RequestLine
	headers *headers.Headers
	body    []byte
}

// NewRequest assembles a request. Passed headers and body are owned by the request from
// now on and must not be modified by the caller.
func NewRequest(line RequestLine, hdrs *headers.Headers, body []byte) *Request {
	if hdrs == nil {
		hdrs = headers.New()
	}

	return &Request{
		line:    line,
		headers: hdrs,
		body:    body,
	}
}

func (r *Request) Line() RequestLine {
	return r.line
}

func (r *Request) Method() string {
	return r.line.Method
}

func (r *Request) Target() string {
	return r.line.Target
}

func (r *Request) Version() string {
	return r.line.Version
}

// Header returns the value of the header field. Lookup is case-insensitive.
func (r *Request) Header(key string) (value string, found bool) {
	return r.headers.Get(key)
}

// Headers iterates over the header fields in the order they were received first.
func (r *Request) Headers() iter.Seq2[string, string] {
	return r.headers.Iter()
}

// HeadersLen returns the number of distinct header fields.
func (r *Request) HeadersLen() int {
	return r.headers.Len()
}

// Body returns the request body or nil, if the request has none.
func (r *Request) Body() []byte {
	return r.body
}

func (r *Request) HasBody() bool {
	return r.body != nil
}
