package http

import (
	"io"

	"github.com/indigo-web/h1/http/headers"
	"github.com/indigo-web/h1/http/mime"
	"github.com/indigo-web/h1/http/status"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// up to 3 preset fields overridden plus one of the handler's own
const preallocRespHeaders = 4

// Fields are the values, filled by the Response builder.
type Fields struct {
	Status status.Status
	// Headers override the preset fields of the same name and are rendered after
	// the ones they don't override.
	Headers *headers.Headers
	Body    []byte
	// Stream, if set, is transferred using the chunked transfer encoding. The Body
	// is ignored in this case.
	Stream   io.Reader
	Trailers *headers.Headers
}

type Response struct {
	fields Fields
}

// NewResponse returns a new instance of the Response object with status set to 200 OK
// and no body.
func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Status:  status.OK,
			Headers: headers.NewPrealloc(preallocRespHeaders),
		},
	}
}

// Code sets the response status.
func (r *Response) Code(s status.Status) *Response {
	r.fields.Status = s
	return r
}

// Header sets the header value, overriding both presets and previously set values
// of the same key.
func (r *Response) Header(key, value string) *Response {
	r.fields.Headers.Set(key, value)
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value string) *Response {
	return r.Header("Content-Type", value)
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	r.fields.Stream = nil
	return r
}

// Write implements io.Writer interface. It always returns n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// Stream sets the body source of unknown length. It'll be sent chunked. If the reader
// implements io.Closer, it'll be closed after the transfer, successful or not.
func (r *Response) Stream(reader io.Reader) *Response {
	r.fields.Stream = reader
	r.fields.Body = nil
	return r
}

// Trailer adds a trailer field. Trailers are sent only along with streamed bodies.
func (r *Response) Trailer(key, value string) *Response {
	if r.fields.Trailers == nil {
		r.fields.Trailers = headers.New()
	}

	r.fields.Trailers.Set(key, value)
	return r
}

// TryJSON receives a model and returns the Response with the model serialized as a body
func (r *Response) TryJSON(model any) (*Response, error) {
	// the body may be a string's memory, see String. Never write into it
	r.fields.Body = nil
	r.fields.Stream = nil
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error turns the response into an error response. Client faults result in 400 Bad Request
// with the error description, anything else in 500 Internal Server Error without any
// details. Nil error changes nothing.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	s := status.StatusOf(err)
	r.Code(s).ContentType(mime.Plain)

	if s == status.BadRequest {
		return r.String("Invalid request: " + err.Error())
	}

	return r.String("Server error occurred")
}

// Reveal returns a struct with values, filled by builder. Used mostly in internal purposes
func (r *Response) Reveal() Fields {
	return r.fields
}

// Error is a predicate to NewResponse().Error(...)
func Error(_ *Request, err error) *Response {
	return NewResponse().Error(err)
}

// NotFound returns the response for a request of unknown resource.
func NotFound(*Request) *Response {
	return NewResponse().
		Code(status.NotFound).
		ContentType(mime.Plain).
		String("Resource not found")
}
