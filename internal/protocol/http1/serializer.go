package http1

import (
	"io"
	"strconv"

	"github.com/indigo-web/h1/config"
	"github.com/indigo-web/h1/http"
	"github.com/indigo-web/h1/http/headers"
	"github.com/indigo-web/h1/http/mime"
	"github.com/indigo-web/h1/http/status"
	"github.com/indigo-web/h1/internal/httpchars"
)

const protocol = "HTTP/1.1 "

// statusLines are rendered once, as the set of statuses is closed.
var statusLines = func() []string {
	lines := make([]string, len(status.KnownStatuses))
	for _, s := range status.KnownStatuses {
		lines[s] = protocol + status.StringCode(s.Code()) + " " + s.Reason() + string(httpchars.CRLF)
	}

	return lines
}()

// FixedLengthHeaders returns the preset for responses with a body of known length.
func FixedLengthHeaders(contentLength int) *headers.Headers {
	return headers.NewPrealloc(3).
		Set("Content-Length", strconv.Itoa(contentLength)).
		Set("Connection", "close").
		Set("Content-Type", mime.Plain)
}

// ChunkedHeaders returns the preset for responses with a body transferred chunked.
func ChunkedHeaders() *headers.Headers {
	return headers.NewPrealloc(2).
		Set("Content-Type", mime.Plain).
		Set("Transfer-Encoding", "chunked")
}

// WriteStatusLine writes the status line terminated by CRLF.
func WriteStatusLine(w io.Writer, s status.Status) error {
	_, err := io.WriteString(w, statusLines[s])
	return status.Transport(err, "write status line")
}

// WriteHeaders writes every field in the order of their insertion, followed by the empty
// line terminating the header block.
func WriteHeaders(w io.Writer, hdrs *headers.Headers) error {
	buff := renderFields(make([]byte, 0, 256), hdrs)
	_, err := w.Write(append(buff, httpchars.CRLF...))
	return status.Transport(err, "write headers")
}

// WriteTrailers writes the trailer fields. No validation of their names is done. The final
// CRLF terminating the message is NOT written.
func WriteTrailers(w io.Writer, trailers *headers.Headers) error {
	if trailers == nil || trailers.Empty() {
		return nil
	}

	_, err := w.Write(renderFields(make([]byte, 0, 128), trailers))
	return status.Transport(err, "write trailers")
}

// Serializer writes whole responses. It owns reusable buffers, so a single instance is meant
// to serve a single connection.
type Serializer struct {
	buff    []byte
	chunked *ChunkedEncoder
}

func NewSerializer(cfg *config.Config) *Serializer {
	return &Serializer{
		buff:    make([]byte, 0, cfg.NET.WriteBufferSize),
		chunked: NewChunkedEncoder(cfg.Body.ChunkSize),
	}
}

// Write renders the response. Responses with a stream are sent chunked with the chunked
// preset, the others carry a body of known length with the fixed-length preset. Headers
// set on the response override preset fields of the same name.
//
// Any error is a transport fault and leaves the written part of the response on the wire.
func (s *Serializer) Write(w io.Writer, response *http.Response) error {
	defer s.clear()

	fields := response.Reveal()
	s.buff = append(s.buff, statusLines[fields.Status]...)

	if fields.Stream != nil {
		return s.writeStream(w, fields)
	}

	hdrs := FixedLengthHeaders(len(fields.Body)).Merge(fields.Headers)
	s.buff = renderFields(s.buff, hdrs)
	s.crlf()
	s.buff = append(s.buff, fields.Body...)

	_, err := w.Write(s.buff)
	return status.Transport(err, "write response")
}

func (s *Serializer) writeStream(w io.Writer, fields http.Fields) error {
	if closer, ok := fields.Stream.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	hdrs := ChunkedHeaders().Merge(fields.Headers)
	s.buff = renderFields(s.buff, hdrs)
	s.crlf()

	if _, err := w.Write(s.buff); err != nil {
		return status.Transport(err, "write response head")
	}

	return s.chunked.Encode(w, fields.Stream, fields.Trailers)
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, httpchars.CRLF...)
}

func (s *Serializer) clear() {
	s.buff = s.buff[:0]
}

// renderFields appends every field as `key: value` terminated by CRLF.
func renderFields(buff []byte, hdrs *headers.Headers) []byte {
	for key, value := range hdrs.Iter() {
		buff = append(buff, key...)
		buff = append(buff, httpchars.COLONSP...)
		buff = append(buff, value...)
		buff = append(buff, httpchars.CRLF...)
	}

	return buff
}
