package http1

import (
	"bufio"
	"io"
	"strings"

	"github.com/indigo-web/h1/http"
	"github.com/indigo-web/h1/http/status"
	"github.com/indigo-web/h1/internal/httpchars"
	"github.com/indigo-web/utils/uf"
)

const supportedVersion = "HTTP/1.1"

// RequestLine consumes the stream up to and including the first CRLF and parses the
// consumed line. The stream ending before CRLF is met makes the line malformed.
func (p *Parser) RequestLine(r *bufio.Reader) (http.RequestLine, error) {
	// the buffer is never reused, so the strings below may safely point into it
	line := make([]byte, 0, 64)
	var prev byte

	for {
		char, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return http.RequestLine{}, status.ErrMalformedRequestLine
			}

			return http.RequestLine{}, status.Transport(err, "read request line")
		}

		if prev == '\r' && char == '\n' {
			line = line[:len(line)-1]
			break
		}

		// the extra byte is reserved for CR
		if len(line) > p.cfg.URI.RequestLineSize {
			return http.RequestLine{}, status.ErrRequestLineTooLong
		}

		line = append(line, char)
		prev = char
	}

	fields := strings.FieldsFunc(uf.B2S(line), httpchars.IsSpace)
	if len(fields) != 3 {
		return http.RequestLine{}, status.ErrMalformedRequestLine
	}

	method, target, version := fields[0], fields[1], fields[2]

	if !httpchars.IsMethod(method) {
		return http.RequestLine{}, status.ErrInvalidMethodToken
	}

	if version != supportedVersion {
		return http.RequestLine{}, status.ErrUnsupportedVersion
	}

	return http.RequestLine{
		Method:  method,
		Target:  target,
		Version: version,
	}, nil
}
