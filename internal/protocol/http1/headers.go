package http1

import (
	"bufio"
	"io"
	"strings"

	"github.com/indigo-web/h1/http/headers"
	"github.com/indigo-web/h1/http/status"
	"github.com/indigo-web/h1/internal/httpchars"
	"github.com/indigo-web/utils/uf"
)

// Headers consumes the header block up to and including the empty line terminating it
// and parses it. Field names are lower-cased; repeated fields are folded.
//
// The stream must be positioned right after the request line's CRLF. An empty header
// block is therefore a lone CRLF.
func (p *Parser) Headers(r *bufio.Reader) (*headers.Headers, error) {
	block, err := p.readHeaderBlock(r)
	if err != nil {
		return nil, err
	}

	hdrs := headers.NewPrealloc(p.cfg.Headers.Number.Default)

	for _, line := range strings.Split(uf.B2S(block), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) == 0 {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon == -1 {
			return nil, status.ErrMalformedHeaderLine
		}

		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])

		if !httpchars.IsToken(key) {
			return nil, status.ErrInvalidFieldName
		}

		if hdrs.Len() >= p.cfg.Headers.Number.Maximal && !hdrs.Has(key) {
			return nil, status.ErrTooManyHeaders
		}

		hdrs.Fold(key, value)
	}

	return hdrs, nil
}

// readHeaderBlock reads until CRLFCRLF. The last three bytes are tracked in a sliding
// window, which initially holds the CRLF terminating the request line. The returned
// block excludes the final LF.
func (p *Parser) readHeaderBlock(r *bufio.Reader) ([]byte, error) {
	// the block is never reused, so parsed keys and values may safely point into it
	block := make([]byte, 0, 256)
	w0, w1, w2 := byte(0), byte('\r'), byte('\n')

	for {
		char, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, status.ErrMalformedHeaderLine
			}

			return nil, status.Transport(err, "read headers")
		}

		if w0 == '\r' && w1 == '\n' && w2 == '\r' && char == '\n' {
			return block, nil
		}

		if len(block) >= p.cfg.Headers.MaxSize {
			return nil, status.ErrHeadersTooLarge
		}

		block = append(block, char)
		w0, w1, w2 = w1, w2, char
	}
}
