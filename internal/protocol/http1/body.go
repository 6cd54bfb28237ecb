package http1

import (
	"bufio"
	"io"

	"github.com/indigo-web/h1/http/status"
)

// Body reads exactly n bytes, which is the declared body length. As a connection carries
// exactly one request, any byte available past the body means the declared length is
// wrong. Therefore, a pipelined request is rejected the same way.
//
// The lookahead never blocks: every read asks for one byte more than the body has left,
// so bytes delivered along with the body are always seen, but no read is made once the
// body is complete.
func (p *Parser) Body(r *bufio.Reader, n int) ([]byte, error) {
	if n > p.cfg.Body.MaxSize {
		return nil, status.ErrBodyTooLarge
	}

	// the extra byte is the lookahead slot
	body := make([]byte, n+1)
	var read int

	for read < n {
		m, err := r.Read(body[read:])
		read += m
		if err != nil && read < n {
			if err == io.EOF {
				return nil, status.ErrContentLengthMismatch
			}

			return nil, status.Transport(err, "read body")
		}
	}

	if read > n || r.Buffered() > 0 {
		return nil, status.ErrContentLengthMismatch
	}

	return body[:n], nil
}
