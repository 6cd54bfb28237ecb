package http1

import (
	"io"
	"strconv"

	"github.com/indigo-web/h1/http/headers"
	"github.com/indigo-web/h1/http/status"
	"github.com/indigo-web/h1/internal/httpchars"
)

// DefaultChunkSize is the maximal size of a single chunk, unless configured otherwise.
const DefaultChunkSize = 8192

const (
	// hexValueOffset is enough for any 64-bit chunk length in hex
	hexValueOffset = 16
	crlfSize       = 1 /* CR */ + 1 /* LF */
	buffOffset     = hexValueOffset + crlfSize
)

var lastChunk = []byte("0\r\n")

// ChunkedEncoder frames a byte source of unknown length using the chunked transfer coding.
// Every chunk is prepared in place: the reserved head of the buffer takes the chunk length,
// the tail takes the CRLF, so each chunk is written by a single call.
type ChunkedEncoder struct {
	buff      []byte
	chunkSize int
}

func NewChunkedEncoder(chunkSize int) *ChunkedEncoder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &ChunkedEncoder{
		chunkSize: chunkSize,
	}
}

// Encode reads the source until it's exhausted, writing a chunk for every non-empty read.
// Then the last chunk, trailers (if any) and the final CRLF are written.
//
// Both failing to read the source and failing to write into w are transport faults.
// Nothing is retried.
func (c *ChunkedEncoder) Encode(w io.Writer, src io.Reader, trailers *headers.Headers) error {
	// the buffer isn't allocated until needed in order to save memory in cases,
	// where no streams are being sent
	if len(c.buff) == 0 {
		c.buff = make([]byte, buffOffset+c.chunkSize+crlfSize)
	}

	for {
		n, err := src.Read(c.buff[buffOffset : buffOffset+c.chunkSize])

		if n > 0 {
			// first rewrite begin of the buff to contain our hexadecimal value
			hex := strconv.AppendUint(c.buff[:0], uint64(n), 16)
			// now we can determine the length of the hexadecimal value and make an
			// offset for it
			blankSpace := hexValueOffset - len(hex)
			copy(c.buff[blankSpace:], hex)
			copy(c.buff[hexValueOffset:], httpchars.CRLF)
			copy(c.buff[buffOffset+n:], httpchars.CRLF)

			if _, err := w.Write(c.buff[blankSpace : buffOffset+n+crlfSize]); err != nil {
				return status.Transport(err, "write chunk")
			}
		}

		switch err {
		case nil:
		case io.EOF:
			return finish(w, trailers)
		default:
			return status.Transport(err, "read chunk source")
		}
	}
}

func finish(w io.Writer, trailers *headers.Headers) error {
	if _, err := w.Write(lastChunk); err != nil {
		return status.Transport(err, "write last chunk")
	}

	if err := WriteTrailers(w, trailers); err != nil {
		return err
	}

	_, err := w.Write(httpchars.CRLF)
	return status.Transport(err, "write message end")
}

// WriteChunked encodes the source with the default chunk size. See ChunkedEncoder.Encode.
func WriteChunked(w io.Writer, src io.Reader, trailers *headers.Headers) error {
	return NewChunkedEncoder(DefaultChunkSize).Encode(w, src, trailers)
}
