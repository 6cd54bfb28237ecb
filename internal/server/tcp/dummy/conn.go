package dummy

import (
	"bytes"
	"io"
	"net"
	"strings"
	"time"
)

// Conn is an in-memory connection. Reads are served from the input until it's exhausted,
// then io.EOF is returned, as if the peer has closed its writing side. Everything written
// is accumulated and may be inspected later.
type Conn struct {
	input   io.Reader
	output  bytes.Buffer
	closed  bool
	readErr error
}

var _ net.Conn = new(Conn)

func NewConn(input string) *Conn {
	return &Conn{input: strings.NewReader(input)}
}

// NewBrokenConn returns a connection every read from which fails with the error.
func NewBrokenConn(err error) *Conn {
	return &Conn{input: strings.NewReader(""), readErr: err}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.readErr != nil {
		return 0, c.readErr
	}

	return c.input.Read(b)
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	return c.output.Write(b)
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// Written returns everything written into the connection so far.
func (c *Conn) Written() string {
	return c.output.String()
}

func (c *Conn) Closed() bool {
	return c.closed
}

func (*Conn) LocalAddr() net.Addr {
	return nil
}

func (*Conn) RemoteAddr() net.Addr {
	return nil
}

func (*Conn) SetDeadline(time.Time) error {
	return nil
}

func (*Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (*Conn) SetWriteDeadline(time.Time) error {
	return nil
}
