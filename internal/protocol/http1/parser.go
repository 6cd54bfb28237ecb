package http1

import (
	"bufio"
	"strconv"

	"github.com/indigo-web/h1/config"
	"github.com/indigo-web/h1/http"
	"github.com/indigo-web/h1/http/headers"
	"github.com/indigo-web/h1/http/status"
)

// Parser reads a single request message from a buffered stream. It keeps no state
// between calls except the config, so a single instance may be reused sequentially.
// It isn't safe for concurrent use though, as nothing in a connection is.
type Parser struct {
	cfg *config.Config
}

func NewParser(cfg *config.Config) *Parser {
	return &Parser{cfg: cfg}
}

// Stage is a part of the request message the parser proceeds to.
type Stage uint8

const (
	StageHeaders Stage = iota + 1
	StageBody
)

// Parse reads the whole request: the request line, the header block and, if it's
// declared, the body. Either a complete request or an error is returned, never both.
func (p *Parser) Parse(r *bufio.Reader) (*http.Request, error) {
	return p.ParseStages(r, nil)
}

// ParseStages is Parse, additionally notifying onStage right before the header block
// and the body are read. The callback may be nil.
func (p *Parser) ParseStages(r *bufio.Reader, onStage func(Stage)) (*http.Request, error) {
	if onStage == nil {
		onStage = func(Stage) {}
	}

	line, err := p.RequestLine(r)
	if err != nil {
		return nil, err
	}

	onStage(StageHeaders)
	hdrs, err := p.Headers(r)
	if err != nil {
		return nil, err
	}

	length, err := ContentLength(hdrs)
	if err != nil {
		return nil, err
	}

	var body []byte
	if length > 0 {
		onStage(StageBody)
		if body, err = p.Body(r, length); err != nil {
			return nil, err
		}
	}

	return http.NewRequest(line, hdrs, body), nil
}

// ContentLength returns the declared body length. Absence of the header means no body.
// The value must consist of decimal digits only. A request declaring any transfer
// coding is rejected, as none of them is supported for requests.
func ContentLength(hdrs *headers.Headers) (int, error) {
	if hdrs.Has("transfer-encoding") {
		return 0, status.ErrUnsupportedTransferEncoding
	}

	value, found := hdrs.Get("content-length")
	if !found {
		return 0, nil
	}

	if !isDigits(value) {
		return 0, status.ErrContentLengthMismatch
	}

	length, err := strconv.Atoi(value)
	if err != nil {
		// the only possible reason is overflow
		return 0, status.ErrContentLengthMismatch
	}

	return length, nil
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
