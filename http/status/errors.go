package status

import (
	"github.com/pkg/errors"
)

// Kind classifies the failures the message layer reports.
type Kind uint8

const (
	MalformedRequestLine Kind = iota + 1
	InvalidMethodToken
	UnsupportedVersion
	MalformedHeaderLine
	InvalidFieldName
	ContentLengthMismatch
	// Rejected is a client's fault detected past the message layer, e.g. by a handler.
	Rejected
	// TransportFault is a read or write failure on the underlying stream. Unlike the
	// rest of kinds, it isn't a client's fault.
	TransportFault
)

var kindNames = [...]string{
	MalformedRequestLine:  "MalformedRequestLine",
	InvalidMethodToken:    "InvalidMethodToken",
	UnsupportedVersion:    "UnsupportedVersion",
	MalformedHeaderLine:   "MalformedHeaderLine",
	InvalidFieldName:      "InvalidFieldName",
	ContentLengthMismatch: "ContentLengthMismatch",
	Rejected:              "Rejected",
	TransportFault:        "TransportFault",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) || kindNames[k] == "" {
		return "Unknown"
	}

	return kindNames[k]
}

// Error is the error type of the message layer. Two errors are considered the same
// by errors.Is if their kinds match, so sentinels below may be compared against
// errors carrying a different message or a cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func NewError(kind Kind, message string) error {
	return Error{
		Kind:    kind,
		Message: message,
	}
}

func (e Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e Error) Unwrap() error {
	return e.Cause
}

func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Kind == e.Kind
}

// Status returns the status a response to the error must carry.
func (e Error) Status() Status {
	if e.Kind == TransportFault {
		return InternalServerError
	}

	return BadRequest
}

// The messages are sent to the client as they are, in the response body.
var (
	ErrMalformedRequestLine = NewError(MalformedRequestLine, "Invalid request line format: Invalid number of arguments")
	ErrRequestLineTooLong   = NewError(MalformedRequestLine, "Invalid request line format: Request line is too long")
	ErrInvalidMethodToken   = NewError(InvalidMethodToken, "Invalid request line format: Invalid method format")
	ErrUnsupportedVersion   = NewError(UnsupportedVersion, "Invalid request line format: Invalid HTTP version format")

	ErrMalformedHeaderLine = NewError(MalformedHeaderLine, "Invalid header format: Invalid line format")
	ErrHeadersTooLarge     = NewError(MalformedHeaderLine, "Invalid header format: Too large headers section")
	ErrTooManyHeaders      = NewError(MalformedHeaderLine, "Invalid header format: Too many headers")
	ErrInvalidFieldName    = NewError(InvalidFieldName, "Invalid header format: Invalid field-line format")

	ErrContentLengthMismatch       = NewError(ContentLengthMismatch, "Invalid body format: Content-Length mismatch.")
	ErrBodyTooLarge                = NewError(ContentLengthMismatch, "Invalid body format: Body is too large")
	ErrUnsupportedTransferEncoding = NewError(ContentLengthMismatch, "Invalid body format: Transfer-Encoding is not supported")

	ErrTransportFault = NewError(TransportFault, "transport fault")
)

// Transport wraps an I/O failure of the operation into a TransportFault, preserving
// the stack of the caller.
func Transport(err error, op string) error {
	if err == nil {
		return nil
	}

	return errors.WithStack(Error{
		Kind:    TransportFault,
		Message: op,
		Cause:   err,
	})
}

// StatusOf maps any error to the status its response must carry. Errors not produced
// by the message layer are treated as internal ones.
func StatusOf(err error) Status {
	var e Error
	if errors.As(err, &e) {
		return e.Status()
	}

	return InternalServerError
}

// IsClientFault reports whether the error was caused by malformed client's input.
func IsClientFault(err error) bool {
	var e Error
	return errors.As(err, &e) && e.Kind != TransportFault
}
