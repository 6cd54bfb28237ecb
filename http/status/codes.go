package status

import "strconv"

// Code is a numeric HTTP status code.
type Code uint16

// Status is a member of the closed set of statuses the server is able to respond with.
// New statuses are introduced by extending the set below together with the statuses
// table.
type Status uint8

const (
	OK Status = iota
	BadRequest
	NotFound
	InternalServerError
)

type entry struct {
	code   Code
	reason string
}

var statuses = [...]entry{
	OK:                  {200, "OK"},
	BadRequest:          {400, "Bad Request"},
	NotFound:            {404, "Not Found"},
	InternalServerError: {500, "Internal Server Error"},
}

// KnownStatuses lists every member of the set in ascending order of codes.
var KnownStatuses = []Status{OK, BadRequest, NotFound, InternalServerError}

// Code returns the numeric code of the status.
func (s Status) Code() Code {
	return statuses[s].code
}

// Reason returns the reason phrase of the status, as it goes to the status line.
func (s Status) Reason() string {
	return statuses[s].reason
}

func (s Status) String() string {
	return StringCode(s.Code()) + " " + s.Reason()
}

// FromCode looks the status up by its numeric code.
func FromCode(code Code) (Status, bool) {
	for _, s := range KnownStatuses {
		if s.Code() == code {
			return s, true
		}
	}

	return 0, false
}

// StringCode returns the decimal representation of the code.
func StringCode(code Code) string {
	return strconv.Itoa(int(code))
}
