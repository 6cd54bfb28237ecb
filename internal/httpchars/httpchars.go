// Package httpchars holds the wire constants and the token grammar shared by the
// request parsers and the response writers.
package httpchars

import (
	"golang.org/x/net/http/httpguts"
)

var (
	CRLF    = []byte("\r\n")
	COLONSP = ": "
)

// IsToken reports whether s is a non-empty sequence of tchars. Letters of both cases
// are accepted.
func IsToken(s string) bool {
	return httpguts.ValidHeaderFieldName(s)
}

// IsMethod reports whether s is a valid request method. A method is a token without
// lowercase letters.
func IsMethod(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			return false
		}

		if !httpguts.IsTokenRune(rune(c)) {
			return false
		}
	}

	return true
}

// IsSpace reports whether r is an ASCII whitespace character. Unicode spaces, like NBSP,
// are not separators and may appear inside of a field.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
