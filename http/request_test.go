package http

import (
	"testing"

	"github.com/indigo-web/h1/http/headers"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	line := RequestLine{Method: "POST", Target: "/echo", Version: "HTTP/1.1"}

	t.Run("accessors", func(t *testing.T) {
		hdrs := headers.New().
			Fold("host", "localhost").
			Fold("accept", "text/html").
			Fold("accept", "*/*")
		request := NewRequest(line, hdrs, []byte("Hello"))

		require.Equal(t, line, request.Line())
		require.Equal(t, "POST", request.Method())
		require.Equal(t, "/echo", request.Target())
		require.Equal(t, "HTTP/1.1", request.Version())
		require.True(t, request.HasBody())
		require.Equal(t, "Hello", string(request.Body()))
		require.Equal(t, 2, request.HeadersLen())

		value, found := request.Header("Accept")
		require.True(t, found)
		require.Equal(t, "text/html, */*", value)

		_, found = request.Header("content-length")
		require.False(t, found)

		var keys []string
		for key := range request.Headers() {
			keys = append(keys, key)
		}
		require.Equal(t, []string{"host", "accept"}, keys)
	})

	t.Run("no headers no body", func(t *testing.T) {
		request := NewRequest(line, nil, nil)
		require.Zero(t, request.HeadersLen())
		require.False(t, request.HasBody())
		require.Nil(t, request.Body())
	})
}
