package simple

import (
	"testing"

	"github.com/indigo-web/h1/http"
	"github.com/indigo-web/h1/http/status"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newRequest(method, target string) *http.Request {
	return http.NewRequest(http.RequestLine{Method: method, Target: target, Version: "HTTP/1.1"}, nil, nil)
}

func body(resp *http.Response) string {
	return string(resp.Reveal().Body)
}

func TestRouter(t *testing.T) {
	r := New().
		Get("/", func(*http.Request) *http.Response {
			return http.NewResponse().String("root")
		}).
		Route("POST", "/", func(*http.Request) *http.Response {
			return http.NewResponse().String("posted")
		})

	t.Run("match", func(t *testing.T) {
		resp := r.OnRequest(newRequest("GET", "/"))
		require.Equal(t, status.OK, resp.Reveal().Status)
		require.Equal(t, "root", body(resp))

		require.Equal(t, "posted", body(r.OnRequest(newRequest("POST", "/"))))
	})

	t.Run("unknown target", func(t *testing.T) {
		resp := r.OnRequest(newRequest("GET", "/unknown"))
		require.Equal(t, status.NotFound, resp.Reveal().Status)
		require.Equal(t, "Resource not found", body(resp))
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := r.OnRequest(newRequest("DELETE", "/"))
		require.Equal(t, status.NotFound, resp.Reveal().Status)
	})

	t.Run("target is matched exactly", func(t *testing.T) {
		resp := r.OnRequest(newRequest("GET", "/?a=b"))
		require.Equal(t, status.NotFound, resp.Reveal().Status)
	})

	t.Run("replace", func(t *testing.T) {
		r := New().
			Get("/", func(*http.Request) *http.Response {
				return http.NewResponse().String("first")
			}).
			Get("/", func(*http.Request) *http.Response {
				return http.NewResponse().String("second")
			})
		require.Equal(t, "second", body(r.OnRequest(newRequest("GET", "/"))))
	})

	t.Run("custom not found", func(t *testing.T) {
		r := New().NotFound(func(*http.Request) *http.Response {
			return http.NewResponse().Code(status.NotFound).String("nope")
		})
		require.Equal(t, "nope", body(r.OnRequest(newRequest("GET", "/"))))
	})
}

func TestRouter_OnError(t *testing.T) {
	t.Run("client fault", func(t *testing.T) {
		resp := New().OnError(status.ErrMalformedHeaderLine)
		require.Equal(t, status.BadRequest, resp.Reveal().Status)
		require.Equal(t, "Invalid request: "+status.ErrMalformedHeaderLine.Error(), body(resp))
	})

	t.Run("server fault", func(t *testing.T) {
		resp := New().OnError(errors.New("handler panicked"))
		require.Equal(t, status.InternalServerError, resp.Reveal().Status)
		require.Equal(t, "Server error occurred", body(resp))
	})

	t.Run("custom", func(t *testing.T) {
		r := New().OnErrorFunc(func(err error) *http.Response {
			return http.NewResponse().Code(status.StatusOf(err)).String("custom")
		})
		resp := r.OnError(status.ErrInvalidMethodToken)
		require.Equal(t, status.BadRequest, resp.Reveal().Status)
		require.Equal(t, "custom", body(resp))
	})
}
