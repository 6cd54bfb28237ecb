package headers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(h *Headers) (pairs []Pair) {
	for key, value := range h.Iter() {
		pairs = append(pairs, Pair{key, value})
	}

	return pairs
}

func TestHeaders(t *testing.T) {
	getHeaders := func() *Headers {
		return New().
			Fold("foo", "bar").
			Fold("hello", "world").
			Fold("lorem", "ipsum")
	}

	t.Run("fold", func(t *testing.T) {
		h := getHeaders().
			Fold("hello", "Pavlo").
			Fold("HELLO", "again")

		want := []Pair{
			{"foo", "bar"},
			{"hello", "world, Pavlo, again"},
			{"lorem", "ipsum"},
		}
		require.Equal(t, want, collect(h))
		require.Equal(t, 3, h.Len())
	})

	t.Run("set", func(t *testing.T) {
		h := getHeaders().Set("HELLO", "no more world")

		want := []Pair{
			{"foo", "bar"},
			{"HELLO", "no more world"},
			{"lorem", "ipsum"},
		}
		require.Equal(t, want, collect(h))
	})

	t.Run("set new key", func(t *testing.T) {
		h := New().Set("Content-Type", "text/plain")
		require.Equal(t, []Pair{{"Content-Type", "text/plain"}}, collect(h))
	})

	t.Run("get", func(t *testing.T) {
		h := getHeaders()

		value, found := h.Get("Hello")
		require.True(t, found)
		require.Equal(t, "world", value)

		_, found = h.Get("world")
		require.False(t, found)
		require.Equal(t, "", h.Value("world"))
		require.Equal(t, "fallback", h.ValueOr("world", "fallback"))
		require.True(t, h.Has("LOREM"))
	})

	t.Run("delete", func(t *testing.T) {
		h := getHeaders().Delete("HELLO").Delete("nonexisting")

		require.Equal(t, []string{"foo", "lorem"}, h.Keys())
	})

	t.Run("merge", func(t *testing.T) {
		h := New().
			Set("Content-Length", "13").
			Set("Connection", "close").
			Set("Content-Type", "text/plain").
			Merge(New().Set("content-type", "text/html").Set("X-Custom", "yes")).
			Merge(nil)

		want := []Pair{
			{"Content-Length", "13"},
			{"Connection", "close"},
			{"content-type", "text/html"},
			{"X-Custom", "yes"},
		}
		require.Equal(t, want, collect(h))
	})

	t.Run("clone", func(t *testing.T) {
		original := getHeaders()
		clone := original.Clone()
		clone.Set("foo", "baz")

		require.Equal(t, "bar", original.Value("foo"))
		require.Equal(t, "baz", clone.Value("foo"))
		require.True(t, New().Clone().Empty())
	})

	t.Run("iter break", func(t *testing.T) {
		var seen int
		for range getHeaders().Iter() {
			seen++
			break
		}

		require.Equal(t, 1, seen)
	})

	t.Run("clear", func(t *testing.T) {
		h := getHeaders().Clear()
		require.True(t, h.Empty())
		require.Empty(t, h.Expose())
	})
}
