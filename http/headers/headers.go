package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Headers is an associative structure for storing header fields, one value per field
// name. Names are compared case-insensitively. It acts as a map but uses linear search
// instead, which proves to be more efficient on relatively low amount of entries, which
// often enough is the case. Unlike a map, it keeps the insertion order, so rendering
// the same headers always produces the same bytes.
type Headers struct {
	pairs []Pair
}

func New() *Headers {
	return new(Headers)
}

// NewPrealloc returns an instance of Headers with pre-allocated underlying storage.
func NewPrealloc(n int) *Headers {
	return &Headers{
		pairs: make([]Pair, 0, n),
	}
}

// Fold inserts the pair if the key isn't presented yet. Otherwise, the value is appended
// to the existing one, separated by a comma and a space. The existing entry keeps its
// position and the spelling of its key.
func (h *Headers) Fold(key, value string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs[i].Value += ", " + value
		return h
	}

	h.pairs = append(h.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return h
}

// Set replaces the value of the key, if it's presented, keeping its position. The key
// is respelled as passed. Otherwise, the pair is appended.
func (h *Headers) Set(key, value string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs[i] = Pair{Key: key, Value: value}
		return h
	}

	h.pairs = append(h.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return h
}

// Delete removes the key, if it's presented.
func (h *Headers) Delete(key string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs = append(h.pairs[:i], h.pairs[i+1:]...)
	}

	return h
}

// Value returns the value, corresponding to the key. Otherwise, empty string is returned
func (h *Headers) Value(key string) string {
	return h.ValueOr(key, "")
}

// ValueOr returns either the value corresponding to the key or custom value, defined
// via the second parameter.
func (h *Headers) ValueOr(key, or string) string {
	value, found := h.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (h *Headers) Get(key string) (value string, found bool) {
	if i := h.index(key); i != -1 {
		return h.pairs[i].Value, true
	}

	return "", false
}

// Has indicates, whether there's an entry of the key.
func (h *Headers) Has(key string) bool {
	return h.index(key) != -1
}

// Keys returns all the keys in the insertion order.
func (h *Headers) Keys() []string {
	keys := make([]string, len(h.pairs))
	for i, pair := range h.pairs {
		keys[i] = pair.Key
	}

	return keys
}

// Iter returns an iterator over the pairs in the insertion order.
func (h *Headers) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range h.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Len returns a number of stored pairs.
func (h *Headers) Len() int {
	return len(h.pairs)
}

func (h *Headers) Empty() bool {
	return h.Len() == 0
}

// Clone creates a deep copy, which may be used later or stored somewhere safely.
func (h *Headers) Clone() *Headers {
	if h.Empty() {
		return New()
	}

	pairs := make([]Pair, len(h.pairs))
	copy(pairs, h.pairs)

	return &Headers{pairs: pairs}
}

// Merge sets every pair of other into h, overriding the values of the same keys.
func (h *Headers) Merge(other *Headers) *Headers {
	if other == nil {
		return h
	}

	for _, pair := range other.pairs {
		h.Set(pair.Key, pair.Value)
	}

	return h
}

// Expose exposes the underlying pairs slice.
func (h *Headers) Expose() []Pair {
	return h.pairs
}

// Clear all the entries. However, all the allocated space won't be freed.
func (h *Headers) Clear() *Headers {
	h.pairs = h.pairs[:0]
	return h
}

func (h *Headers) index(key string) int {
	for i, pair := range h.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return i
		}
	}

	return -1
}
