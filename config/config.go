package config

import (
	"os"
	"time"
	"unsafe"

	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// RequestLineSize is the maximal length of the request line, excluding the terminating
		// CRLF. Longer request lines are rejected as malformed.
		RequestLineSize int
	}

	Headers struct {
		// Number is responsible for headers storage size.
		// Default value is an initial size of allocated headers storage.
		// Maximal value is maximum number of distinct headers allowed to be presented
		Number HeadersNumber
		// MaxSize limits the length of the whole header block in bytes, including line
		// terminators.
		MaxSize int
	}

	Body struct {
		// MaxSize describes the maximal size of a body, that can be processed. Requests declaring
		// a longer one are rejected before anything is allocated for them.
		MaxSize int
		// ChunkSize is the maximal size of a single chunk of a response body transferred using
		// the chunked transfer encoding. It's also the size of the buffer the body source is
		// read into.
		ChunkSize int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// WriteBufferSize is a size of buffer in bytes the response is accumulated in before
		// being written to the socket.
		WriteBufferSize int
		// ReadTimeout limits the lifetime of a connection waiting for the request. Zero value
		// disables the limit, so a stalled peer occupies its goroutine until it goes away.
		ReadTimeout time.Duration `test:"nullable"`
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	NET     NET
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		URI: URI{
			// allow at most 16kb of request line, which is effectively pretty much tolerant,
			// considering most web-entities limit it to 4-8kb.
			RequestLineSize: 16 * 1024,
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
			// there also might be extremely long cookies.
			MaxSize: 16 * 1024,
		},
		Body: Body{
			MaxSize:   512 * 1024 * 1024, // 512 megabytes
			ChunkSize: 8192,
		},
		NET: NET{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
		},
	}
}

// Validate reports the first setting which value makes no sense.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"URI.RequestLineSize", c.URI.RequestLineSize},
		{"Headers.Number.Maximal", c.Headers.Number.Maximal},
		{"Headers.MaxSize", c.Headers.MaxSize},
		{"Body.ChunkSize", c.Body.ChunkSize},
		{"NET.ReadBufferSize", c.NET.ReadBufferSize},
		{"NET.WriteBufferSize", c.NET.WriteBufferSize},
	}

	for _, setting := range positive {
		if setting.value <= 0 {
			return errors.Errorf("config: %s must be positive, got %d", setting.name, setting.value)
		}
	}

	switch {
	case c.Headers.Number.Default < 0:
		return errors.New("config: Headers.Number.Default must not be negative")
	case c.Body.MaxSize < 0:
		return errors.New("config: Body.MaxSize must not be negative")
	case c.NET.ReadTimeout < 0:
		return errors.New("config: NET.ReadTimeout must not be negative")
	}

	return nil
}

var strict = json.Config{
	DisallowUnknownFields: true,
}.Froze()

func init() {
	// durations are expected as strings like "90s", however plain nanoseconds are
	// accepted, too
	json.RegisterTypeDecoderFunc("time.Duration", func(ptr unsafe.Pointer, iter *json.Iterator) {
		switch iter.WhatIsNext() {
		case json.StringValue:
			d, err := time.ParseDuration(iter.ReadString())
			if err != nil {
				iter.ReportError("decode duration", err.Error())
				return
			}

			*(*time.Duration)(ptr) = d
		case json.NumberValue:
			*(*time.Duration)(ptr) = time.Duration(iter.ReadInt64())
		default:
			iter.ReportError("decode duration", "must be either a string or a number")
		}
	})
}

// Parse overlays the JSON document over the defaults. Settings missing in the document
// keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := strict.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads the JSON config file. See Parse.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}

	return Parse(data)
}
