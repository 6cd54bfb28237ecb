package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}

	require.NoError(t, cfg.Validate())
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}

func TestParse(t *testing.T) {
	t.Run("overlay", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"Body": {"ChunkSize": 1024}, "NET": {"ReadTimeout": "90s"}}`))
		require.NoError(t, err)
		require.Equal(t, 1024, cfg.Body.ChunkSize)
		require.Equal(t, 90*time.Second, cfg.NET.ReadTimeout)
		require.Equal(t, Default().Body.MaxSize, cfg.Body.MaxSize)
		require.Equal(t, Default().Headers, cfg.Headers)
	})

	t.Run("numeric duration", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"NET": {"ReadTimeout": 1000000000}}`))
		require.NoError(t, err)
		require.Equal(t, time.Second, cfg.NET.ReadTimeout)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Parse([]byte(`{"NET": {"ReadTimeout": "forever"}}`))
		require.Error(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte(`{"Body": {"Chunk": 1024}}`))
		require.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Parse([]byte(`{"Body": {"ChunkSize": 0}}`))
		require.EqualError(t, err, "config: Body.ChunkSize must be positive, got 0")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"URI": {"RequestLineSize": 256}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 256, cfg.URI.RequestLineSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
