// Package codectest holds conformance checks shared by every serialiser.
package codectest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/graphcache/codec"
)

// NullContract fails t unless s writes "no value" as zero bytes and reads zero
// bytes back as the zero V without error.
func NullContract[V any](t testing.TB, s codec.Serialiser[V]) {
	t.Helper()

	b := s.EncodeNull()
	require.NotNil(t, b, "EncodeNull must return an empty slice, not nil")
	require.Len(t, b, 0, "EncodeNull must produce zero bytes")

	var null V
	if codec.IsNull(null) {
		enc, err := s.Encode(null)
		require.NoError(t, err)
		assert.Len(t, enc, 0, "Encode(nil) must produce zero bytes")
	}

	got, err := s.Decode(b)
	require.NoError(t, err, "decoding zero bytes must not fail")
	assert.Equal(t, null, got)

	got, err = s.Decode(nil)
	require.NoError(t, err, "decoding a nil slice must not fail")
	assert.Equal(t, null, got)
}

// RoundTrip fails t unless v survives Encode then Decode.
func RoundTrip[V any](t testing.TB, s codec.Serialiser[V], v V) {
	t.Helper()

	b, err := s.Encode(v)
	require.NoError(t, err)
	got, err := s.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

// RejectsMalformed fails t unless decoding b returns a *codec.SerialisationError.
func RejectsMalformed[V any](t testing.TB, s codec.Serialiser[V], b []byte) {
	t.Helper()

	require.NotEmpty(t, b, "malformed input must be non-empty")
	_, err := s.Decode(b)
	require.Error(t, err)
	var se *codec.SerialisationError
	assert.True(t, errors.As(err, &se), "want *codec.SerialisationError, got %T", err)
}
