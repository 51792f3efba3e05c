package codec

import (
	"fmt"
	"reflect"
	"strings"
)

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Serialiser is a Codec that honours the null contract:
// "no value" is written as zero bytes, and zero bytes read back as the
// zero V (nil for pointer, map, slice and interface types) without error.
// Every codec in this package is a Serialiser.
type Serialiser[V any] interface {
	Codec[V]
	EncodeNull() []byte
}

// IsNull reports whether v is a nil pointer, map, slice, interface, func or chan.
// Non-nillable values are never null.
func IsNull[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func null() []byte { return []byte{} }

// ByName returns the serialiser registered under name ("json", "cbor", "msgpack").
// An empty name selects JSON.
func ByName[V any](name string) (Serialiser[V], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON[V]{}, nil
	case "cbor":
		c, err := NewCBOR[V](true)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "msgpack":
		return Msgpack[V]{}, nil
	}
	return nil, fmt.Errorf("codec: unknown serialiser %q", name)
}
