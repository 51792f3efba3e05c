package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a Serialiser using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Use `msgpack:"fieldName"` tags if you need explicit control over field names.
type Msgpack[V any] struct{}

var _ Serialiser[struct{}] = Msgpack[struct{}]{}

func (Msgpack[V]) EncodeNull() []byte { return null() }

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	if IsNull(v) {
		return null(), nil
	}
	return msgpack.Marshal(v)
}

func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	if len(b) == 0 {
		return v, nil
	}
	if err := msgpack.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, malformed("msgpack", err)
	}
	return v, nil
}
