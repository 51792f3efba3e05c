package codec

import "encoding/json"

// JSON is a Serialiser backed by encoding/json. The zero value is ready to use.
type JSON[V any] struct{}

var _ Serialiser[struct{}] = JSON[struct{}]{}

func (JSON[V]) EncodeNull() []byte { return null() }

func (JSON[V]) Encode(v V) ([]byte, error) {
	if IsNull(v) {
		return null(), nil
	}
	return json.Marshal(v)
}

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	if len(b) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, malformed("json", err)
	}
	return v, nil
}
