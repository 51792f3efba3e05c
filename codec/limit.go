package codec

import "fmt"

// Limit wraps another serialiser to enforce a maximum allowed payload size
// at Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized inputs coming from a shared backend.
type Limit[V any] struct {
	// Inner is the underlying serialiser being wrapped. It must be set.
	Inner Serialiser[V]
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Decode.
	MaxDecode int
}

var _ Serialiser[string] = Limit[string]{}

func (c Limit[V]) EncodeNull() []byte         { return c.Inner.EncodeNull() }
func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, malformed("limit", fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode))
	}
	return c.Inner.Decode(b)
}
