package codec

// Bytes is an identity serialiser for []byte values. A nil slice is the null
// value; zero bytes decode back to nil.
type Bytes struct{}

var _ Serialiser[[]byte] = Bytes{}

func (Bytes) EncodeNull() []byte { return null() }

func (Bytes) Encode(b []byte) ([]byte, error) {
	if b == nil {
		return null(), nil
	}
	return b, nil
}

func (Bytes) Decode(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

// String is a trivial serialiser for Go string values. The empty string is the
// null value. By convention this assumes UTF-8 and performs no validation.
type String struct{}

var _ Serialiser[string] = String{}

func (String) EncodeNull() []byte              { return null() }
func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
