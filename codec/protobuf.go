package codec

import "google.golang.org/protobuf/proto"

// Protobuf serialises proto messages. A nil message encodes to zero bytes and
// zero bytes decode to a nil message, so an empty message (which proto also
// encodes as zero bytes) reads back as nil.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *mypb.Graph { return &mypb.Graph{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) EncodeNull() []byte { return null() }

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	if IsNull(v) {
		return null(), nil
	}
	return proto.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	var zero T
	if len(b) == 0 {
		return zero, nil
	}
	m := c.new()
	if err := proto.Unmarshal(b, m); err != nil {
		return zero, malformed("protobuf", err)
	}
	return m, nil
}
