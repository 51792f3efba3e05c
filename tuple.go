package graphcache

// Pair is a two-field tuple value.
type Pair[A, B any] struct {
	First  A `json:"first" cbor:"first" msgpack:"first"`
	Second B `json:"second" cbor:"second" msgpack:"second"`
}

func NewPair[A, B any](a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} }

// Triple is a three-field tuple value.
type Triple[A, B, C any] struct {
	First  A `json:"first" cbor:"first" msgpack:"first"`
	Second B `json:"second" cbor:"second" msgpack:"second"`
	Third  C `json:"third" cbor:"third" msgpack:"third"`
}

func NewTriple[A, B, C any](a A, b B, c C) Triple[A, B, C] {
	return Triple[A, B, C]{First: a, Second: b, Third: c}
}
