package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/unkn0wn-root/graphcache/codec"
	"github.com/unkn0wn-root/graphcache/codec/codectest"
)

type graphRef struct {
	ID      string            `json:"id" cbor:"id" msgpack:"id"`
	Hooks   []string          `json:"hooks" cbor:"hooks" msgpack:"hooks"`
	Options map[string]string `json:"options" cbor:"options" msgpack:"options"`
}

func TestNullContract(t *testing.T) {
	t.Run("json/pointer", func(t *testing.T) { codectest.NullContract[*graphRef](t, codec.JSON[*graphRef]{}) })
	t.Run("json/map", func(t *testing.T) { codectest.NullContract[map[string]int](t, codec.JSON[map[string]int]{}) })
	t.Run("json/struct", func(t *testing.T) { codectest.NullContract[graphRef](t, codec.JSON[graphRef]{}) })
	t.Run("cbor/pointer", func(t *testing.T) { codectest.NullContract[*graphRef](t, codec.MustCBOR[*graphRef](true)) })
	t.Run("cbor/slice", func(t *testing.T) { codectest.NullContract[[]string](t, codec.MustCBOR[[]string](false)) })
	t.Run("msgpack/pointer", func(t *testing.T) { codectest.NullContract[*graphRef](t, codec.Msgpack[*graphRef]{}) })
	t.Run("msgpack/int", func(t *testing.T) { codectest.NullContract[int64](t, codec.Msgpack[int64]{}) })
	t.Run("protobuf", func(t *testing.T) {
		codectest.NullContract[*wrapperspb.StringValue](t, codec.NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }))
	})
	t.Run("bytes", func(t *testing.T) { codectest.NullContract[[]byte](t, codec.Bytes{}) })
	t.Run("string", func(t *testing.T) { codectest.NullContract[string](t, codec.String{}) })
	t.Run("limit", func(t *testing.T) {
		codectest.NullContract[*graphRef](t, codec.Limit[*graphRef]{Inner: codec.JSON[*graphRef]{}, MaxDecode: 8})
	})
}

func TestRoundTrip(t *testing.T) {
	v := &graphRef{ID: "g1", Hooks: []string{"log", "audit"}, Options: map[string]string{"a": "b"}}

	codectest.RoundTrip(t, codec.JSON[*graphRef]{}, v)
	codectest.RoundTrip(t, codec.MustCBOR[*graphRef](true), v)
	codectest.RoundTrip(t, codec.Msgpack[*graphRef]{}, v)
	codectest.RoundTrip(t, codec.String{}, "graph")
	codectest.RoundTrip(t, codec.Bytes{}, []byte{0, 1, 2})

	pb := codec.NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	b, err := pb.Encode(wrapperspb.String("g1"))
	require.NoError(t, err)
	got, err := pb.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GetValue())
}

func TestCBORTimeIsStable(t *testing.T) {
	c := codec.MustCBOR[time.Time](true)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 123, time.UTC)
	a, err := c.Encode(ts)
	require.NoError(t, err)
	b, err := c.Encode(ts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRejectsMalformed(t *testing.T) {
	codectest.RejectsMalformed[*graphRef](t, codec.JSON[*graphRef]{}, []byte("{not json"))
	codectest.RejectsMalformed[*graphRef](t, codec.MustCBOR[*graphRef](true), []byte{0xff, 0xff})
	codectest.RejectsMalformed[*graphRef](t, codec.Msgpack[*graphRef]{}, []byte{0xc1})
	codectest.RejectsMalformed[*wrapperspb.StringValue](t,
		codec.NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }),
		[]byte{0x0a, 0x05, 'a'})
}

func TestLimitRejectsOversized(t *testing.T) {
	c := codec.Limit[string]{Inner: codec.String{}, MaxDecode: 3}
	codectest.RejectsMalformed[string](t, c, []byte("toolong"))

	got, err := c.Decode([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "json", "CBOR", " msgpack "} {
		s, err := codec.ByName[*graphRef](name)
		require.NoError(t, err, name)
		codectest.NullContract(t, s)
	}
	_, err := codec.ByName[string]("kryo")
	assert.Error(t, err)
}

func TestIsNull(t *testing.T) {
	var p *graphRef
	var m map[string]string
	var s []int
	var i any
	assert.True(t, codec.IsNull(p))
	assert.True(t, codec.IsNull(m))
	assert.True(t, codec.IsNull(s))
	assert.True(t, codec.IsNull(i))
	assert.False(t, codec.IsNull(0))
	assert.False(t, codec.IsNull(""))
	assert.False(t, codec.IsNull([]int{}))
	assert.False(t, codec.IsNull(graphRef{}))
}
