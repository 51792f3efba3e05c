package graphcache

import (
	"fmt"
	"strconv"
)

// KeyCodec maps cache keys to the strings backends store.
type KeyCodec[K comparable] interface {
	EncodeKey(K) (string, error)
	DecodeKey(string) (K, error)
}

// StringKeys is the identity KeyCodec.
type StringKeys struct{}

func (StringKeys) EncodeKey(k string) (string, error) { return k, nil }
func (StringKeys) DecodeKey(s string) (string, error) { return s, nil }

// Int64Keys stores int64 keys in base 10. DecodeKey accepts only the form
// EncodeKey produces, so "01" or "+1" never alias key 1.
type Int64Keys struct{}

func (Int64Keys) EncodeKey(k int64) (string, error) { return strconv.FormatInt(k, 10), nil }

func (Int64Keys) DecodeKey(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if strconv.FormatInt(n, 10) != s {
		return 0, fmt.Errorf("int64 key %q is not canonical", s)
	}
	return n, nil
}
