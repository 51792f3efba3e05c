// Package properties is an ordered, mergeable string-to-string property set.
//
// Keys keep their first insertion order; overwriting a key keeps its position.
// Absent and empty are different: Get reports absence explicitly, and an empty
// string is a value like any other.
package properties

import (
	"maps"
	"slices"
	"strings"
)

// Properties is not safe for concurrent mutation. It is meant to be built at
// bootstrap and read afterwards. The zero value is an empty set.
type Properties struct {
	keys []string
	vals map[string]string
}

func New() *Properties {
	return &Properties{vals: make(map[string]string)}
}

// FromMap copies m; keys are ordered lexically.
func FromMap(m map[string]string) *Properties {
	p := New()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		p.Set(k, m[k])
	}
	return p
}

func (p *Properties) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.vals[key]
	return v, ok
}

// GetOr returns the value of key, or def when key is absent.
func (p *Properties) GetOr(key, def string) string {
	if v, ok := p.Get(key); ok {
		return v
	}
	return def
}

func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Set inserts or overwrites key.
func (p *Properties) Set(key, value string) {
	if p.vals == nil {
		p.vals = make(map[string]string)
	}
	if _, ok := p.vals[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.vals[key] = value
}

// SetNullable sets key to *value, or removes key when value is nil.
func (p *Properties) SetNullable(key string, value *string) {
	if value == nil {
		p.Unset(key)
		return
	}
	p.Set(key, *value)
}

func (p *Properties) Unset(key string) {
	if _, ok := p.vals[key]; !ok {
		return
	}
	delete(p.vals, key)
	if i := slices.Index(p.keys, key); i >= 0 {
		p.keys = slices.Delete(p.keys, i, i+1)
	}
}

// Merge copies every key of other into p, overwriting existing values.
// Keys only in p are untouched. The last merged source wins.
func (p *Properties) Merge(other *Properties) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		p.Set(k, other.vals[k])
	}
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Map returns a copy of the set as a plain map.
func (p *Properties) Map() map[string]string {
	out := make(map[string]string, p.Len())
	if p != nil {
		maps.Copy(out, p.vals)
	}
	return out
}

func (p *Properties) Clone() *Properties {
	c := New()
	c.Merge(p)
	return c
}

// List returns the non-empty, trimmed tokens of a comma-joined value.
func (p *Properties) List(key string) []string {
	v, ok := p.Get(key)
	if !ok {
		return nil
	}
	return splitList(v)
}

// SetList stores tokens comma-joined. No tokens removes the key.
func (p *Properties) SetList(key string, tokens ...string) {
	if len(tokens) == 0 {
		p.Unset(key)
		return
	}
	p.Set(key, joinList(tokens))
}

// AddToList appends tokens to the comma-joined value of key, or sets it when
// key is absent. Existing text is kept verbatim and duplicates are not removed.
// A key holding the empty string is treated as absent: adding "2", "3" yields
// "2,3", not ",2,3".
func (p *Properties) AddToList(key string, tokens ...string) {
	if len(tokens) == 0 {
		return
	}
	if v, ok := p.Get(key); ok && v != "" {
		p.Set(key, v+","+joinList(tokens))
		return
	}
	p.Set(key, joinList(tokens))
}

func joinList(tokens []string) string { return strings.Join(tokens, ",") }

func splitList(v string) []string {
	var out []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
