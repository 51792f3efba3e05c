// Package federation keeps the graphs of a federated store in a named cache.
package federation

import "slices"

// Graph is the cached description of one member graph.
type Graph struct {
	ID          string            `json:"id" cbor:"id" msgpack:"id"`
	Description string            `json:"description,omitempty" cbor:"description,omitempty" msgpack:"description,omitempty"`
	Schema      []byte            `json:"schema,omitempty" cbor:"schema,omitempty" msgpack:"schema,omitempty"`
	Properties  map[string]string `json:"properties,omitempty" cbor:"properties,omitempty" msgpack:"properties,omitempty"`
}

// Access says who may use a graph.
type Access struct {
	AddingUserID      string   `json:"addingUserId,omitempty" cbor:"addingUserId,omitempty" msgpack:"addingUserId,omitempty"`
	Auths             []string `json:"auths,omitempty" cbor:"auths,omitempty" msgpack:"auths,omitempty"`
	Public            bool     `json:"public,omitempty" cbor:"public,omitempty" msgpack:"public,omitempty"`
	DisabledByDefault bool     `json:"disabledByDefault,omitempty" cbor:"disabledByDefault,omitempty" msgpack:"disabledByDefault,omitempty"`
}

// Visible reports whether a user with userID and auths may see the graph.
func (a Access) Visible(userID string, auths ...string) bool {
	if a.Public || (userID != "" && userID == a.AddingUserID) {
		return true
	}
	for _, x := range auths {
		if slices.Contains(a.Auths, x) {
			return true
		}
	}
	return false
}
