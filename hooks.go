package graphcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// Hooks observe results; they never change them.
type Hooks interface {
	// A safe put found an existing entry.
	SafePutConflict(cache, key string)

	// The backend refused a write (capacity, entry size).
	PutRejected(cache, key string, err error)

	// A stored value could not be decoded.
	DecodeFailed(cache, key string, err error)

	// Any other backend failure.
	BackendError(op, cache string, err error)

	// An operation ran with no backend available.
	Unavailable(op string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SafePutConflict(string, string)     {}
func (NopHooks) PutRejected(string, string, error)  {}
func (NopHooks) DecodeFailed(string, string, error) {}
func (NopHooks) BackendError(string, string, error) {}
func (NopHooks) Unavailable(string)                 {}
