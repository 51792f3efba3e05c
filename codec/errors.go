package codec

import "fmt"

// SerialisationError reports malformed non-empty input. Empty input never
// produces one.
type SerialisationError struct {
	Codec string
	Err   error
}

func (e *SerialisationError) Error() string {
	return fmt.Sprintf("%s: deserialise: %v", e.Codec, e.Err)
}

func (e *SerialisationError) Unwrap() error { return e.Err }

func malformed(codec string, err error) error {
	return &SerialisationError{Codec: codec, Err: err}
}
