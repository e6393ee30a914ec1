package feed

import "fmt"

// TransportError reports that a snapshot could not be retrieved from its
// source, either because the request failed or because the upstream answered
// with a non-success status.
type TransportError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports that the fetched bytes did not match the expected
// realtime schema.
type DecodeError struct {
	Format string
	Size   int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s snapshot (%d bytes): %v", e.Format, e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
