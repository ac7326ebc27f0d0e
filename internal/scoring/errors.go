package scoring

import "fmt"

// DimensionMismatchError reports vectors of inconsistent length reaching the
// scorer. It indicates a bug in the provider adapter, not bad user input.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: got %d, want %d", e.Got, e.Want)
}

// ProviderError wraps a failure of the embedding provider (load failure,
// inference failure). Surfaced to clients as a generic server error.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
