package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress indicates an address that is unknown to the engine
	// or no longer resolves to a live region. The engine rejects the call
	// and leaves its structures unchanged.
	ErrInvalidAddress = errors.New("mem: invalid address")

	// ErrBadCount indicates a non-positive allocation count or a negative
	// resize target.
	ErrBadCount = errors.New("mem: count must be positive")

	// ErrAllocTooLarge indicates a request whose byte size would overflow
	// address-space-sized counters.
	ErrAllocTooLarge = errors.New("mem: allocation too large")

	// ErrManagedFree indicates an explicit Free on a managed engine, whose
	// references own the free lifecycle.
	ErrManagedFree = errors.New("mem: managed allocations are freed on release")
)

// ErrDoubleFree indicates a free of an address that was already freed. It
// wraps ErrInvalidAddress so callers matching the general case still catch it.
var ErrDoubleFree = fmt.Errorf("%w: double free", ErrInvalidAddress)
