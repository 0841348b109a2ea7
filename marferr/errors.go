// Package marferr defines the error taxonomy shared by the storage and
// dispatch layers of the MARF store.
package marferr

import "fmt"

// Kind classifies a failure so callers can branch with errors.Is without
// parsing message text.
type Kind int

const (
	// NotFound is returned when a lookup by block_hash or block_id finds no row.
	NotFound Kind = iota
	// Duplicate is returned when an insert targets an already-committed block_hash.
	Duplicate
	// OutOfBounds is returned when a read_range request exceeds the blob's length.
	OutOfBounds
	// Exhausted is returned when the next block_id would exceed 2^31-1.
	Exhausted
	// Corruption is returned when a stored blob fails a structural assumption
	// (non-blob column, truncated root pointer region).
	Corruption
	// Backend is returned for any failure surfaced by the underlying SQL engine
	// that isn't classified above.
	Backend
	// DeliveryFailure is returned by an observer's send when the TCP payload
	// could not be delivered. It is always handled locally and never escapes
	// the dispatcher.
	DeliveryFailure
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Duplicate:
		return "duplicate"
	case OutOfBounds:
		return "out of bounds"
	case Exhausted:
		return "exhausted"
	case Corruption:
		return "corruption"
	case Backend:
		return "backend"
	case DeliveryFailure:
		return "delivery failure"
	default:
		return "unknown"
	}
}

// Error implements the error interface so Kind values can be used directly
// as sentinels with errors.Is.
func (k Kind) Error() string {
	return k.String()
}

// Wrap annotates err with a Kind and a contextual message, preserving err for
// errors.Is/errors.As via %w on both operands.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", msg, kind)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}
