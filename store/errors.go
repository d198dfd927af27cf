package store

import "errors"

var (
	// ErrNotFound reports that a lookup expecting exactly one row matched none.
	ErrNotFound = errors.New("store: not found")

	// ErrAmbiguous reports that a lookup expecting exactly one row matched
	// several. A unique key makes this structurally impossible, so hitting it
	// means the data is corrupt; it is never swallowed.
	ErrAmbiguous = errors.New("store: ambiguous result")
)
