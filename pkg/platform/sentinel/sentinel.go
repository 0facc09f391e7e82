package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors:
//   - ErrNotFound: record, transfer or subdivision does not exist
//   - ErrConflict: the natural key is taken, or a concurrent writer kept
//     winning an optimistic update
//
// Input validation failures never use these; see pkg/domain-errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
