package sentinel

import "errors"

// Store-level facts. Stores return these (wrapped with %w) and services map
// them onto workflow error codes:
//   - ErrNotFound: the row does not exist
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrStateChanged: a conditioned update matched zero rows because the
//     expected prior state no longer holds
//   - ErrUnavailable: the backing service could not be reached
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStateChanged = errors.New("state changed")
	ErrUnavailable  = errors.New("unavailable")
)
