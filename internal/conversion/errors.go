package conversion

import "errors"

var (
	// ErrInvalidRequest rejects an illegal kind/target combination or an
	// unreadable source before any backend work begins.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBusy rejects a second submit while a session is active.
	ErrBusy = errors.New("conversion already in progress")
)
