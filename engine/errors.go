package engine

import "errors"

var (
	// ErrInvalidOptions is returned when hash size or thread count are out of range.
	ErrInvalidOptions = errors.New("invalid engine options")
	// ErrSearchRunning is returned when a search or a resize is requested mid-search.
	ErrSearchRunning = errors.New("search already running")
)
