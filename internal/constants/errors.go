package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnknownEnvironment   = errors.New("unknown environment")
	ErrUnsupportedOutput    = errors.New("unsupported output format")
)

// API errors.
var (
	ErrBaseURLRequired = errors.New("base URL is required")
	ErrRequestFailed   = errors.New("request failed")
)

// Run errors.
var (
	ErrPoolClosed         = errors.New("worker pool is closed")
	ErrDeleteNotConfirmed = errors.New("deletion not confirmed")
)

// Pagination errors.
var (
	ErrPaginationLoop = errors.New("pagination did not advance")
)
