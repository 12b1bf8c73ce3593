package services

import (
	"errors"
	"fmt"
)

// Core error taxonomy. NotFound and InvalidAction surface to the caller as-is.
// Uniqueness races are recovered internally by re-reading the winning row and
// never escape. Everything else from the store is classified as
// ErrStoreUnavailable so the transport layer can mark it retryable.
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrAdUnitNotFound   = errors.New("ad unit not found")
	ErrInvalidAction    = errors.New("invalid action")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTaken       = errors.New("title already in use")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
