package domain

import "errors"

var (
	// ErrCaptureFailed indicates an inbound request could not be persisted.
	ErrCaptureFailed = errors.New("failed to capture request")

	// ErrQueryFailed indicates the store could not answer a read or delete.
	ErrQueryFailed = errors.New("failed to query store")

	// ErrStoreUnavailable indicates the storage backend could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownStoreDriver indicates STORE_DRIVER names no known backend.
	ErrUnknownStoreDriver = errors.New("unknown store driver")

	// ErrPublishFailed indicates a capture event could not be published.
	ErrPublishFailed = errors.New("failed to publish capture event")
)
