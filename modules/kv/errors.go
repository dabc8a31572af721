package kv

import "errors"

var (
	// ErrNotFound indicates the key is absent from both cache and store.
	// It is a user-visible condition, not a system failure.
	ErrNotFound = errors.New("kv: key not found")

	// ErrStore indicates a failure establishing, executing, or committing
	// a store transaction. It is always joined with the underlying cause.
	ErrStore = errors.New("kv: store failure")
)
