package pool

import "errors"

var (
	// ErrNoConnections indicates that no connection could be established
	// during pool construction.
	ErrNoConnections = errors.New("pool: no connections could be established")
	// ErrAcquire indicates that a checkout did not complete, either
	// because the caller's context was canceled or the acquire timeout
	// elapsed while every connection was checked out.
	ErrAcquire = errors.New("pool: failed to acquire connection")
	// ErrClosed is returned by Acquire after the pool has been closed.
	ErrClosed = errors.New("pool: closed")
)
