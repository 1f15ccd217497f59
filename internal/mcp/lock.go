package mcp

import "sync/atomic"

// IndexLock guards ensure_codebase_indexed so only one index request is
// sent to the backend at a time. Callers that lose the race are told to
// retry instead of queueing.
type IndexLock struct {
	held atomic.Bool
}

// TryAcquire takes the lock if it is free and reports whether it did.
func (l *IndexLock) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release frees the lock. Only the holder may call it.
func (l *IndexLock) Release() {
	l.held.Store(false)
}

// Held reports whether an index request is in flight.
func (l *IndexLock) Held() bool {
	return l.held.Load()
}
