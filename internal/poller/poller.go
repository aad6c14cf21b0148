// Package poller implements the per-worker readiness queue: a thin,
// platform-specific wrapper over edge-triggered epoll (Linux) or
// EV_CLEAR kqueue (BSD/Darwin) that a single worker goroutine owns
// and blocks on between dispatching Jobs.
package poller

import "github.com/behrlich/go-iomp/internal/job"

// eventBatchSize is how many readiness events a single Wait call
// harvests from the kernel before returning to the worker loop.
const eventBatchSize = 128

// Backend is a per-worker readiness queue. Exactly one worker thread
// calls Wait on a given Backend; registration calls may originate
// from that same thread (the common case: registering the Job whose
// executor just hit EAGAIN) or, in principle, from another worker
// acting on the same descriptor, which is why registration itself
// does not assume thread affinity.
type Backend interface {
	job.Readiness

	// Wait blocks until a readiness event fires, the wake pipe is
	// written to, or timeoutMs elapses (-1 blocks indefinitely). Each
	// harvested event is dispatched inline via the matching executor
	// in package job before Wait returns.
	Wait(timeoutMs int) error

	// Interrupt wakes a concurrent or future Wait call. Safe to call
	// from any goroutine; used by the pool to pull a blocked worker
	// out of Wait when new work arrives with no other active worker
	// to notice it.
	Interrupt() error

	// AbortPending completes every Job currently registered with this
	// backend and awaiting readiness, passing errno instead of a real
	// completion, and forgets them. Called once by the owning worker
	// as it exits the pool's shutdown cascade: a Job parked here is
	// reachable from nowhere else once its worker stops looping.
	AbortPending(errno int)

	// Close releases the backend's kernel resources.
	Close() error
}
