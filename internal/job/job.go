// Package job defines the pool's unit of asynchronous work: a
// refcounted, intrusively-queued read/write/accept request, along
// with the FIFO that the worker pool drains it from.
//
// This package depends only on the Readiness interface, not on any
// concrete poller backend, so the executor functions in executor.go
// can run against either the epoll or the kqueue implementation
// without an import cycle.
package job

import "sync/atomic"

// Op identifies which syscall a Job's executor drives.
type Op int

const (
	OpRead Op = iota
	OpWrite
	OpAccept
)

// Readiness is the subset of the poller a Job's executor needs: the
// ability to register interest in a descriptor becoming ready. The
// concrete backend (epoll or kqueue) lives in package poller.
type Readiness interface {
	RegisterRead(fd int, j *Job) error
	RegisterWrite(fd int, j *Job) error
	RegisterAccept(fd int, j *Job) error
	Unregister(fd int, op Op) error
}

// Job is a single async read, write, or accept request. Fields mirror
// the combined request/completion record of the C original this pool
// is descended from: a descriptor, a buffer, a progress offset, and
// the three callbacks that drive its lifecycle.
type Job struct {
	Fd        int    // descriptor to operate on
	Buf       []byte // caller-owned buffer
	Nbytes    int    // bytes requested (len(Buf) for read/write; unused for accept)
	Offset    int    // bytes transferred so far; monotonically increasing
	TimeoutMs int     // reserved; the core never reads this field

	op      Op
	execute func(r Readiness, j *Job)

	// Complete is invoked exactly once, from a worker goroutine, when
	// the request finishes (errno == 0) or fails (errno != 0, -1 for
	// shutdown drain). Set by the caller before submission.
	Complete func(j *Job, errno int)

	// Release is invoked exactly once, immediately after Complete
	// returns and the refcount reaches zero. Set by the caller before
	// submission; typically returns the Job to a pool or lets it be
	// garbage collected.
	Release func(j *Job)

	// AcceptFd receives the accepted connection's descriptor on a
	// successful accept completion (errno == 0); unused for read/write.
	AcceptFd int

	refcnt int64
	next   *Job // intrusive FIFO link, owned by Queue
}

// NewRead builds a Job whose executor performs a non-blocking read.
func NewRead(fd int, buf []byte, complete func(j *Job, errno int), release func(j *Job)) *Job {
	return &Job{Fd: fd, Buf: buf, Nbytes: len(buf), op: OpRead, execute: DoRead, Complete: complete, Release: release}
}

// NewWrite builds a Job whose executor performs a non-blocking write.
func NewWrite(fd int, buf []byte, complete func(j *Job, errno int), release func(j *Job)) *Job {
	return &Job{Fd: fd, Buf: buf, Nbytes: len(buf), op: OpWrite, execute: DoWrite, Complete: complete, Release: release}
}

// NewAccept builds a Job whose executor performs a non-blocking accept.
func NewAccept(fd int, complete func(j *Job, errno int), release func(j *Job)) *Job {
	return &Job{Fd: fd, op: OpAccept, execute: DoAccept, Complete: complete, Release: release}
}

// OpKind reports which syscall this Job drives.
func (j *Job) OpKind() Op { return j.op }

// Acquire increments the refcount. Called once at submission; a Job
// parked on the readiness queue keeps that same reference until the
// executor completes it.
func (j *Job) Acquire() {
	atomic.AddInt64(&j.refcnt, 1)
}

// complete runs Complete and then releases the submission's
// reference, invoking Release if that was the last one. This mirrors
// the combined complete+release macro the original pool used: the
// Complete callback always fires, and Release always fires exactly
// once after the last reference drops.
func (j *Job) complete(errno int) {
	if j.Complete != nil {
		j.Complete(j, errno)
	}
	if atomic.AddInt64(&j.refcnt, -1) == 0 && j.Release != nil {
		j.Release(j)
	}
}

// Execute runs the Job's executor against the given readiness source.
func (j *Job) Execute(r Readiness) {
	j.execute(r, j)
}

// Abort forces completion with the given errno, bypassing the
// executor. Used by the pool to drain the queue with a shutdown
// errno once every worker has exited.
func (j *Job) Abort(errno int) {
	j.complete(errno)
}
