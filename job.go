package iomp

import (
	"github.com/behrlich/go-iomp/internal/bufpool"
	"github.com/behrlich/go-iomp/internal/job"
)

// Job is a single async read, write, or accept request submitted
// against a Pool. See package job for field semantics; this is a type
// alias so constructors and callbacks from either package are
// interchangeable.
type Job = job.Job

// NewRead builds a Job whose executor performs a non-blocking read
// into buf, calling complete exactly once when it finishes (errno 0)
// or fails, and release exactly once after that, once nothing else
// references the Job.
func NewRead(fd int, buf []byte, complete func(j *Job, errno int), release func(j *Job)) *Job {
	return job.NewRead(fd, buf, complete, release)
}

// NewWrite builds a Job whose executor performs a non-blocking write
// of buf.
func NewWrite(fd int, buf []byte, complete func(j *Job, errno int), release func(j *Job)) *Job {
	return job.NewWrite(fd, buf, complete, release)
}

// NewAccept builds a Job whose executor performs a non-blocking
// accept on the listening descriptor fd. On success the accepted
// connection's descriptor is available as j.AcceptFd from within
// complete.
func NewAccept(fd int, complete func(j *Job, errno int), release func(j *Job)) *Job {
	return job.NewAccept(fd, complete, release)
}

// NewPooledRead builds a read Job whose buffer is drawn from an
// internal size-bucketed pool instead of being allocated by the
// caller, returning it to the pool itself once the Job's refcount
// reaches zero. Callers submitting many short-lived reads can use
// this instead of NewRead to cut per-submission allocation.
func NewPooledRead(fd int, size int, complete func(j *Job, errno int)) *Job {
	buf := bufpool.Get(size)
	return job.NewRead(fd, buf, complete, func(j *Job) {
		bufpool.Put(j.Buf)
	})
}
