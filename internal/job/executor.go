package job

import "golang.org/x/sys/unix"

// Sentinel "errno" values passed to complete for conditions that
// have no corresponding positive syscall.Errno.
const (
	ErrnoShutdown = -1 // pool is draining; see Stop
	ErrnoEOF      = -2 // peer closed before Nbytes were read
)

// DoRead drives a single read Job to completion, draining the
// descriptor to EAGAIN before giving up and registering for
// readiness. It is used both as the initial dispatch from the worker
// queue and as the readiness callback after a registered descriptor
// becomes readable again, matching the edge-triggered contract: once
// registered, re-reading must continue until EAGAIN.
func DoRead(r Readiness, j *Job) {
	for {
		todo := j.Nbytes - j.Offset
		if todo == 0 {
			j.complete(0)
			return
		}
		n, err := unix.Read(j.Fd, j.Buf[j.Offset:j.Offset+todo])
		switch {
		case err == nil && n == todo:
			j.Offset += n
			_ = r.Unregister(j.Fd, OpRead)
			j.complete(0)
			return
		case err == nil && n > 0:
			j.Offset += n
			continue
		case err == nil && n == 0:
			_ = r.Unregister(j.Fd, OpRead)
			j.complete(ErrnoEOF)
			return
		case err == unix.EAGAIN:
			if rerr := r.RegisterRead(j.Fd, j); rerr != nil {
				j.complete(errnoOf(rerr))
				return
			}
			return
		default:
			_ = r.Unregister(j.Fd, OpRead)
			j.complete(errnoOf(err))
			return
		}
	}
}

// DoWrite is DoRead's write-side twin.
func DoWrite(r Readiness, j *Job) {
	for {
		todo := j.Nbytes - j.Offset
		if todo == 0 {
			j.complete(0)
			return
		}
		n, err := unix.Write(j.Fd, j.Buf[j.Offset:j.Offset+todo])
		switch {
		case err == nil && n == todo:
			j.Offset += n
			_ = r.Unregister(j.Fd, OpWrite)
			j.complete(0)
			return
		case err == nil && n > 0:
			j.Offset += n
			continue
		case err == unix.EAGAIN:
			if rerr := r.RegisterWrite(j.Fd, j); rerr != nil {
				j.complete(errnoOf(rerr))
				return
			}
			return
		default:
			_ = r.Unregister(j.Fd, OpWrite)
			j.complete(errnoOf(err))
			return
		}
	}
}

// DoAccept drives a single accept Job. Unlike read/write it has no
// byte count to drain: one successful accept completes the Job. A
// listening descriptor that isn't ready yet gets the same
// register-and-wait treatment as a partial read.
func DoAccept(r Readiness, j *Job) {
	fd, _, err := unix.Accept4(j.Fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	switch {
	case err == nil:
		j.AcceptFd = fd
		j.complete(0)
	case err == unix.EAGAIN:
		if rerr := r.RegisterAccept(j.Fd, j); rerr != nil {
			j.complete(errnoOf(rerr))
			return
		}
	default:
		j.complete(errnoOf(err))
	}
}

func errnoOf(err error) int {
	if errno, ok := err.(unix.Errno); ok {
		return int(errno)
	}
	return ErrnoShutdown
}
