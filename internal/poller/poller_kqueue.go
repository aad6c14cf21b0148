//go:build darwin || netbsd || freebsd || openbsd || dragonfly

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/behrlich/go-iomp/internal/job"
)

// kqueueBackend is the BSD/Darwin Backend: a kqueue instance using
// EV_CLEAR (kqueue's edge-triggered mode) plus a self-pipe used to
// interrupt a blocked Wait from another goroutine.
type kqueueBackend struct {
	kqfd   int
	wakeR  int
	wakeW  int
	events []unix.Kevent_t

	mu   sync.Mutex
	jobs map[int][]*job.Job // fd -> Jobs currently registered on it, in registration order
}

// New builds the readiness queue backend for the running platform.
func New() (Backend, error) {
	kqfd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		_ = unix.Close(kqfd)
		return nil, err
	}

	b := &kqueueBackend{
		kqfd:   kqfd,
		wakeR:  fds[0],
		wakeW:  fds[1],
		events: make([]unix.Kevent_t, eventBatchSize),
		jobs:   make(map[int][]*job.Job),
	}

	change := unix.Kevent_t{Ident: uint64(b.wakeR), Filter: unix.EVFILT_READ, Flags: unix.EV_ADD | unix.EV_CLEAR}
	if _, err := unix.Kevent(b.kqfd, []unix.Kevent_t{change}, nil, nil); err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

func (b *kqueueBackend) register(fd int, j *job.Job, filter int16, flags uint16) error {
	change := unix.Kevent_t{Ident: uint64(fd), Filter: filter, Flags: unix.EV_ADD | flags}
	if _, err := unix.Kevent(b.kqfd, []unix.Kevent_t{change}, nil, nil); err != nil {
		return err
	}
	b.mu.Lock()
	b.jobs[fd] = append(b.jobs[fd], j)
	b.mu.Unlock()
	return nil
}

func (b *kqueueBackend) RegisterRead(fd int, j *job.Job) error {
	return b.register(fd, j, unix.EVFILT_READ, unix.EV_CLEAR)
}

func (b *kqueueBackend) RegisterWrite(fd int, j *job.Job) error {
	return b.register(fd, j, unix.EVFILT_WRITE, unix.EV_CLEAR)
}

// RegisterAccept arms the listening descriptor level-triggered (no
// EV_CLEAR): DoAccept calls Accept4 once per wakeup rather than
// draining to EAGAIN, so a backlog of several pending connections
// must keep signalling readiness instead of waiting on a fresh edge.
func (b *kqueueBackend) RegisterAccept(fd int, j *job.Job) error {
	return b.register(fd, j, unix.EVFILT_READ, 0)
}

func (b *kqueueBackend) Unregister(fd int, op job.Op) error {
	b.mu.Lock()
	pending := b.jobs[fd]
	remaining := pending[:0]
	for _, j := range pending {
		if j.OpKind() != op {
			remaining = append(remaining, j)
		}
	}
	if len(remaining) == 0 {
		delete(b.jobs, fd)
	} else {
		b.jobs[fd] = remaining
	}
	empty := len(remaining) == 0
	b.mu.Unlock()
	if !empty {
		return nil
	}
	filter := int16(unix.EVFILT_READ)
	if op == job.OpWrite {
		filter = unix.EVFILT_WRITE
	}
	change := unix.Kevent_t{Ident: uint64(fd), Filter: filter, Flags: unix.EV_DELETE}
	_, err := unix.Kevent(b.kqfd, []unix.Kevent_t{change}, nil, nil)
	return err
}

// AbortPending completes every Job still parked in b.jobs with errno
// and forgets them; the kqueue instance itself is torn down
// separately by Close.
func (b *kqueueBackend) AbortPending(errno int) {
	b.mu.Lock()
	pending := b.jobs
	b.jobs = make(map[int][]*job.Job)
	b.mu.Unlock()

	for _, js := range pending {
		for _, j := range js {
			j.Abort(errno)
		}
	}
}

func (b *kqueueBackend) Wait(timeoutMs int) error {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		d := time.Duration(timeoutMs) * time.Millisecond
		t := unix.NsecToTimespec(d.Nanoseconds())
		ts = &t
	}

	n, err := unix.Kevent(b.kqfd, nil, b.events, ts)
	if err == unix.EINTR {
		return nil
	}
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		ev := b.events[i]
		fd := int(ev.Ident)
		if fd == b.wakeR {
			b.drainWake()
			continue
		}

		b.mu.Lock()
		pending := b.jobs[fd]
		delete(b.jobs, fd)
		b.mu.Unlock()

		for _, j := range pending {
			switch j.OpKind() {
			case job.OpRead:
				job.DoRead(b, j)
			case job.OpWrite:
				job.DoWrite(b, j)
			case job.OpAccept:
				job.DoAccept(b, j)
			}
		}
	}
	return nil
}

func (b *kqueueBackend) drainWake() {
	var buf [64]byte
	for {
		n, err := unix.Read(b.wakeR, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (b *kqueueBackend) Interrupt() error {
	_, err := unix.Write(b.wakeW, []byte{0})
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (b *kqueueBackend) Close() error {
	_ = unix.Close(b.wakeR)
	_ = unix.Close(b.wakeW)
	return unix.Close(b.kqfd)
}
