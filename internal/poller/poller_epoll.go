//go:build linux

package poller

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/behrlich/go-iomp/internal/job"
)

// epollBackend is the Linux Backend: an epoll instance in
// edge-triggered mode plus a self-pipe used to interrupt a blocked
// Wait from another goroutine.
type epollBackend struct {
	epfd   int
	wakeR  int
	wakeW  int
	events []unix.EpollEvent

	mu   sync.Mutex
	jobs map[int][]*job.Job // fd -> Jobs currently registered on it, in registration order
}

// New builds the readiness queue backend for the running platform.
func New() (Backend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		_ = unix.Close(epfd)
		return nil, err
	}

	b := &epollBackend{
		epfd:   epfd,
		wakeR:  fds[0],
		wakeW:  fds[1],
		events: make([]unix.EpollEvent, eventBatchSize),
		jobs:   make(map[int][]*job.Job),
	}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, b.wakeR, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(b.wakeR),
	}); err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

func (b *epollBackend) register(fd int, j *job.Job, events uint32) error {
	ev := &unix.EpollEvent{Events: events, Fd: int32(fd)}
	err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, ev)
	if err == unix.EEXIST {
		err = unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, ev)
	}
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.jobs[fd] = append(b.jobs[fd], j)
	b.mu.Unlock()
	return nil
}

func (b *epollBackend) RegisterRead(fd int, j *job.Job) error {
	return b.register(fd, j, unix.EPOLLIN|unix.EPOLLET)
}

func (b *epollBackend) RegisterWrite(fd int, j *job.Job) error {
	return b.register(fd, j, unix.EPOLLOUT|unix.EPOLLET)
}

// RegisterAccept arms the listening descriptor level-triggered, not
// edge-triggered: DoAccept calls Accept4 once per wakeup rather than
// draining to EAGAIN, so a backlog of several pending connections
// must keep signalling readiness instead of waiting on a fresh edge.
func (b *epollBackend) RegisterAccept(fd int, j *job.Job) error {
	return b.register(fd, j, unix.EPOLLIN)
}

func (b *epollBackend) Unregister(fd int, op job.Op) error {
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
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// AbortPending completes every Job still parked in b.jobs with errno
// and forgets them; the epoll instance itself is torn down separately
// by Close.
func (b *epollBackend) AbortPending(errno int) {
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

func (b *epollBackend) Wait(timeoutMs int) error {
	n, err := unix.EpollWait(b.epfd, b.events, timeoutMs)
	if err == unix.EINTR {
		return nil
	}
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ev := b.events[i]
		fd := int(ev.Fd)
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

func (b *epollBackend) drainWake() {
	var buf [64]byte
	for {
		n, err := unix.Read(b.wakeR, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (b *epollBackend) Interrupt() error {
	_, err := unix.Write(b.wakeW, []byte{0})
	if err == unix.EAGAIN {
		// Pipe buffer already has a pending wake byte; the blocked
		// Wait will observe it.
		return nil
	}
	return err
}

func (b *epollBackend) Close() error {
	_ = unix.Close(b.wakeR)
	_ = unix.Close(b.wakeW)
	return unix.Close(b.epfd)
}
