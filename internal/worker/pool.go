// Package worker implements the pool's thread model: N workers, each
// pinned to its own OS thread and owning a private readiness queue,
// pulling Jobs off one shared FIFO.
package worker

import (
	"runtime"
	"sync"

	"github.com/behrlich/go-iomp/internal/job"
	"github.com/behrlich/go-iomp/internal/logging"
	"github.com/behrlich/go-iomp/internal/perr"
	"github.com/behrlich/go-iomp/internal/poller"
)

// Pool is a fixed-size set of worker threads draining a shared Job
// queue, each dispatching through its own readiness backend.
type Pool struct {
	mu       sync.Mutex
	queue    job.Queue
	stop     *job.Job // this Pool's own shutdown sentinel; never shared across Pools
	nthreads int
	active   map[*worker]struct{}
	blocked  map[*worker]struct{}
	logger   *logging.Logger
	wg       sync.WaitGroup
}

type worker struct {
	backend poller.Backend
}

// Config configures a Pool. Nthreads <= 0 means "detect CPU count",
// matching the original pool's get_ncpu fallback.
type Config struct {
	Nthreads int
	Logger   *logging.Logger
}

// New creates and starts a Pool of worker threads.
func New(cfg Config) (*Pool, error) {
	nthreads := cfg.Nthreads
	if nthreads <= 0 {
		nthreads = runtime.NumCPU()
	}
	if nthreads <= 0 {
		return nil, perr.New("pool_new", perr.KindInvalid, "unable to determine worker count")
	}

	p := &Pool{
		stop:     job.NewStop(),
		nthreads: nthreads,
		active:   make(map[*worker]struct{}, nthreads),
		blocked:  make(map[*worker]struct{}, nthreads),
		logger:   cfg.Logger,
	}

	workers := make([]*worker, 0, nthreads)
	for i := 0; i < nthreads; i++ {
		backend, err := poller.New()
		if err != nil {
			for _, w := range workers {
				_ = w.backend.Close()
			}
			return nil, perr.Wrap("pool_new", -1, err)
		}
		workers = append(workers, &worker{backend: backend})
	}

	p.wg.Add(nthreads)
	for _, w := range workers {
		p.active[w] = struct{}{}
		go p.run(w)
	}

	return p, nil
}

// Submit enqueues j, taking the reference the worker loop will drop
// on completion, and wakes a blocked worker if every worker is
// currently idle in its readiness queue (mirroring the original
// pool's do_post: interrupt only matters when no active worker would
// otherwise notice the new work).
func (p *Pool) Submit(j *job.Job) {
	j.Acquire()
	p.mu.Lock()
	p.queue.Push(j)
	p.wakeOneBlockedLocked()
	p.mu.Unlock()
}

func (p *Pool) wakeOneBlockedLocked() {
	if len(p.active) > 0 {
		return
	}
	for w := range p.blocked {
		if err := w.backend.Interrupt(); err != nil && p.logger != nil {
			p.logger.Warningf("interrupt: %v", err)
		}
		return
	}
}

// Close stops every worker and drains any remaining queued Jobs with
// a shutdown completion, then blocks until all workers have exited.
func (p *Pool) Close() {
	p.Submit(p.stop)
	p.wg.Wait()
}

func (p *Pool) run(w *worker) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer w.backend.Close()
	// A Job still parked in w.backend waiting for readiness is reachable
	// from nowhere else once this worker stops looping, so it must be
	// drained here before the backend (and its registrations) go away.
	defer w.backend.AbortPending(job.ErrnoShutdown)

	p.mu.Lock()
	stopped := false
	for !stopped {
		for p.queue.Empty() {
			delete(p.active, w)
			p.blocked[w] = struct{}{}
			p.mu.Unlock()

			if err := w.backend.Wait(-1); err != nil && p.logger != nil {
				p.logger.Warningf("wait: %v", err)
			}

			p.mu.Lock()
			delete(p.blocked, w)
			p.active[w] = struct{}{}
		}

		j := p.queue.Pop()
		p.mu.Unlock()

		if j == p.stop {
			p.mu.Lock()
			delete(p.active, w)
			p.nthreads--
			if p.nthreads > 0 {
				p.queue.Push(p.stop)
				p.wakeOneBlockedLocked()
			}
			stopped = true
			continue
		}

		j.Execute(w.backend)
		p.mu.Lock()
	}

	if p.nthreads == 0 {
		for !p.queue.Empty() {
			p.queue.Pop().Abort(job.ErrnoShutdown)
		}
	}
	p.mu.Unlock()
}
