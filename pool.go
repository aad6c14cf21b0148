// Package iomp is an asynchronous byte-stream I/O multiplexer: submit
// non-blocking reads, writes, and accepts against a fixed pool of
// worker threads, each multiplexing its own readiness queue over
// epoll or kqueue, and get a completion callback on the worker thread
// that finished the request.
package iomp

import (
	"github.com/behrlich/go-iomp/internal/logging"
	"github.com/behrlich/go-iomp/internal/worker"
)

// Config configures a Pool.
type Config struct {
	// Nthreads is the number of worker threads. Non-positive means
	// detect the host's CPU count, matching the original pool's
	// get_ncpu fallback.
	Nthreads int

	// Logger receives the worker pool's diagnostic output; nil
	// disables it. Rejected submissions are logged through the
	// package default logger whatever this field holds.
	Logger *logging.Logger
}

// DefaultConfig returns a Config that auto-detects the worker count
// and logs through the package default logger.
func DefaultConfig() Config {
	return Config{
		Nthreads: 0,
		Logger:   logging.Default(),
	}
}

// Pool is the multiplexer's public handle: a fixed set of worker
// threads, each dispatching submitted Jobs against its own readiness
// queue.
type Pool struct {
	workers *worker.Pool
}

// New starts a Pool per cfg.
func New(cfg Config) (*Pool, error) {
	wp, err := worker.New(worker.Config{Nthreads: cfg.Nthreads, Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	return &Pool{workers: wp}, nil
}

// Close posts the shutdown sentinel and blocks until every worker has
// exited, completing any Jobs still queued with a shutdown error.
func (p *Pool) Close() {
	p.workers.Close()
}
