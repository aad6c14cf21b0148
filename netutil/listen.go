// Package netutil builds listening descriptors fit for submission as
// accept Jobs: SO_REUSEPORT-enabled and set non-blocking up front, so
// the pool itself never has to touch O_NONBLOCK on a caller's
// descriptor.
package netutil

import (
	"fmt"
	"net"
	"os"

	"github.com/libp2p/go-reuseport"
	"golang.org/x/sys/unix"
)

// ListenFD opens a SO_REUSEPORT TCP listener on addr and returns its
// raw, non-blocking file descriptor. Multiple processes or multiple
// acceptor Jobs across a pool's workers can each open their own
// ListenFD on the same addr and let the kernel load-balance accepted
// connections, the way a multi-loop server built on this pool would
// want one acceptor per worker.
func ListenFD(network, addr string) (int, error) {
	ln, err := reuseport.Listen(network, addr)
	if err != nil {
		return -1, fmt.Errorf("netutil: listen %s %s: %w", network, addr, err)
	}
	defer ln.Close()

	f, err := listenerFile(ln)
	if err != nil {
		return -1, fmt.Errorf("netutil: extract fd for %s %s: %w", network, addr, err)
	}
	defer f.Close()

	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return -1, fmt.Errorf("netutil: dup listener fd: %w", err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("netutil: set non-blocking: %w", err)
	}

	return fd, nil
}

// listenerFile extracts the underlying *os.File from the concrete
// listener types reuseport.Listen can return.
func listenerFile(ln net.Listener) (*os.File, error) {
	switch l := ln.(type) {
	case *net.TCPListener:
		return l.File()
	case *net.UnixListener:
		return l.File()
	default:
		return nil, fmt.Errorf("netutil: unsupported listener type %T", ln)
	}
}
