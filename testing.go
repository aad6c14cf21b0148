package iomp

import "golang.org/x/sys/unix"

// SocketPair returns two connected, non-blocking descriptors suitable
// for exercising SubmitRead/SubmitWrite/SubmitAccept in tests without
// a real network round trip. Callers are responsible for closing both
// descriptors.
func SocketPair() (a, b int, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, -1, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return -1, -1, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return -1, -1, err
	}
	return fds[0], fds[1], nil
}
