package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// fakeReadiness records register/unregister calls instead of touching
// a real poller, so DoRead/DoWrite/DoAccept can be driven against
// plain socketpair descriptors.
type fakeReadiness struct {
	registeredRead, registeredWrite, registeredAccept int
	unregistered                                      []Op
	registerErr                                       error
}

func (f *fakeReadiness) RegisterRead(fd int, j *Job) error {
	f.registeredRead++
	return f.registerErr
}

func (f *fakeReadiness) RegisterWrite(fd int, j *Job) error {
	f.registeredWrite++
	return f.registerErr
}

func (f *fakeReadiness) RegisterAccept(fd int, j *Job) error {
	f.registeredAccept++
	return f.registerErr
}

func (f *fakeReadiness) Unregister(fd int, op Op) error {
	f.unregistered = append(f.unregistered, op)
	return nil
}

func socketPair(t *testing.T) (a, b int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.SetNonblock(fds[0], true))
	require.NoError(t, unix.SetNonblock(fds[1], true))
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestDoReadCompletesImmediatelyWhenDataAlreadyAvailable(t *testing.T) {
	a, b := socketPair(t)
	_, err := unix.Write(b, []byte("hello"))
	require.NoError(t, err)

	r := &fakeReadiness{}
	var gotErrno int
	j := NewRead(a, make([]byte, 5), func(j *Job, errno int) { gotErrno = errno }, func(j *Job) {})
	j.Acquire()
	j.Execute(r)

	assert.Equal(t, 0, gotErrno)
	assert.Equal(t, 5, j.Offset)
	assert.Equal(t, 0, r.registeredRead, "a fully satisfied read must never register with the readiness queue")
	assert.Equal(t, []Op{OpRead}, r.unregistered)
}

func TestDoReadRegistersOnEAGAIN(t *testing.T) {
	a, _ := socketPair(t)

	r := &fakeReadiness{}
	completed := false
	j := NewRead(a, make([]byte, 5), func(j *Job, errno int) { completed = true }, func(j *Job) {})
	j.Acquire()
	j.Execute(r)

	assert.False(t, completed, "no data available, Job must be parked on the readiness queue instead of completing")
	assert.Equal(t, 1, r.registeredRead)
}

func TestDoReadEOF(t *testing.T) {
	a, b := socketPair(t)
	require.NoError(t, unix.Close(b))

	r := &fakeReadiness{}
	var gotErrno int
	j := NewRead(a, make([]byte, 5), func(j *Job, errno int) { gotErrno = errno }, func(j *Job) {})
	j.Acquire()
	j.Execute(r)

	assert.Equal(t, ErrnoEOF, gotErrno)
}

func TestDoWriteCompletesImmediately(t *testing.T) {
	a, b := socketPair(t)
	_ = b

	r := &fakeReadiness{}
	var gotErrno int
	j := NewWrite(a, []byte("hi"), func(j *Job, errno int) { gotErrno = errno }, func(j *Job) {})
	j.Acquire()
	j.Execute(r)

	assert.Equal(t, 0, gotErrno)
	assert.Equal(t, 2, j.Offset)
	assert.Equal(t, []Op{OpWrite}, r.unregistered)
}

func TestDoAcceptRegistersOnEAGAIN(t *testing.T) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	require.NoError(t, err)
	t.Cleanup(func() { unix.Close(fd) })
	require.NoError(t, unix.Bind(fd, &unix.SockaddrInet4{Port: 0}))
	require.NoError(t, unix.Listen(fd, 1))

	r := &fakeReadiness{}
	completed := false
	j := NewAccept(fd, func(j *Job, errno int) { completed = true }, func(j *Job) {})
	j.Acquire()
	j.Execute(r)

	assert.False(t, completed)
	assert.Equal(t, 1, r.registeredAccept)
}

func TestRegisterFailurePropagatesAsCompletion(t *testing.T) {
	a, _ := socketPair(t)

	r := &fakeReadiness{registerErr: unix.EMFILE}
	var gotErrno int
	j := NewRead(a, make([]byte, 5), func(j *Job, errno int) { gotErrno = errno }, func(j *Job) {})
	j.Acquire()
	j.Execute(r)

	assert.Equal(t, int(unix.EMFILE), gotErrno)
}
