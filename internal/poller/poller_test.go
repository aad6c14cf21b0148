package poller

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/behrlich/go-iomp/internal/job"
)

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

func TestWaitDispatchesRegisteredRead(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	a, peer := socketPair(t)

	var gotErrno int
	completed := make(chan struct{})
	j := job.NewRead(a, make([]byte, 5), func(j *job.Job, errno int) {
		gotErrno = errno
		close(completed)
	}, func(j *job.Job) {})

	j.Acquire()
	j.Execute(b) // no data yet, registers for read readiness

	_, err = unix.Write(peer, []byte("hello"))
	require.NoError(t, err)

	require.NoError(t, b.Wait(1000))

	select {
	case <-completed:
		assert.Equal(t, 0, gotErrno)
	default:
		t.Fatal("Wait returned without dispatching the ready read")
	}
}

func TestInterruptWakesWait(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	require.NoError(t, b.Interrupt())
	// A woken Wait must return promptly rather than blocking for the
	// full timeout; -1 here would hang the test forever if broken, so
	// bound it generously instead.
	require.NoError(t, b.Wait(5000))
}

func TestUnregisterRemovesPendingJob(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	a, _ := socketPair(t)
	j := job.NewRead(a, make([]byte, 5), func(j *job.Job, errno int) {}, func(j *job.Job) {})
	j.Acquire()
	j.Execute(b)

	require.NoError(t, b.Unregister(a, job.OpRead))
}

func TestRegisterReadDoesNotClobberEarlierRegistrantOnSameFd(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	a, _ := socketPair(t)

	const n = 8
	var mu sync.Mutex
	errnos := make([]int, 0, n)
	for i := 0; i < n; i++ {
		j := job.NewRead(a, make([]byte, 1), func(j *job.Job, errno int) {
			mu.Lock()
			errnos = append(errnos, errno)
			mu.Unlock()
		}, func(j *job.Job) {})
		j.Acquire()
		j.Execute(b) // never readable; every one parks in b's readiness map
	}

	b.AbortPending(job.ErrnoShutdown)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errnos, n, "every registrant on the shared fd must be completed, not just the last one")
	for _, errno := range errnos {
		assert.Equal(t, job.ErrnoShutdown, errno)
	}
}
