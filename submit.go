package iomp

import (
	"syscall"

	"github.com/behrlich/go-iomp/internal/job"
	"github.com/behrlich/go-iomp/internal/logging"
)

// SubmitRead enqueues j for a non-blocking read. j.Fd must already be
// non-blocking; the pool never calls fcntl on a caller's descriptor.
// A Job missing Complete or Release is rejected with a log line and
// silently dropped, since there is no callback left to report the
// failure through. An empty buffer completes immediately with EINVAL.
func (p *Pool) SubmitRead(j *Job) {
	p.submit(j, job.OpRead)
}

// SubmitWrite enqueues j for a non-blocking write. See SubmitRead for
// the validation contract.
func (p *Pool) SubmitWrite(j *Job) {
	p.submit(j, job.OpWrite)
}

// SubmitAccept enqueues j for a non-blocking accept on a listening
// descriptor. See SubmitRead for the validation contract; Buf/Nbytes
// are not required for an accept Job.
func (p *Pool) SubmitAccept(j *Job) {
	p.submit(j, job.OpAccept)
}

func (p *Pool) submit(j *Job, op job.Op) {
	if j == nil || j.Complete == nil || j.Release == nil {
		logging.Errorf("submit: invalid argument (job, complete, or release is nil)")
		return
	}

	j.Offset = 0
	if op != job.OpAccept && (len(j.Buf) == 0 || j.Nbytes == 0) {
		j.Acquire()
		j.Abort(int(syscall.EINVAL))
		return
	}

	p.workers.Submit(j)
}
