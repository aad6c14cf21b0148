package job

// NewStop builds a pool's shutdown sentinel Job. Each Pool owns one
// instance: a worker recognizes it by pointer identity, re-enqueues it
// for the next worker while any other worker is still running, and
// stops pulling work itself; the pool has stopped once every worker
// has seen it once. Because each Pool has its own sentinel, it never
// touches the intrusive next link concurrently with another Pool's
// queue the way a shared package-level sentinel would.
func NewStop() *Job {
	return &Job{op: -1}
}

// Queue is an intrusive singly-linked FIFO of Jobs, guarded by an
// external lock (the worker pool's). Jobs carry their own link field
// so enqueue/dequeue never allocate.
type Queue struct {
	head, tail *Job
	len        int
}

// Push appends j to the tail of the queue.
func (q *Queue) Push(j *Job) {
	j.next = nil
	if q.tail == nil {
		q.head, q.tail = j, j
	} else {
		q.tail.next = j
		q.tail = j
	}
	q.len++
}

// Pop removes and returns the Job at the head of the queue, or nil if
// the queue is empty.
func (q *Queue) Pop() *Job {
	if q.head == nil {
		return nil
	}
	j := q.head
	q.head = j.next
	if q.head == nil {
		q.tail = nil
	}
	j.next = nil
	q.len--
	return j
}

// Empty reports whether the queue has no pending Jobs.
func (q *Queue) Empty() bool {
	return q.head == nil
}

// Len returns the number of Jobs currently queued.
func (q *Queue) Len() int {
	return q.len
}
