package transfer

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("worker pool is closed")

// DefaultWorkers is the size of the pool backing one engine.
const DefaultWorkers = 4

// Pool runs blocking backend calls on a fixed set of goroutines so the
// caller's goroutine is never tied up waiting on network I/O beyond the
// operation it asked for.
type Pool struct {
	jobs   chan func()
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines draining a queue of queueSize jobs.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	p := &Pool{jobs: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues job, blocking until there is queue room or ctx ends.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	if job == nil {
		return nil
	}

	// The read lock is held across the send so Close cannot close the
	// channel between the check and the enqueue.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// Close stops accepting jobs and, once queued jobs finish, stops the
// workers. It is safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
}

// Wait blocks until all workers have exited. Call Close first.
func (p *Pool) Wait() {
	p.wg.Wait()
}
