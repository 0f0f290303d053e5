// Package workerpool provides a bounded goroutine pool. The pool is
// strictly fixed-size: at most Cap() tasks execute at once, which is
// what lets the dispatcher guarantee its in-flight probe ceiling.
package workerpool

import (
	"sync"
	"sync/atomic"
)

// Pool manages a fixed set of worker goroutines pulling tasks from a
// shared queue. Each submitted task runs exactly once.
type Pool struct {
	workers int32
	tasks   chan func()
	running int32
	active  int32
	closed  int32
	wg      sync.WaitGroup

	// OnPanic is invoked with the recovered value when a task panics.
	// The worker survives; one task's failure never kills the pool.
	OnPanic func(recovered any)
}

// New creates a pool with the given number of workers. Workers start
// lazily on first Submit. workers must be >= 1.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: int32(workers),
		tasks:   make(chan func(), workers),
	}
}

// Submit queues a task for execution, blocking if the queue is full.
// Returns false if the pool is closed.
func (p *Pool) Submit(task func()) bool {
	if task == nil || atomic.LoadInt32(&p.closed) == 1 {
		return false
	}

	for {
		running := atomic.LoadInt32(&p.running)
		if running >= p.workers {
			break
		}
		if atomic.CompareAndSwapInt32(&p.running, running, running+1) {
			p.wg.Add(1)
			go p.worker()
			break
		}
	}

	p.tasks <- task
	return true
}

func (p *Pool) worker() {
	defer func() {
		atomic.AddInt32(&p.running, -1)
		p.wg.Done()
	}()
	for task := range p.tasks {
		p.runOne(task)
	}
}

// runOne executes a single task with panic isolation.
func (p *Pool) runOne(task func()) {
	atomic.AddInt32(&p.active, 1)
	defer atomic.AddInt32(&p.active, -1)
	defer func() {
		if r := recover(); r != nil && p.OnPanic != nil {
			p.OnPanic(r)
		}
	}()
	task()
}

// Active returns the number of tasks currently executing.
func (p *Pool) Active() int {
	return int(atomic.LoadInt32(&p.active))
}

// Cap returns the worker capacity.
func (p *Pool) Cap() int {
	return int(atomic.LoadInt32(&p.workers))
}

// Close shuts the pool down after draining queued tasks.
func (p *Pool) Close() {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	close(p.tasks)
	p.wg.Wait()
}

// IsClosed reports whether the pool has been closed.
func (p *Pool) IsClosed() bool {
	return atomic.LoadInt32(&p.closed) == 1
}
