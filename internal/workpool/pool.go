// Package workpool runs jobs on a fixed set of worker goroutines.
package workpool

import (
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size worker pool with a FIFO queue. Jobs must not panic;
// a panicking job takes the process down with it. Close must not race with
// Schedule.
type Pool struct {
	threadCount int

	queueMu      sync.Mutex
	queueCond    *sync.Cond
	queue        []func()
	shuttingDown bool

	pending  atomic.Int64
	idleMu   sync.Mutex
	idleCond *sync.Cond

	closed    atomic.Bool
	closeOnce sync.Once
	workers   sync.WaitGroup
}

// New starts a pool with threadCount workers. A non-positive count uses
// RecommendedThreadCount.
func New(threadCount int) *Pool {
	if threadCount <= 0 {
		threadCount = RecommendedThreadCount()
	}
	p := &Pool{threadCount: threadCount}
	p.queueCond = sync.NewCond(&p.queueMu)
	p.idleCond = sync.NewCond(&p.idleMu)
	p.workers.Add(threadCount)
	for range threadCount {
		go p.work()
	}
	return p
}

// Schedule appends job to the queue and wakes one idle worker.
func (p *Pool) Schedule(job func()) {
	if job == nil {
		return
	}
	if p.closed.Load() {
		panic("workpool: schedule on closed pool")
	}
	p.pending.Add(1)
	p.queueMu.Lock()
	p.queue = append(p.queue, job)
	p.queueMu.Unlock()
	p.queueCond.Signal()
}

// WaitAll blocks until every scheduled job has finished running. It returns
// immediately when nothing is pending and may be called repeatedly.
func (p *Pool) WaitAll() {
	p.idleMu.Lock()
	defer p.idleMu.Unlock()
	for p.pending.Load() > 0 {
		p.idleCond.Wait()
	}
}

// ThreadCount returns the number of workers.
func (p *Pool) ThreadCount() int {
	return p.threadCount
}

// RemainingJobCount returns the number of jobs scheduled but not yet finished.
func (p *Pool) RemainingJobCount() int {
	return int(p.pending.Load())
}

// Close drains the queue, stops the workers and waits for them to exit.
// Jobs still running may schedule follow-up jobs until the drain completes.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.WaitAll()
		p.closed.Store(true)

		p.queueMu.Lock()
		p.shuttingDown = true
		p.queueMu.Unlock()
		p.queueCond.Broadcast()
		p.workers.Wait()
	})
}

func (p *Pool) work() {
	defer p.workers.Done()
	for {
		job, ok := p.next()
		if !ok {
			return
		}
		job()
		p.finish()
	}
}

func (p *Pool) next() (func(), bool) {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	for len(p.queue) == 0 && !p.shuttingDown {
		p.queueCond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

func (p *Pool) finish() {
	// Taking idleMu orders the decrement against a WaitAll that has just
	// checked pending and is about to Wait.
	p.idleMu.Lock()
	remaining := p.pending.Add(-1)
	p.idleMu.Unlock()
	if remaining == 0 {
		p.idleCond.Broadcast()
	}
}
