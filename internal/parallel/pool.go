// Package parallel runs independent row-band jobs across a bounded set of
// goroutines. Pixel format conversion is embarrassingly parallel over rows;
// the pool keeps the goroutine count fixed instead of spawning one per band.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool executes batches of independent jobs on a fixed number of
// worker goroutines.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	jobs    chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu orders job submission against Close: senders hold it shared, so
	// while any batch is enqueueing the workers cannot be stopped, and once
	// Close holds it exclusively every later batch sees running == false
	// and runs inline. Without this a sender could buffer a job after the
	// last worker exited and wait on it forever.
	mu      sync.RWMutex
	running bool
}

// NewWorkerPool creates a pool with the given number of workers. Zero or
// negative means GOMAXPROCS. Workers start immediately.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan func(), workers*2),
		done:    make(chan struct{}),
		running: true,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain queued jobs before exiting so ExecuteAll callers
			// never deadlock on a closing pool.
			for {
				select {
				case job := <-p.jobs:
					job()
				default:
					return
				}
			}
		case job := <-p.jobs:
			job()
		}
	}
}

// ExecuteAll runs every job and waits for all of them to finish. Jobs run
// on the pool workers; the calling goroutine only blocks. A closed pool
// runs the jobs inline instead of dropping them.
func (p *WorkerPool) ExecuteAll(jobs []func()) {
	if len(jobs) == 0 {
		return
	}
	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		for _, job := range jobs {
			job()
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		job := job
		p.jobs <- func() {
			defer wg.Done()
			job()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Submit enqueues a single job without waiting for it. Jobs submitted to a
// closed pool are dropped.
func (p *WorkerPool) Submit(job func()) {
	if job == nil {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return
	}
	p.jobs <- job
}

// Close stops the workers after the queued jobs finish. It is safe to call
// multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }
