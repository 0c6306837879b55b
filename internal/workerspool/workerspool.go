// Copyright 2026 The IREE-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool implements a bounded pool of worker goroutines, used to
// run compiler pipelines over independent compilation units in parallel.
package workerspool

import (
	"runtime"
	"sync"
)

// Pool limits how many tasks run concurrently. The zero value is not valid;
// use New.
type Pool struct {
	// maxParallelism is the limit of concurrently running tasks. 0 disables
	// parallelism (tasks run inline), < 0 means unlimited.
	maxParallelism int

	mu sync.Mutex
	// cond is signaled whenever numRunning decreases.
	cond       sync.Cond
	numRunning int
}

// New returns a Pool with the default parallelism, runtime.NumCPU().
func New() *Pool {
	p := &Pool{maxParallelism: runtime.NumCPU()}
	p.cond = sync.Cond{L: &p.mu}
	return p
}

// IsEnabled returns whether parallelism is enabled.
func (p *Pool) IsEnabled() bool { return p.maxParallelism != 0 }

// MaxParallelism returns the limit of concurrently running tasks. 0 means
// disabled, < 0 means unlimited.
func (p *Pool) MaxParallelism() int { return p.maxParallelism }

// SetMaxParallelism changes the limit. Only change it before any task is
// started; changing it mid-run is undefined.
func (p *Pool) SetMaxParallelism(maxParallelism int) {
	p.maxParallelism = maxParallelism
}

// lockedIsFull must be called with p.mu held.
func (p *Pool) lockedIsFull() bool {
	if p.maxParallelism < 0 {
		return false
	}
	return p.numRunning >= p.maxParallelism
}

// WaitToStart blocks until a worker is available, then runs task on it and
// returns without waiting for the task to finish.
//
// With parallelism disabled the task runs inline: don't rely on concurrency
// between tasks in that configuration.
func (p *Pool) WaitToStart(task func()) {
	if p.maxParallelism < 0 {
		go task()
		return
	}
	if p.maxParallelism == 0 {
		task()
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.lockedIsFull() {
		p.cond.Wait()
	}
	p.numRunning++
	go func() {
		task()
		p.mu.Lock()
		p.numRunning--
		p.cond.Signal()
		p.mu.Unlock()
	}()
}

// ForEach runs fn(i) for every i in [0, n), at most MaxParallelism at a time,
// and returns once all calls finished.
func (p *Pool) ForEach(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		p.WaitToStart(func() {
			defer wg.Done()
			fn(i)
		})
	}
	wg.Wait()
}
