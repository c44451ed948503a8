// Copyright 2025 The go-bitonic Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides execution-group schedulers for bms stages.
//
// A stage is split into groups that touch disjoint windows of the sequence,
// so groups can run on any number of goroutines as long as the stage does
// not return before the last group finished. Every scheduler here satisfies
// bms.Executor and enforces that barrier.
//
// Pool keeps its workers alive between stages, which matters because a sort
// issues O(log² n) short stages back to back:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	eng, _ := bms.NewEngine(cfg, bms.WithExecutor(pool))
//	for _, frame := range frames {
//	    eng.Sort(ctx, frame.Cells())
//	}
package workerpool

import (
	"runtime"
	"sync"
)

// Pool is a persistent worker pool that can be reused across many stages.
// Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan task

	// mu is held for reading while tasks are queued and for writing by
	// Close, so workC is never sent to after it is closed.
	mu     sync.RWMutex
	closed bool
}

// task is one worker's share of a stage.
type task struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers workers. Workers are spawned
// immediately and persist until Close is called. If numWorkers <= 0, uses
// GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		t.fn()
		t.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool once pending work completes. Calling Close
// multiple times is safe, also while a ParallelFor is in flight: Close
// waits until its tasks are queued. A closed pool still runs work,
// sequentially.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.workC)
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each. Blocks until all ranges are done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for i := range workers {
		start := i * chunk
		if start >= n {
			break
		}
		end := min(start+chunk, n)
		wg.Add(1)
		p.workC <- task{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// ForEachGroup implements bms.Executor. Each worker takes a contiguous run
// of groups, which keeps neighbouring windows on the same core.
func (p *Pool) ForEachGroup(groups int, fn func(group int)) {
	p.ParallelFor(groups, func(start, end int) {
		for g := start; g < end; g++ {
			fn(g)
		}
	})
}
