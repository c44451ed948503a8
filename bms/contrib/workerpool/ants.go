// Copyright 2025 The go-bitonic Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/ajroetker/go-bitonic/internal/logutil"
)

// Ants schedules one task per group on an ants goroutine pool. Unlike Pool
// it can be shared with unrelated work, since ants bounds concurrency
// across every submitter.
type Ants struct {
	pool *ants.Pool
}

// NewAnts creates an ants-backed executor with at most size goroutines.
func NewAnts(size int) (*Ants, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, errors.Wrapf(err, "create ants pool of size %d", size)
	}
	return &Ants{pool: pool}, nil
}

// groupPanic is the first panic raised by a group of a stage.
type groupPanic struct {
	group int
	value any
}

// ForEachGroup implements bms.Executor. A group that cannot be submitted
// (pool released or overloaded) runs on the calling goroutine.
//
// A panic in any group is recovered on its worker and raised again on the
// calling goroutine once every group has finished.
func (a *Ants) ForEachGroup(groups int, fn func(group int)) {
	var (
		wg     sync.WaitGroup
		failed atomic.Pointer[groupPanic]
	)
	run := func(g int) {
		defer wg.Done()
		defer func() {
			if v := recover(); v != nil {
				failed.CompareAndSwap(nil, &groupPanic{group: g, value: v})
			}
		}()
		fn(g)
	}

	wg.Add(groups)
	for g := range groups {
		if err := a.pool.Submit(func() { run(g) }); err != nil {
			run(g)
		}
	}
	wg.Wait()

	if p := failed.Load(); p != nil {
		logutil.GetGlobalLogger().Error("group task panicked",
			zap.Int("group", p.group), zap.Any("panic", p.value))
		panic(p.value)
	}
}

// Running returns the number of goroutines currently busy.
func (a *Ants) Running() int {
	return a.pool.Running()
}

// Release stops the underlying pool.
func (a *Ants) Release() {
	a.pool.Release()
}
