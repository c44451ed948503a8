// Copyright 2025 The go-bitonic Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import "golang.org/x/sync/errgroup"

// ForkJoin spawns a fresh goroutine per group and joins them before
// returning. Limit bounds the number of concurrent groups; zero or less
// means unbounded.
type ForkJoin struct {
	Limit int
}

// ForEachGroup implements bms.Executor.
func (f ForkJoin) ForEachGroup(groups int, fn func(group int)) {
	var g errgroup.Group
	if f.Limit > 0 {
		g.SetLimit(f.Limit)
	}
	for i := range groups {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
