// Copyright 2025 go-bitonic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bms

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// CompareExchange orders seq[a] and seq[b] ascending, swapping them if
// seq[a] > seq[b]. Equal elements are left in place. It reports whether a
// swap happened.
func CompareExchange(seq Sequence, a, b int) bool {
	if seq.Less(b, a) {
		seq.Swap(a, b)
		return true
	}
	return false
}

// Executor schedules the groups of one stage.
//
// ForEachGroup calls fn once for every group in [0, groups) and returns
// only after all calls have returned. Calls for distinct groups may run
// concurrently.
type Executor interface {
	ForEachGroup(groups int, fn func(group int))
}

// Sequential runs groups one after another on the calling goroutine.
type Sequential struct{}

// ForEachGroup implements Executor.
func (Sequential) ForEachGroup(groups int, fn func(group int)) {
	for g := range groups {
		fn(g)
	}
}

// PairFunc observes every compare-exchange of a stage.
type PairFunc func(a, b int, swapped bool)

// RunStage applies st to seq in place and returns the number of swaps.
//
// seq must have exactly st.Len() elements, and a Pairs payload must match
// its keys. Groups are dispatched through
// exec; the call returns once every group has finished, so the caller may
// start the next stage right away.
func RunStage(exec Executor, seq Sequence, st Stage) (int, error) {
	return runStage(exec, seq, st, nil)
}

func runStage(exec Executor, seq Sequence, st Stage, trace PairFunc) (int, error) {
	if seq.Len() != st.Len() {
		return 0, errors.Wrapf(ErrLengthMismatch, "stage %s covers %d elements, sequence has %d",
			st, st.Len(), seq.Len())
	}
	if err := validateSequence(seq); err != nil {
		return 0, err
	}
	if exec == nil {
		exec = Sequential{}
	}

	steps := st.Steps()
	var swaps atomic.Int64

	exec.ForEachGroup(st.Groups, func(group int) {
		n := 0
		// Lanes of one group run in order, so each step completes before
		// the next one starts: the group-local barrier.
		for _, step := range steps {
			for lane := range st.Lanes {
				a, b := st.Pair(step, group, lane)
				swapped := CompareExchange(seq, a, b)
				if swapped {
					n++
				}
				if trace != nil {
					trace(a, b, swapped)
				}
			}
		}
		swaps.Add(int64(n))
	})
	return int(swaps.Load()), nil
}
