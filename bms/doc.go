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

// Package bms provides a hierarchical bitonic merge sort built from stages
// that only need bounded-capacity execution groups.
//
// # Algorithm
//
// A bitonic sorting network is a fixed sequence of compare-exchange steps.
// Every step pairs each index with exactly one partner, so all pairs of a
// step can run concurrently. Steps come in two shapes:
//   - Flip folds a block of height h about its center, turning two sorted
//     halves into one bitonic run.
//   - Disperse merges a bitonic block of height h into two sorted halves.
//
// An execution group owns L lanes and therefore a window of 2L elements.
// As long as a step's height is at most 2L, every pair it touches lives in
// a single window and only a group-local barrier is needed. The planner
// exploits that: it sorts every window with one LocalBitonicMergeSort
// stage, and afterwards only emits a Global stage (BigFlip, BigDisperse)
// when the height exceeds the window.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-bitonic/bms"
//
//	func SortCells(cells []uint32, handles []uint32) error {
//	    eng, err := bms.NewEngine(bms.Config{GroupCapacity: 64})
//	    if err != nil {
//	        return err
//	    }
//	    return eng.Sort(context.Background(), bms.Pairs[uint32, uint32]{Keys: cells, Payload: handles})
//	}
//
// Collaborators that drive stages themselves call NewPlan once and then
// RunStage for each planned stage, in order.
//
// # Concurrency
//
// RunStage schedules groups through an Executor. The Sequential executor
// runs groups one after another; the contrib/workerpool package provides
// pooled and fork-join executors. Either way RunStage returns only after
// every group finished, which is the barrier between two stages.
package bms
