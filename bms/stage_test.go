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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "local-bms", LocalBitonicMergeSort.String())
	assert.Equal(t, "big-flip", BigFlip.String())
	assert.Equal(t, "local-disperse", LocalDisperse.String())
	assert.Equal(t, "big-disperse", BigDisperse.String())
	assert.Equal(t, "unknown", Kind(42).String())

	assert.False(t, LocalBitonicMergeSort.IsGlobal())
	assert.True(t, BigFlip.IsGlobal())
	assert.False(t, LocalDisperse.IsGlobal())
	assert.True(t, BigDisperse.IsGlobal())
}

func TestBlockPair(t *testing.T) {
	// Flip over h=8 mirrors the block; disperse pairs i with i+4.
	for lane, want := range [][2]int{{0, 7}, {1, 6}, {2, 5}, {3, 4}, {8, 15}, {9, 14}, {10, 13}, {11, 12}} {
		a, b := blockPair(OpFlip, 8, lane)
		assert.Equal(t, want, [2]int{a, b}, "flip lane %d", lane)
	}
	for lane, want := range [][2]int{{0, 4}, {1, 5}, {2, 6}, {3, 7}, {8, 12}, {9, 13}, {10, 14}, {11, 15}} {
		a, b := blockPair(OpDisperse, 8, lane)
		assert.Equal(t, want, [2]int{a, b}, "disperse lane %d", lane)
	}
}

func TestLocalBitonicMergeSortSteps(t *testing.T) {
	st := Stage{Kind: LocalBitonicMergeSort, Height: 8, Lanes: 4, Groups: 1}
	want := []Step{
		{OpFlip, 2},
		{OpFlip, 4}, {OpDisperse, 2},
		{OpFlip, 8}, {OpDisperse, 4}, {OpDisperse, 2},
	}
	require.Equal(t, want, st.Steps())

	require.Equal(t, []Step{{OpFlip, 16}}, Stage{Kind: BigFlip, Height: 16}.Steps())
	require.Equal(t, []Step{{OpDisperse, 4}}, Stage{Kind: LocalDisperse, Height: 4}.Steps())
	require.Equal(t, []Step{{OpDisperse, 32}}, Stage{Kind: BigDisperse, Height: 32}.Steps())
}

// Local and global index arithmetic agree whenever the height fits in one
// group window.
func TestLocalMatchesGlobalWithinWindow(t *testing.T) {
	for _, lanes := range []int{1, 2, 4, 8} {
		groups := 4
		for h := 2; h <= 2*lanes; h *= 2 {
			for _, op := range []Op{OpFlip, OpDisperse} {
				for g := range groups {
					for l := range lanes {
						la, lb := localPair(op, h, lanes, g, l)
						ga, gb := globalPair(op, h, lanes, g, l)
						require.Equal(t, [2]int{ga, gb}, [2]int{la, lb},
							"lanes=%d h=%d op=%s group=%d lane=%d", lanes, h, op, g, l)
					}
				}
			}
		}
	}
}

// Every step of every stage is a perfect matching on [0, n): lanes never
// share an index, so they can run concurrently.
func TestStepsArePerfectMatchings(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16, 64, 256} {
		for _, capacity := range []int{1, 2, 4, 16, 1024} {
			for _, build := range []func(int, int) (*Plan, error){NewPlan, NewFlatPlan} {
				p, err := build(n, capacity)
				require.NoError(t, err)
				for _, st := range p.Stages {
					for _, step := range st.Steps() {
						t.Run(fmt.Sprintf("n=%d/c=%d/%s/%s%d", n, capacity, st, step.Op, step.Height), func(t *testing.T) {
							seen := make([]bool, n)
							for g := range st.Groups {
								for l := range st.Lanes {
									a, b := st.Pair(step, g, l)
									require.Less(t, a, b)
									require.Less(t, b, n)
									require.False(t, seen[a], "index %d used twice", a)
									require.False(t, seen[b], "index %d used twice", b)
									seen[a], seen[b] = true, true
								}
							}
						})
					}
				}
			}
		}
	}
}
