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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlanValidation(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		capacity int
		want     error
	}{
		{"zero", 0, 4, ErrInvalidLength},
		{"one", 1, 4, ErrInvalidLength},
		{"negative", -8, 4, ErrInvalidLength},
		{"odd", 7, 4, ErrInvalidLength},
		{"even but not pow2", 12, 4, ErrInvalidLength},
		{"zero capacity", 8, 0, ErrInvalidCapacity},
		{"negative capacity", 8, -1, ErrInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan(tt.n, tt.capacity)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			_, err = NewFlatPlan(tt.n, tt.capacity)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNewPlanSingleWindow(t *testing.T) {
	// 2L == n: one local stage sorts everything.
	p, err := NewPlan(8, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Lanes)
	assert.Equal(t, 1, p.Groups)
	require.Len(t, p.Stages, 1)
	assert.Equal(t, Stage{Kind: LocalBitonicMergeSort, Height: 8, Lanes: 4, Groups: 1}, p.Stages[0])
	assert.Zero(t, p.GlobalStages())

	// Capacity larger than n/2 is clamped.
	p, err = NewPlan(8, 1000)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Lanes)
	require.Len(t, p.Stages, 1)

	p, err = NewPlan(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "local-bms(h=2)", p.String())
}

func TestNewPlanHierarchical(t *testing.T) {
	p, err := NewPlan(16, 4)
	require.NoError(t, err)
	assert.Equal(t, "local-bms(h=8) big-flip(h=16) local-disperse(h=8) local-disperse(h=4) local-disperse(h=2)", p.String())
	assert.Equal(t, 1, p.GlobalStages())
	assert.Equal(t, 2, p.Groups)

	p, err = NewPlan(32, 4)
	require.NoError(t, err)
	assert.Equal(t, "local-bms(h=8) "+
		"big-flip(h=16) local-disperse(h=8) local-disperse(h=4) local-disperse(h=2) "+
		"big-flip(h=32) big-disperse(h=16) local-disperse(h=8) local-disperse(h=4) local-disperse(h=2)",
		p.String())
	assert.Equal(t, 3, p.GlobalStages())
	for _, st := range p.Stages {
		assert.Equal(t, 4, st.Lanes)
		assert.Equal(t, 4, st.Groups)
		assert.Equal(t, 32, st.Len())
	}
}

func TestNewPlanRoundsCapacityDown(t *testing.T) {
	// A group may use fewer lanes than its capacity; 6 lanes become 4 so
	// that windows tile the sequence.
	p, err := NewPlan(64, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Lanes)
	assert.Equal(t, 8, p.Groups)
}

func TestFlatPlan(t *testing.T) {
	p, err := NewFlatPlan(8, 2)
	require.NoError(t, err)
	assert.True(t, p.Flat)
	assert.Equal(t, "big-flip(h=2) big-flip(h=4) big-disperse(h=2) big-flip(h=8) big-disperse(h=4) big-disperse(h=2)", p.String())
	assert.Equal(t, len(p.Stages), p.GlobalStages())
}

// The hierarchical plan runs the same network layers as the flat one, with
// fewer global barriers.
func TestPlanStepCounts(t *testing.T) {
	for _, n := range []int{2, 8, 64, 1024} {
		for _, capacity := range []int{1, 4, 32} {
			hier, err := NewPlan(n, capacity)
			require.NoError(t, err)
			flat, err := NewFlatPlan(n, capacity)
			require.NoError(t, err)

			assert.Equal(t, flat.Steps(), hier.Steps(), "n=%d c=%d", n, capacity)
			assert.LessOrEqual(t, hier.GlobalStages(), flat.GlobalStages())
		}
	}
}
