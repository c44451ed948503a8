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
	"strings"

	"github.com/samber/lo"
)

// Plan is the ordered list of stages that sorts a sequence of length N.
type Plan struct {
	// N is the sequence length the plan was computed for.
	N int
	// Lanes is the number of lanes per execution group (L).
	Lanes int
	// Groups is the number of execution groups, N / (2L).
	Groups int
	// Flat is set for plans that only use Global stages.
	Flat bool

	Stages []Stage
}

// laneCount returns L for a sequence of length n: the group capacity
// rounded down to a power of two, bounded by n/2 so that 2L divides n.
func laneCount(n, groupCapacity int) int {
	return min(n/2, floorPow2(groupCapacity))
}

// NewPlan computes the hierarchical plan for n elements and groups of at
// most groupCapacity lanes.
//
// n must be a power of two >= 2 and groupCapacity >= 1.
//
// The first stage sorts every window of 2L elements locally. Each later
// round doubles the sorted span H: a BigFlip(H) followed by disperses of
// H/2 down to 2, using the local variant whenever the disperse height fits
// in one window.
func NewPlan(n, groupCapacity int) (*Plan, error) {
	if err := validatePlanInput(n, groupCapacity); err != nil {
		return nil, err
	}

	lanes := laneCount(n, groupCapacity)
	p := &Plan{N: n, Lanes: lanes, Groups: n / (2 * lanes)}

	window := 2 * lanes
	p.add(LocalBitonicMergeSort, window)

	for h := 2 * window; h <= n; h *= 2 {
		p.add(BigFlip, h)
		for hh := h / 2; hh > 1; hh /= 2 {
			if hh <= window {
				p.add(LocalDisperse, hh)
			} else {
				p.add(BigDisperse, hh)
			}
		}
	}
	return p, nil
}

// NewFlatPlan computes the reference plan that never uses windowing: every
// layer of the network is its own Global stage. It produces the same final
// order as NewPlan and exists as a baseline.
func NewFlatPlan(n, groupCapacity int) (*Plan, error) {
	if err := validatePlanInput(n, groupCapacity); err != nil {
		return nil, err
	}

	lanes := laneCount(n, groupCapacity)
	p := &Plan{N: n, Lanes: lanes, Groups: n / (2 * lanes), Flat: true}

	for h := 2; h <= n; h *= 2 {
		p.add(BigFlip, h)
		for hh := h / 2; hh > 1; hh /= 2 {
			p.add(BigDisperse, hh)
		}
	}
	return p, nil
}

func (p *Plan) add(kind Kind, height int) {
	p.Stages = append(p.Stages, Stage{
		Kind:   kind,
		Height: height,
		Lanes:  p.Lanes,
		Groups: p.Groups,
	})
}

// GlobalStages returns the number of stages that need an all-group barrier.
func (p *Plan) GlobalStages() int {
	return lo.CountBy(p.Stages, func(s Stage) bool { return s.Kind.IsGlobal() })
}

// Steps returns the total number of network layers across all stages.
func (p *Plan) Steps() int {
	return lo.SumBy(p.Stages, func(s Stage) int { return len(s.Steps()) })
}

func (p *Plan) String() string {
	names := lo.Map(p.Stages, func(s Stage, _ int) string { return s.String() })
	return strings.Join(names, " ")
}
