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

import "fmt"

// Kind identifies the shape of a stage.
type Kind uint8

const (
	// LocalBitonicMergeSort fully sorts every group window of 2L elements.
	// It expands into a whole flip/disperse descent that only needs
	// group-local barriers.
	LocalBitonicMergeSort Kind = iota

	// BigFlip is a flip whose pairs may span several groups.
	BigFlip

	// LocalDisperse is a disperse with height <= 2L.
	LocalDisperse

	// BigDisperse is a disperse whose pairs may span several groups.
	BigDisperse
)

// String returns a human-readable name for the stage kind.
func (k Kind) String() string {
	switch k {
	case LocalBitonicMergeSort:
		return "local-bms"
	case BigFlip:
		return "big-flip"
	case LocalDisperse:
		return "local-disperse"
	case BigDisperse:
		return "big-disperse"
	default:
		return "unknown"
	}
}

// IsGlobal reports whether stages of this kind need a barrier across all
// groups rather than within one group.
func (k Kind) IsGlobal() bool {
	return k == BigFlip || k == BigDisperse
}

// Op is the compare-exchange pattern of a single step.
type Op uint8

const (
	// OpFlip pairs mirrored indices of a block.
	OpFlip Op = iota
	// OpDisperse pairs each index of the lower half with the one hh above.
	OpDisperse
)

func (o Op) String() string {
	if o == OpFlip {
		return "flip"
	}
	return "disperse"
}

// Step is one layer of the sorting network.
type Step struct {
	Op     Op
	Height int
}

// Stage is a unit of work separated from its neighbours by a barrier.
// Lanes and Groups describe the execution window the stage was planned for.
type Stage struct {
	Kind   Kind
	Height int
	Lanes  int
	Groups int
}

func (s Stage) String() string {
	return fmt.Sprintf("%s(h=%d)", s.Kind, s.Height)
}

// Len returns the sequence length the stage covers.
func (s Stage) Len() int {
	return 2 * s.Lanes * s.Groups
}

// Local reports whether the stage uses windowed (group-relative) indices.
func (s Stage) Local() bool {
	return !s.Kind.IsGlobal()
}

// Steps returns the network layers the stage applies, in order. Only
// LocalBitonicMergeSort has more than one.
func (s Stage) Steps() []Step {
	switch s.Kind {
	case LocalBitonicMergeSort:
		var steps []Step
		for h := 2; h <= s.Height; h *= 2 {
			steps = append(steps, Step{Op: OpFlip, Height: h})
			for hh := h / 2; hh > 1; hh /= 2 {
				steps = append(steps, Step{Op: OpDisperse, Height: hh})
			}
		}
		return steps
	case BigFlip:
		return []Step{{Op: OpFlip, Height: s.Height}}
	default:
		return []Step{{Op: OpDisperse, Height: s.Height}}
	}
}

// Pair returns the indices compared by lane of group for the given step of
// this stage.
func (s Stage) Pair(step Step, group, lane int) (int, int) {
	if s.Local() {
		return localPair(step.Op, step.Height, s.Lanes, group, lane)
	}
	return globalPair(step.Op, step.Height, s.Lanes, group, lane)
}

// blockPair maps lane t to its pair within blocks of height h.
func blockPair(op Op, h, t int) (int, int) {
	hh := h / 2
	q := (2 * t / h) * h
	x := q + t%hh
	if op == OpFlip {
		return x, q + h - t%hh - 1
	}
	return x, x + hh
}

// localPair evaluates the block formula inside the group's window and
// shifts the result by the window base. Valid for h <= 2*lanes.
func localPair(op Op, h, lanes, group, lane int) (int, int) {
	offset := h * ((2 * lanes * group) / h)
	a, b := blockPair(op, h, lane)
	return offset + a, offset + b
}

// globalPair uses the lane's position in the whole sequence.
func globalPair(op Op, h, lanes, group, lane int) (int, int) {
	return blockPair(op, h, group*lanes+lane)
}
