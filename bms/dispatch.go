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
	"os"
	"strconv"
)

// DispatchLevel represents the vector instruction set detected on this
// machine. It only sizes execution groups; the network itself is scalar.
type DispatchLevel int

const (
	// DispatchScalar indicates no usable vector unit.
	DispatchScalar DispatchLevel = iota

	// DispatchAVX2 indicates AVX2 instructions (256-bit).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512 instructions (512-bit).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON instructions (128-bit).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// lanesPer16Bytes is the group capacity granted per 16 bytes of vector
// width: 64 for scalar and NEON, 128 for AVX2, 256 for AVX-512.
const lanesPer16Bytes = 64

// currentLevel is the detected level for this runtime.
// Set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

// currentWidth is the vector register width in bytes for the current level.
// Set by init() in dispatch_*.go files.
var currentWidth = 16

// CurrentLevel returns the detected instruction set.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector register width in bytes.
func CurrentWidth() int {
	return currentWidth
}

// NoSimdEnv checks if the BMS_NO_SIMD environment variable is set. When
// set, detection reports DispatchScalar regardless of CPU capabilities.
func NoSimdEnv() bool {
	val := os.Getenv("BMS_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// DefaultGroupCapacity returns the group capacity used when a Config leaves
// it unset. BMS_GROUP_CAPACITY overrides the detected value when it holds a
// positive integer.
func DefaultGroupCapacity() int {
	if v := os.Getenv("BMS_GROUP_CAPACITY"); v != "" {
		if c, err := strconv.Atoi(v); err == nil && c > 0 {
			return c
		}
	}
	return lanesPer16Bytes * currentWidth / 16
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16
}
