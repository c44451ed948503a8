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

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidLength is returned when a sequence length cannot be planned:
	// it must be a power of two and at least 2.
	ErrInvalidLength = errors.New("bms: invalid sequence length")

	// ErrInvalidCapacity is returned for a group capacity below 1.
	ErrInvalidCapacity = errors.New("bms: invalid group capacity")

	// ErrLengthMismatch is returned when a stage is applied to a sequence of
	// a different length than the one it was planned for.
	ErrLengthMismatch = errors.New("bms: sequence length does not match stage")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("bms: invalid configuration")
)

// validatePlanInput checks the preconditions shared by every planner.
func validatePlanInput(n, groupCapacity int) error {
	if n < 2 {
		return errors.Wrapf(ErrInvalidLength, "n=%d is below 2", n)
	}
	if n%2 != 0 {
		return errors.Wrapf(ErrInvalidLength, "n=%d is odd", n)
	}
	if !isPow2(n) {
		return errors.Wrapf(ErrInvalidLength, "n=%d is not a power of two", n)
	}
	if groupCapacity < 1 {
		return errors.Wrapf(ErrInvalidCapacity, "capacity=%d", groupCapacity)
	}
	return nil
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// floorPow2 returns the largest power of two <= n, for n >= 1.
func floorPow2(n int) int {
	p := 1
	for p<<1 <= n {
		p <<= 1
	}
	return p
}

// ceilPow2 returns the smallest power of two >= n, for n >= 1.
func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
