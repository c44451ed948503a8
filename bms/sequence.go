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
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// Sequence is a mutable, indexable collection of orderable elements.
// It has the same shape as sort.Interface so existing collections can be
// sorted without adapters.
//
// Implementations must tolerate concurrent Less/Swap calls on disjoint
// index pairs; every stage only ever touches disjoint pairs.
type Sequence interface {
	Len() int
	Less(i, j int) bool
	Swap(i, j int)
}

// Keys is a Sequence over bare keys.
type Keys[K constraints.Ordered] []K

func (k Keys[K]) Len() int           { return len(k) }
func (k Keys[K]) Less(i, j int) bool { return k[i] < k[j] }
func (k Keys[K]) Swap(i, j int)      { k[i], k[j] = k[j], k[i] }

// Pairs is a Sequence of keys with a parallel payload buffer. The payload
// follows its key on every swap. Payload may be nil.
type Pairs[K constraints.Ordered, P any] struct {
	Keys    []K
	Payload []P
}

func (p Pairs[K, P]) Len() int           { return len(p.Keys) }
func (p Pairs[K, P]) Less(i, j int) bool { return p.Keys[i] < p.Keys[j] }

// Validate reports a non-nil Payload whose length differs from Keys.
func (p Pairs[K, P]) Validate() error {
	if p.Payload != nil && len(p.Payload) != len(p.Keys) {
		return errors.Wrapf(ErrLengthMismatch, "%d keys, %d payload entries", len(p.Keys), len(p.Payload))
	}
	return nil
}

func (p Pairs[K, P]) Swap(i, j int) {
	p.Keys[i], p.Keys[j] = p.Keys[j], p.Keys[i]
	if p.Payload != nil {
		p.Payload[i], p.Payload[j] = p.Payload[j], p.Payload[i]
	}
}

// padded extends a Sequence to length m with sentinel elements that
// compare greater than every real element.
type padded struct {
	seq Sequence
	n   int
	m   int
}

// Pad presents seq as a sequence of length m (m >= seq.Len()). Indices at
// or beyond seq.Len() hold virtual maximal keys.
//
// Every compare-exchange in a plan orders its lower index first, so a
// sentinel is never moved below a real element and the real elements end
// up sorted in [0, seq.Len()) without copying or stripping.
func Pad(seq Sequence, m int) Sequence {
	n := seq.Len()
	if m <= n {
		return seq
	}
	return &padded{seq: seq, n: n, m: m}
}

func (p *padded) Len() int { return p.m }

func (p *padded) Validate() error { return validateSequence(p.seq) }

func (p *padded) Less(i, j int) bool {
	if i >= p.n {
		return false
	}
	if j >= p.n {
		return true
	}
	return p.seq.Less(i, j)
}

func (p *padded) Swap(i, j int) {
	if i >= p.n || j >= p.n {
		// Unreachable for ascending compare-exchange; see Pad.
		panic("bms: swap involving a padding sentinel")
	}
	p.seq.Swap(i, j)
}

// validateSequence runs the Validate method of sequences that have one.
func validateSequence(seq Sequence) error {
	if v, ok := seq.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// IsSorted reports whether seq is in non-decreasing order.
func IsSorted(seq Sequence) bool {
	for i := seq.Len() - 1; i > 0; i-- {
		if seq.Less(i, i-1) {
			return false
		}
	}
	return true
}
