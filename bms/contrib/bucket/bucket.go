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

// Package bucket groups elements by bucket id with a counting sort, so
// that all members of a bucket can be listed in O(1) per query.
//
// The scatter walks elements in ascending order while each bucket's cursor
// moves down from the top of its range. Members of a bucket therefore
// appear in reverse input order:
//
//	order, offset, _ := bucket.Bucketize([]uint32{2, 0, 1, 0, 2}, 3)
//	// order  = [3 1 2 4 0]
//	// offset = [0 2 3 5]
package bucket

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/cockroachdb/errors"
)

var (
	// ErrBucketOutOfRange is returned when a bucket id is >= numBuckets.
	ErrBucketOutOfRange = errors.New("bucket: bucket id out of range")

	// ErrSizeMismatch is returned when the input length differs from the
	// size the Bucketizer was allocated for.
	ErrSizeMismatch = errors.New("bucket: input length does not match bucketizer size")
)

// Table is the result of a bucketization.
type Table struct {
	// Order is a permutation of [0, N) grouping element indices by bucket.
	Order []int
	// Offset has NumBuckets()+1 entries; bucket b occupies
	// Order[Offset[b]:Offset[b+1]].
	Offset []int
}

// NumBuckets returns the number of buckets.
func (t *Table) NumBuckets() int {
	return len(t.Offset) - 1
}

// Bucket returns the element indices in bucket b. The slice aliases Order.
func (t *Table) Bucket(b int) []int {
	return t.Order[t.Offset[b]:t.Offset[b+1]]
}

// Count returns the number of elements in bucket b.
func (t *Table) Count(b int) int {
	return t.Offset[b+1] - t.Offset[b]
}

// Occupied returns the set of non-empty buckets.
func (t *Table) Occupied() *roaring.Bitmap {
	bm := roaring.New()
	for b := range t.NumBuckets() {
		if t.Offset[b+1] > t.Offset[b] {
			bm.Add(uint32(b))
		}
	}
	return bm
}

// Bucketizer holds the count table and order buffer between runs. Their
// sizes are fixed to numBuckets+1 and n; call Resize when either changes.
type Bucketizer struct {
	numBuckets int
	count      []int
	order      []int
}

// NewBucketizer allocates buffers for n elements and numBuckets buckets.
func NewBucketizer(n, numBuckets int) *Bucketizer {
	bz := &Bucketizer{}
	bz.Resize(n, numBuckets)
	return bz
}

// Resize reallocates the buffers if needed.
func (bz *Bucketizer) Resize(n, numBuckets int) {
	bz.numBuckets = numBuckets
	if cap(bz.count) >= numBuckets+1 {
		bz.count = bz.count[:numBuckets+1]
	} else {
		bz.count = make([]int, numBuckets+1)
	}
	if cap(bz.order) >= n {
		bz.order = bz.order[:n]
	} else {
		bz.order = make([]int, n)
	}
}

// Len returns the number of elements the Bucketizer accepts.
func (bz *Bucketizer) Len() int {
	return len(bz.order)
}

// NumBuckets returns the number of buckets.
func (bz *Bucketizer) NumBuckets() int {
	return bz.numBuckets
}

// Run bucketizes bucketID. The returned table aliases the Bucketizer's
// buffers and is valid until the next Run or Resize.
//
// Input is validated before any buffer is touched.
func (bz *Bucketizer) Run(bucketID []uint32) (*Table, error) {
	if len(bucketID) != len(bz.order) {
		return nil, errors.Wrapf(ErrSizeMismatch, "got %d ids, sized for %d", len(bucketID), len(bz.order))
	}
	for i, id := range bucketID {
		if int(id) >= bz.numBuckets {
			return nil, errors.Wrapf(ErrBucketOutOfRange, "bucketID[%d]=%d, numBuckets=%d", i, id, bz.numBuckets)
		}
	}

	count := bz.count
	clear(count)
	for _, id := range bucketID {
		count[id]++
	}

	// count[b] becomes the number of elements with id <= b, i.e. one past
	// the last slot of bucket b.
	PrefixSum(count)

	// Each cursor moves down to the first slot of its bucket, leaving
	// count[b] == Offset[b].
	for i, id := range bucketID {
		count[id]--
		bz.order[count[id]] = i
	}

	return &Table{Order: bz.order, Offset: count}, nil
}

// Bucketize groups the indices of bucketID by bucket id using fresh
// buffers. Every id must be below numBuckets.
func Bucketize(bucketID []uint32, numBuckets int) (order []int, offset []int, err error) {
	if numBuckets < 0 {
		return nil, nil, errors.Wrapf(ErrBucketOutOfRange, "numBuckets=%d", numBuckets)
	}
	t, err := NewBucketizer(len(bucketID), numBuckets).Run(bucketID)
	if err != nil {
		return nil, nil, err
	}
	return t.Order, t.Offset, nil
}
