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

// Package grid maps points of the square [-1, 1) x [-1, 1) to cells of a
// uniform grid. Cell ids are the sort keys and bucket ids used for neighbor
// search: with a cell side of at least the view radius, every neighbor of a
// point lies in the 3x3 block of cells around it.
package grid

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/ajroetker/go-bitonic/bms/contrib/bucket"
)

// ErrInvalidRadius is returned for a view radius that is not positive, or
// so small that cell ids would not fit in a uint32.
var ErrInvalidRadius = errors.New("grid: view radius out of range")

// Point is a position in the simulation square.
type Point struct {
	X, Y float32
}

// Grid is a Size x Size partition of [-1, 1) x [-1, 1). Cells are numbered
// row-major: id = cy*Size + cx.
type Grid struct {
	Size int
}

// SizeFromViewRadius returns the number of cells per axis. For radii up to
// 1 the resulting cell side 2/Size is at least viewRadius.
func SizeFromViewRadius(viewRadius float32) int {
	return int(math.Ceil(1 / float64(viewRadius)))
}

// New returns the grid for the given view radius.
func New(viewRadius float32) (Grid, error) {
	if !(viewRadius > 0) {
		return Grid{}, errors.Wrapf(ErrInvalidRadius, "radius=%v", viewRadius)
	}
	if side := math.Ceil(1 / float64(viewRadius)); side*side > math.MaxUint32 {
		return Grid{}, errors.Wrapf(ErrInvalidRadius, "radius=%v needs %v cells per axis", viewRadius, side)
	}
	return Grid{Size: max(SizeFromViewRadius(viewRadius), 1)}, nil
}

// NumCells returns the number of cells, which is also the number of
// buckets to pass to the bucketizer.
func (g Grid) NumCells() int {
	return g.Size * g.Size
}

func (g Grid) axis(v float32) int {
	return lo.Clamp(int((v+1)*0.5*float32(g.Size)), 0, g.Size-1)
}

// CellID returns the cell containing p. Points outside the square are
// clamped to the border cells.
func (g Grid) CellID(p Point) uint32 {
	return uint32(g.axis(p.Y)*g.Size + g.axis(p.X))
}

// Coords returns the column and row of cell id.
func (g Grid) Coords(id uint32) (cx, cy int) {
	return int(id) % g.Size, int(id) / g.Size
}

// CellIDs writes the cell of every point to dst, growing it if needed, and
// returns it.
func (g Grid) CellIDs(points []Point, dst []uint32) []uint32 {
	if cap(dst) < len(points) {
		dst = make([]uint32, len(points))
	}
	dst = dst[:len(points)]
	for i, p := range points {
		dst[i] = g.CellID(p)
	}
	return dst
}

// Neighbors appends the cells of the 3x3 block around id, id included, to
// dst. Cells outside the grid are skipped.
func (g Grid) Neighbors(id uint32, dst []uint32) []uint32 {
	cx, cy := g.Coords(id)
	for y := max(cy-1, 0); y <= min(cy+1, g.Size-1); y++ {
		for x := max(cx-1, 0); x <= min(cx+1, g.Size-1); x++ {
			dst = append(dst, uint32(y*g.Size+x))
		}
	}
	return dst
}

// Candidates appends to dst the indices of every element bucketed in the
// cells around p. tbl must come from bucketizing CellIDs output with
// NumCells buckets.
func (g Grid) Candidates(tbl *bucket.Table, p Point, dst []int) []int {
	var cells [9]uint32
	for _, c := range g.Neighbors(g.CellID(p), cells[:0]) {
		dst = append(dst, tbl.Bucket(int(c))...)
	}
	return dst
}

// ForEachOccupied calls fn for every non-empty cell, in ascending order,
// with the cell's members and the members of its 3x3 block. Empty cells
// are skipped without being visited. candidates is reused between calls.
func (g Grid) ForEachOccupied(tbl *bucket.Table, fn func(cell uint32, members, candidates []int)) {
	var (
		cells [9]uint32
		cand  []int
	)
	it := tbl.Occupied().Iterator()
	for it.HasNext() {
		c := it.Next()
		cand = cand[:0]
		for _, n := range g.Neighbors(c, cells[:0]) {
			cand = append(cand, tbl.Bucket(int(n))...)
		}
		fn(c, tbl.Bucket(int(c)), cand)
	}
}
