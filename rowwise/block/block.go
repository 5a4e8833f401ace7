// Copyright 2025 go-highway Authors
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

package block

import "fmt"

// Block is a rows x cols float64 matrix stored either dense or sparse.
//
// The zero value is an empty 0x0 dense block, which is a valid output handle
// for the rowwise engine.
//
// A dense block with a nil buffer, or a sparse block with a nil SparseBlock,
// is unallocated and reads as all zeros.
type Block struct {
	rows, cols int
	sparse     bool
	dense      []float64
	sblock     SparseBlock
	nnz        int64
}

// NewDense returns an allocated, zero-filled dense block.
func NewDense(rows, cols int) (*Block, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}
	return &Block{rows: rows, cols: cols, dense: make([]float64, rows*cols)}, nil
}

// NewDenseFrom wraps data (row-major, len rows*cols) without copying and
// records its non-zero count.
func NewDenseFrom(rows, cols int, data []float64) (*Block, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom(%d,%d) with %d values: %w", rows, cols, len(data), ErrBadShape)
	}
	b := &Block{rows: rows, cols: cols, dense: data}
	b.RecomputeNonZeros()
	return b, nil
}

// NewSparse wraps sb as a rows x cols sparse block. Every stored column index
// must be below cols.
func NewSparse(rows, cols int, sb SparseBlock) (*Block, error) {
	if rows < 0 || cols < 0 || (sb != nil && sb.NumRows() != rows) {
		return nil, fmt.Errorf("NewSparse(%d,%d): %w", rows, cols, ErrBadShape)
	}
	if sb != nil {
		for i := range rows {
			if sb.IsEmpty(i) {
				continue
			}
			pos, size := sb.Pos(i), sb.Size(i)
			if last := sb.Indexes(i)[pos+size-1]; last >= cols {
				return nil, fmt.Errorf("NewSparse: row %d column %d: %w", i, last, ErrOutOfRange)
			}
		}
	}
	b := &Block{rows: rows, cols: cols, sparse: true, sblock: sb}
	b.RecomputeNonZeros()
	return b, nil
}

// Rows returns the number of rows.
func (b *Block) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Block) Cols() int { return b.cols }

// Len returns rows*cols.
func (b *Block) Len() int64 { return int64(b.rows) * int64(b.cols) }

// IsSparse reports whether the block is in sparse form.
func (b *Block) IsSparse() bool { return b.sparse }

// DenseData returns the dense row-major buffer, or nil when the block is
// sparse or unallocated.
func (b *Block) DenseData() []float64 {
	if b.sparse {
		return nil
	}
	return b.dense
}

// Sparse returns the sparse storage, or nil when the block is dense or
// unallocated.
func (b *Block) Sparse() SparseBlock {
	if !b.sparse {
		return nil
	}
	return b.sblock
}

// NonZeros returns the recorded non-zero count.
func (b *Block) NonZeros() int64 { return b.nnz }

// SetNonZeros overwrites the recorded non-zero count.
func (b *Block) SetNonZeros(nnz int64) { b.nnz = nnz }

// Sparsity returns nnz / (rows*cols), or 0 for an empty shape.
func (b *Block) Sparsity() float64 {
	if b.rows == 0 || b.cols == 0 {
		return 0
	}
	return float64(b.nnz) / (float64(b.rows) * float64(b.cols))
}

// At returns the value at (i, j).
func (b *Block) At(i, j int) (float64, error) {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return 0, blockErrorf("At", i, j, ErrOutOfRange)
	}
	if b.sparse {
		if b.sblock == nil {
			return 0, nil
		}
		return b.sblock.Get(i, j), nil
	}
	if b.dense == nil {
		return 0, nil
	}
	return b.dense[i*b.cols+j], nil
}

// Set stores v at (i, j) and maintains the recorded non-zero count. The
// block must be dense; an unallocated dense block is allocated first.
func (b *Block) Set(i, j int, v float64) error {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return blockErrorf("Set", i, j, ErrOutOfRange)
	}
	if b.sparse {
		return blockErrorf("Set", i, j, ErrNotDense)
	}
	b.AllocateDense()
	off := i*b.cols + j
	switch old := b.dense[off]; {
	case old == 0 && v != 0:
		b.nnz++
	case old != 0 && v == 0:
		b.nnz--
	}
	b.dense[off] = v
	return nil
}

// RecomputeNonZeros rescans the block, records and returns its non-zero
// count.
func (b *Block) RecomputeNonZeros() int64 {
	switch {
	case b.sparse && b.sblock != nil:
		var nnz int64
		for i := range b.rows {
			if b.sblock.IsEmpty(i) {
				continue
			}
			pos, size := b.sblock.Pos(i), b.sblock.Size(i)
			nnz += countNonZeros(b.sblock.Values(i)[pos : pos+size])
		}
		b.nnz = nnz
	case !b.sparse && b.dense != nil:
		b.nnz = countNonZeros(b.dense)
	default:
		b.nnz = 0
	}
	return b.nnz
}

// RecomputeNonZerosRange counts the non-zeros in rows [rl, ru] and columns
// [cl, cu] (both inclusive). It does not touch the recorded count, so
// disjoint row ranges may be counted concurrently.
func (b *Block) RecomputeNonZerosRange(rl, ru, cl, cu int) int64 {
	if rl < 0 || cl < 0 || ru >= b.rows || cu >= b.cols || rl > ru || cl > cu {
		return 0
	}
	var nnz int64
	if !b.sparse {
		if b.dense == nil {
			return 0
		}
		for i := rl; i <= ru; i++ {
			off := i * b.cols
			nnz += countNonZeros(b.dense[off+cl : off+cu+1])
		}
		return nnz
	}
	if b.sblock == nil {
		return 0
	}
	for i := rl; i <= ru; i++ {
		if b.sblock.IsEmpty(i) {
			continue
		}
		pos, size := b.sblock.Pos(i), b.sblock.Size(i)
		vals := b.sblock.Values(i)[pos : pos+size]
		for k, j := range b.sblock.Indexes(i)[pos : pos+size] {
			if j >= cl && j <= cu && vals[k] != 0 {
				nnz++
			}
		}
	}
	return nnz
}

// Reset changes the shape, drops all storage and clears the non-zero count.
// Storage is not reused; call AllocateDense to obtain a fresh buffer.
func (b *Block) Reset(rows, cols int, sparse bool) {
	b.rows, b.cols = rows, cols
	b.sparse = sparse
	b.dense = nil
	b.sblock = nil
	b.nnz = 0
}

// AllocateDense switches an unallocated block to an allocated zero-filled
// dense buffer. Allocated dense blocks are left untouched; allocated sparse
// blocks are converted with ToDense.
func (b *Block) AllocateDense() {
	if b.sparse && b.sblock != nil {
		b.ToDense()
		return
	}
	b.sparse = false
	if b.dense == nil {
		b.dense = make([]float64, b.rows*b.cols)
	}
}

// ToDense converts the block to dense form in place.
func (b *Block) ToDense() {
	if !b.sparse {
		return
	}
	data := make([]float64, b.rows*b.cols)
	if sb := b.sblock; sb != nil {
		for i := range b.rows {
			if sb.IsEmpty(i) {
				continue
			}
			pos, size := sb.Pos(i), sb.Size(i)
			vals, idx := sb.Values(i), sb.Indexes(i)
			row := data[i*b.cols : (i+1)*b.cols]
			for k := pos; k < pos+size; k++ {
				row[idx[k]] = vals[k]
			}
		}
	}
	b.sparse = false
	b.sblock = nil
	b.dense = data
}

// ToSparse converts the block to CSR form in place.
func (b *Block) ToSparse() {
	if b.sparse {
		return
	}
	data := b.dense
	if data == nil {
		data = make([]float64, b.rows*b.cols)
	}
	b.sblock = CSRFromDense(data, b.rows, b.cols)
	b.sparse = true
	b.dense = nil
}

// ExamSparsity converts the block to the representation chosen by p for
// its recorded non-zero count.
func (b *Block) ExamSparsity(p SparsityPolicy) {
	useSparse := p.UseSparse(b.rows, b.cols, b.nnz)
	switch {
	case useSparse && !b.sparse:
		b.ToSparse()
	case !useSparse && b.sparse:
		b.ToDense()
	}
}

// Densify returns the block as a row-major buffer of rows*cols values. A
// dense block returns its own buffer; sparse and unallocated blocks return a
// new buffer. Callers must treat the result as read-only.
func (b *Block) Densify() []float64 {
	if !b.sparse && b.dense != nil {
		return b.dense
	}
	c := &Block{rows: b.rows, cols: b.cols, sparse: b.sparse, sblock: b.sblock}
	c.AllocateDense()
	return c.dense
}
