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

import (
	"fmt"
	"sort"
)

// SparseBlock is read access to a row-compressed sparse matrix.
//
// For a non-empty row i the stored entries are
//
//	Values(i)[Pos(i)+k], Indexes(i)[Pos(i)+k]   for k in [0, Size(i))
//
// with column indices strictly increasing in k.
type SparseBlock interface {
	// NumRows returns the number of rows addressed by the block.
	NumRows() int

	// IsEmpty reports whether row i stores no entries.
	IsEmpty(i int) bool

	// Values returns the value array backing row i.
	Values(i int) []float64

	// Indexes returns the column index array backing row i.
	Indexes(i int) []int

	// Pos returns the start position of row i inside Values(i) and Indexes(i).
	Pos(i int) int

	// Size returns the number of entries stored for row i.
	Size(i int) int

	// Get returns the value at (i, j), or 0 if it is not stored.
	Get(i, j int) float64

	// NonZeros returns the number of stored entries.
	NonZeros() int64
}

var (
	_ SparseBlock = (*CSR)(nil)
	_ SparseBlock = (*MCSR)(nil)
)

// CSR is a compressed sparse row block: all rows share one value array and
// one index array, and row i spans [rowPtr[i], rowPtr[i+1]).
type CSR struct {
	rowPtr []int
	colIdx []int
	values []float64
}

// NewCSR builds a CSR block from its raw arrays. rowPtr must have rows+1
// non-decreasing entries starting at 0 and ending at len(values); column
// indices must be strictly increasing inside each row.
func NewCSR(rows int, rowPtr, colIdx []int, values []float64) (*CSR, error) {
	if rows < 0 || len(rowPtr) != rows+1 || len(colIdx) != len(values) {
		return nil, fmt.Errorf("NewCSR: %w", ErrBadShape)
	}
	if rowPtr[0] != 0 || rowPtr[rows] != len(values) {
		return nil, fmt.Errorf("NewCSR: row pointers do not cover values: %w", ErrBadShape)
	}
	for i := range rows {
		if rowPtr[i+1] < rowPtr[i] {
			return nil, fmt.Errorf("NewCSR: row %d: %w", i, ErrBadShape)
		}
		for k := rowPtr[i] + 1; k < rowPtr[i+1]; k++ {
			if colIdx[k] <= colIdx[k-1] {
				return nil, fmt.Errorf("NewCSR: row %d: %w", i, ErrUnsorted)
			}
		}
	}
	return &CSR{rowPtr: rowPtr, colIdx: colIdx, values: values}, nil
}

// CSRFromDense compresses a row-major buffer, dropping exact zeros.
func CSRFromDense(data []float64, rows, cols int) *CSR {
	rowPtr := make([]int, rows+1)
	var nnz int
	for _, v := range data {
		if v != 0 {
			nnz++
		}
	}
	colIdx := make([]int, 0, nnz)
	values := make([]float64, 0, nnz)
	for i := range rows {
		row := data[i*cols : (i+1)*cols]
		for j, v := range row {
			if v != 0 {
				colIdx = append(colIdx, j)
				values = append(values, v)
			}
		}
		rowPtr[i+1] = len(values)
	}
	return &CSR{rowPtr: rowPtr, colIdx: colIdx, values: values}
}

func (s *CSR) NumRows() int           { return len(s.rowPtr) - 1 }
func (s *CSR) IsEmpty(i int) bool     { return s.rowPtr[i+1] == s.rowPtr[i] }
func (s *CSR) Values(i int) []float64 { return s.values }
func (s *CSR) Indexes(i int) []int    { return s.colIdx }
func (s *CSR) Pos(i int) int          { return s.rowPtr[i] }
func (s *CSR) Size(i int) int         { return s.rowPtr[i+1] - s.rowPtr[i] }
func (s *CSR) NonZeros() int64        { return int64(len(s.values)) }

// Get binary-searches row i for column j.
func (s *CSR) Get(i, j int) float64 {
	lo, hi := s.rowPtr[i], s.rowPtr[i+1]
	k := lo + sort.SearchInts(s.colIdx[lo:hi], j)
	if k < hi && s.colIdx[k] == j {
		return s.values[k]
	}
	return 0
}

// sparseRow is one MCSR row.
type sparseRow struct {
	indexes []int
	values  []float64
}

// MCSR is a modified CSR block: every row owns its own arrays, which makes
// row-wise appends cheap. Pos is always 0.
type MCSR struct {
	rows []sparseRow
}

// NewMCSR returns an empty MCSR block with the given number of rows.
func NewMCSR(rows int) *MCSR {
	return &MCSR{rows: make([]sparseRow, rows)}
}

// Append adds (j, v) to the end of row i. Zeros are dropped. Columns must be
// appended in strictly increasing order.
func (s *MCSR) Append(i, j int, v float64) error {
	if i < 0 || i >= len(s.rows) || j < 0 {
		return fmt.Errorf("MCSR.Append(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if v == 0 {
		return nil
	}
	r := &s.rows[i]
	if n := len(r.indexes); n > 0 && r.indexes[n-1] >= j {
		return fmt.Errorf("MCSR.Append(%d,%d): %w", i, j, ErrUnsorted)
	}
	r.indexes = append(r.indexes, j)
	r.values = append(r.values, v)
	return nil
}

func (s *MCSR) NumRows() int           { return len(s.rows) }
func (s *MCSR) IsEmpty(i int) bool     { return len(s.rows[i].values) == 0 }
func (s *MCSR) Values(i int) []float64 { return s.rows[i].values }
func (s *MCSR) Indexes(i int) []int    { return s.rows[i].indexes }
func (s *MCSR) Pos(i int) int          { return 0 }
func (s *MCSR) Size(i int) int         { return len(s.rows[i].values) }

func (s *MCSR) Get(i, j int) float64 {
	r := s.rows[i]
	k := sort.SearchInts(r.indexes, j)
	if k < len(r.indexes) && r.indexes[k] == j {
		return r.values[k]
	}
	return 0
}

func (s *MCSR) NonZeros() int64 {
	var n int64
	for _, r := range s.rows {
		n += int64(len(r.values))
	}
	return n
}
