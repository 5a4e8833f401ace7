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

import "github.com/ajroetker/go-rowwise/envconfig"

// Density defaults.
const (
	// DefaultTurnPoint is the sparsity (nnz / cells) below which a block is
	// kept in sparse form.
	DefaultTurnPoint = envconfig.DefaultSparsityTurnPoint

	// DefaultMinSparseCols is the narrowest block that may become sparse.
	// Column vectors always stay dense.
	DefaultMinSparseCols = 2
)

// SparsityPolicy decides the in-memory representation of a block from its
// shape and non-zero count.
type SparsityPolicy struct {
	// TurnPoint is the sparsity threshold in (0, 1]. A zero value disables
	// sparse conversion.
	TurnPoint float64

	// MinCols is the minimum number of columns for a sparse block.
	MinCols int
}

// DefaultSparsityPolicy returns the policy for the turn point configured
// through ROWWISE_SPARSITY_TURN_POINT (DefaultTurnPoint when unset).
func DefaultSparsityPolicy() SparsityPolicy {
	return SparsityPolicy{TurnPoint: envconfig.SparsityTurnPoint(), MinCols: DefaultMinSparseCols}
}

// UseSparse reports whether a rows x cols block holding nnz non-zeros should
// be stored sparse: its sparsity must be under the turn point and its sparse
// footprint must be smaller than the dense one.
func (p SparsityPolicy) UseSparse(rows, cols int, nnz int64) bool {
	if rows <= 0 || cols <= 0 || cols < p.MinCols {
		return false
	}
	sparsity := float64(nnz) / (float64(rows) * float64(cols))
	if sparsity >= p.TurnPoint {
		return false
	}
	return EstimateSparseBytes(rows, nnz) < EstimateDenseBytes(rows, cols)
}

// EstimateDenseBytes is the in-memory size of a dense rows x cols buffer.
func EstimateDenseBytes(rows, cols int) int64 {
	return 8 * int64(rows) * int64(cols)
}

// EstimateSparseBytes is the in-memory size of a CSR block with the given
// number of rows and stored entries: one row pointer per row plus a column
// index and a value per entry.
func EstimateSparseBytes(rows int, nnz int64) int64 {
	return 8*int64(rows+1) + 16*nnz
}
