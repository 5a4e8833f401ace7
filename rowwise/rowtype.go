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

package rowwise

// RowType is the aggregation variant of an Operator. It determines the
// output shape and how parallel partial results are combined.
type RowType int

const (
	// NoAgg produces an output with the same shape as the input.
	NoAgg RowType = iota

	// RowAgg collapses every row to a single value (m x 1).
	RowAgg

	// ColAgg collapses every column to a single value (1 x n).
	ColAgg

	// ColAggT is ColAgg emitted as a column vector (n x 1).
	ColAggT
)

// String returns the canonical name of the row type.
func (t RowType) String() string {
	switch t {
	case NoAgg:
		return "NO_AGG"
	case RowAgg:
		return "ROW_AGG"
	case ColAgg:
		return "COL_AGG"
	case ColAggT:
		return "COL_AGG_T"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined row types.
func (t RowType) Valid() bool {
	return t >= NoAgg && t <= ColAggT
}

// IsColumnAgg reports whether t aggregates over rows into one value per
// column.
func (t RowType) IsColumnAgg() bool {
	return t == ColAgg || t == ColAggT
}

// OutputShape returns the output dimensions for an m x n primary input.
// Invalid row types yield 0 x 0.
func (t RowType) OutputShape(m, n int) (rows, cols int) {
	switch t {
	case NoAgg:
		return m, n
	case RowAgg:
		return m, 1
	case ColAgg:
		return 1, n
	case ColAggT:
		return n, 1
	default:
		return 0, 0
	}
}
