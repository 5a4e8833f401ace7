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

import "github.com/ajroetker/go-rowwise/rowwise/scratch"

// Env is everything a kernel invocation may read besides the row itself.
// One Env is owned by one task at a time.
type Env struct {
	// Side holds the side operands as dense row-major buffers, in input
	// order. They are shared by all tasks and must not be written.
	Side [][]float64

	// Scalars holds the scalar constants. Read-only.
	Scalars []float64

	// Out is the output target. For NoAgg, row i is Out[i*Cols:(i+1)*Cols];
	// for RowAgg it is Out[i]. For ColAgg and ColAggT the kernel adds its
	// contribution for column j into Out[j]; Out may then be a private
	// partial buffer rather than the final output.
	Out []float64

	// Cols is the number of columns of the primary input.
	Cols int

	// Scratch holds the temporary vectors reserved for this task.
	Scratch *scratch.Region
}

// Kernel is a generated fused row operation.
//
// DenseRow processes the dense row rowIndex stored at a[ai : ai+env.Cols].
// SparseRow processes the sparse row rowIndex whose non-zeros are
// avals[ai : ai+alen] at columns aix[ai : ai+alen]. For the same logical row
// both must produce the same result, up to floating-point summation order.
//
// A kernel may only write the part of env.Out that belongs to rowIndex (or
// accumulate into env.Out for column aggregates), and must not retain any
// of its arguments after returning. Returned errors and panics abort the
// execution.
type Kernel interface {
	DenseRow(env *Env, a []float64, ai, rowIndex int) error
	SparseRow(env *Env, avals []float64, aix []int, ai, alen, rowIndex int) error
}

// EmptyRowVisitor is implemented by kernels that are not sparse-safe: an
// all-zero row still produces output. When VisitEmptyRows reports true, the
// engine passes every empty sparse row, and every row of an unallocated
// input, to DenseRow as a row of zeros. Other kernels never see those rows.
type EmptyRowVisitor interface {
	VisitEmptyRows() bool
}

// KernelFuncs adapts a pair of functions to the Kernel interface.
type KernelFuncs struct {
	Dense  func(env *Env, a []float64, ai, rowIndex int) error
	Sparse func(env *Env, avals []float64, aix []int, ai, alen, rowIndex int) error

	// VisitEmpty selects EmptyRowVisitor behavior.
	VisitEmpty bool
}

var (
	_ Kernel          = KernelFuncs{}
	_ EmptyRowVisitor = KernelFuncs{}
)

// DenseRow calls f.Dense.
func (f KernelFuncs) DenseRow(env *Env, a []float64, ai, rowIndex int) error {
	return f.Dense(env, a, ai, rowIndex)
}

// SparseRow calls f.Sparse.
func (f KernelFuncs) SparseRow(env *Env, avals []float64, aix []int, ai, alen, rowIndex int) error {
	return f.Sparse(env, avals, aix, ai, alen, rowIndex)
}

// VisitEmptyRows returns f.VisitEmpty.
func (f KernelFuncs) VisitEmptyRows() bool {
	return f.VisitEmpty
}
