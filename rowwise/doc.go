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

// Package rowwise executes fused row-wise kernels over dense or sparse
// matrix blocks.
//
// A fused kernel computes a chain of operations against one row of a
// primary matrix, reading any number of whole side operands and scalar
// constants, without materializing intermediates. The kernel itself is
// supplied from outside through the Kernel interface; this package decides
// how rows are fed to it, whether to run serially or on a worker pool, and
// how partial results are assembled into a correctly shaped output.
//
// # Row types
//
// Every Operator is bound to one RowType, which fixes the output shape for
// an m x n primary input:
//
//	NoAgg    m x n   one output row per input row
//	RowAgg   m x 1   one value per row (rowSums(X), X %*% v)
//	ColAgg   1 x n   one value per column (colSums(X), t(y) %*% X)
//	ColAggT  n x 1   column aggregate emitted as a column vector (t(X) %*% y)
//
// # Execution
//
// Execute runs the kernel over all rows on the calling goroutine. Dense rows
// are handed over as an offset into the flat row-major buffer; sparse rows as
// their value and column-index runs, and empty sparse rows are skipped
// without calling the kernel.
//
// ExecuteParallel partitions the rows into contiguous disjoint ranges (see
// Partition) and runs one task per range on a pool of k workers. Column
// aggregates accumulate into a private buffer per task that is summed into
// the output afterwards; other row types write directly into their own rows
// of the shared output. Inputs smaller than ParNumCellThreshold cells, or
// k <= 1, run serially.
//
// In both modes the output's non-zero count is maintained and the output is
// finally converted to the dense or sparse form its density calls for.
//
// # Example
//
//	op, err := rowwise.New(rowwise.KernelFuncs{
//	    Dense: func(env *rowwise.Env, a []float64, ai, i int) error {
//	        env.Out[i] = vec.Sum(a[ai : ai+env.Cols])
//	        return nil
//	    },
//	    Sparse: func(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
//	        env.Out[i] = vec.Sum(avals[ai : ai+alen])
//	        return nil
//	    },
//	}, rowwise.RowAgg, 0)
//	...
//	var out block.Block
//	err = op.ExecuteParallel([]*block.Block{x}, nil, &out, runtime.NumCPU())
package rowwise
