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

// Package kernels provides ready-made row kernels for the rowwise engine.
//
// # Operators
//
// Every constructor returns a *rowwise.Operator bound to the right row type:
//
//	RowSums      ROW_AGG    rowSums(X)
//	MatVec       ROW_AGG    X %*% v, v = inputs[1] (n x 1)
//	ColSums      COL_AGG    colSums(X)
//	TMatVec      COL_AGG_T  t(X) %*% y, y = inputs[1] (m x 1)
//	Scale        NO_AGG     X * scalars[0]
//	RowNormalize NO_AGG     X / ||X[i,]||_2 per row, zero rows stay zero
//	GELU         NO_AGG     x * 0.5 * (1 + erf(x / sqrt(2)))
//	RowSoftmax   NO_AGG     exp(X[i,] - max) / sum(exp(X[i,] - max))
//
// All kernels are sparse-safe (an all-zero row contributes nothing) except
// RowSoftmax, which maps a zero row to 1/n. It implements
// rowwise.EmptyRowVisitor, so dense and sparse inputs give the same result.
//
// The arithmetic is done by the vector primitives of package vec, whose lane
// width follows the CPU detected at init.
//
//	import "github.com/ajroetker/go-rowwise/rowwise/contrib/kernels"
//
//	op, _ := kernels.MatVec()
//	var out block.Block
//	err := op.ExecuteParallel([]*block.Block{x, v}, nil, &out, 8)
package kernels
