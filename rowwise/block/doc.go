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

// Package block provides the two-dimensional float64 matrix block consumed
// and produced by the rowwise engine.
//
// # Representations
//
// A Block is stored in exactly one of two physical forms:
//   - dense: a flat row-major buffer of rows*cols values; row i occupies
//     data[i*cols : (i+1)*cols].
//   - sparse: a SparseBlock holding, per row, a run of (column, value) pairs
//     in increasing column order.
//
// Two SparseBlock implementations are provided. CSR shares one value and one
// index array across all rows and addresses row i through a row pointer, so
// Pos(i) is usually non-zero. MCSR keeps an independent pair of arrays per
// row, so Pos(i) is always 0. Consumers must always index with
// Values(i)[Pos(i):Pos(i)+Size(i)].
//
// # Non-zero bookkeeping
//
// Every Block records a non-zero count. RecomputeNonZeros rescans the data
// and stores the result; RecomputeNonZerosRange only counts a sub-rectangle
// so that row partitions can be counted independently and summed.
//
// # Density
//
// ExamSparsity converts a block to whichever representation a SparsityPolicy
// deems cheaper for its current non-zero count.
package block
