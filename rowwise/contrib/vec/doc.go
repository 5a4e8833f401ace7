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

// Package vec provides the vector primitives used by row kernels: reductions,
// dot products, norms and in-place arithmetic over float32 and float64
// slices.
//
// Every routine walks its input in blocks of MaxLanes elements, keeping one
// accumulator per lane, reduces the lanes to a scalar and finishes the tail
// with scalar code. The lane count follows the register width of the
// dispatch level detected at init (see CurrentLevel), so results may differ
// between levels in the last bits of precision.
//
// Binary operations use the minimum of the slice lengths.
//
// Set ROWWISE_NO_SIMD=1 to force single-lane loops.
package vec
