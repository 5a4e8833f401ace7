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

// ParNumCellThreshold is the minimum number of input cells (rows*cols) for
// which ExecuteParallel actually runs in parallel.
const ParNumCellThreshold = 1024 * 1024

// RowRange is the half-open row interval [Lo, Hi).
type RowRange struct {
	Lo, Hi int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.Hi - r.Lo }

// Plan describes how an execution is scheduled.
type Plan struct {
	// Parallel is false when the execution falls back to the serial path.
	Parallel bool

	// Workers is the requested degree of parallelism.
	Workers int

	// BlockLen is the number of rows per task (the last task may be shorter).
	BlockLen int

	// Ranges are the task row ranges, in row order. Nil for serial plans.
	Ranges []RowRange
}

// Schedule returns the execution plan for a rows x cols input and k workers.
func Schedule(rows, cols, k int) Plan {
	if k <= 1 || int64(rows)*int64(cols) < ParNumCellThreshold {
		return Plan{Workers: 1, BlockLen: rows}
	}
	ranges, blklen := Partition(rows, k)
	return Plan{Parallel: true, Workers: k, BlockLen: blklen, Ranges: ranges}
}

// Partition splits m rows into contiguous, disjoint, non-empty ranges that
// cover [0, m) for k workers, and returns them with the block length used.
//
// The number of tasks nk is min(8k, m/32) rounded up to a multiple of k (and
// at least k), so every worker gets several tasks to balance skew, while
// tasks stay above a few dozen rows. Each task covers ceil(m/nk) rows; tasks
// that would start past the last row are dropped.
func Partition(m, k int) ([]RowRange, int) {
	if m <= 0 {
		return nil, 0
	}
	if k < 1 {
		k = 1
	}
	nk := roundToNext(min(8*k, m/32), k)
	blklen := (m + nk - 1) / nk
	ranges := make([]RowRange, 0, nk)
	for i := 0; i < nk && i*blklen < m; i++ {
		ranges = append(ranges, RowRange{Lo: i * blklen, Hi: min((i+1)*blklen, m)})
	}
	return ranges, blklen
}

// roundToNext rounds max(v, f) up to the next multiple of f.
func roundToNext(v, f int) int {
	v = max(v, f)
	return (v + f - 1) / f * f
}
