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

package vec

// Dot computes the dot product of a and b: sum(a[i] * b[i]).
//
// If the slices have different lengths, the computation uses the minimum
// length. Returns 0 if either slice is empty.
//
// Example:
//
//	a := []float32{1, 2, 3}
//	b := []float32{4, 5, 6}
//	result := Dot(a, b) // 1*4 + 2*5 + 3*6 = 32
func Dot[T Floats](a, b []T) T {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	lanes := MaxLanes[T]()
	var acc [maxLanes]T

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		vb := b[i : i+lanes]
		for j, x := range a[i : i+lanes] {
			acc[j] += x * vb[j]
		}
	}

	result := reduceSum(acc[:lanes])
	for ; i < n; i++ {
		result += a[i] * b[i]
	}
	return result
}

// SparseDot returns the dot product of the sparse vector (vals, idx) with
// the dense vector v. Only the first len(vals) indexes are used.
func SparseDot[T Floats](vals []T, idx []int, v []T) T {
	var s T
	for k, j := range idx[:len(vals)] {
		s += vals[k] * v[j]
	}
	return s
}
