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

// Add performs dst[i] += s[i] over the minimum length.
func Add[T Floats](dst, s []T) {
	n := min(len(dst), len(s))
	lanes := MaxLanes[T]()

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		vs := s[i : i+lanes]
		vd := dst[i : i+lanes]
		for j := range vd {
			vd[j] += vs[j]
		}
	}
	for ; i < n; i++ {
		dst[i] += s[i]
	}
}

// Scale performs dst[i] *= c.
func Scale[T Floats](c T, dst []T) {
	ScaleTo(dst, c, dst)
}

// ScaleTo performs dst[i] = c * s[i] over the minimum length.
func ScaleTo[T Floats](dst []T, c T, s []T) {
	n := min(len(dst), len(s))
	lanes := MaxLanes[T]()

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		vs := s[i : i+lanes]
		vd := dst[i : i+lanes]
		for j := range vd {
			vd[j] = c * vs[j]
		}
	}
	for ; i < n; i++ {
		dst[i] = c * s[i]
	}
}

// MulConstAddTo performs dst[i] += a * x[i] (AXPY) over the minimum length.
//
// Example:
//
//	dst := []float32{1, 2, 3, 4}
//	x := []float32{1, 1, 1, 1}
//	MulConstAddTo(dst, 10, x) // dst is now {11, 12, 13, 14}
func MulConstAddTo[T Floats](dst []T, a T, x []T) {
	n := min(len(dst), len(x))
	lanes := MaxLanes[T]()

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		vx := x[i : i+lanes]
		vd := dst[i : i+lanes]
		for j := range vd {
			vd[j] += a * vx[j]
		}
	}
	for ; i < n; i++ {
		dst[i] += a * x[i]
	}
}

// SparseMulConstAddTo performs dst[idx[k]] += a * vals[k] for the first
// len(vals) indexes.
func SparseMulConstAddTo[T Floats](dst []T, a T, vals []T, idx []int) {
	for k, j := range idx[:len(vals)] {
		dst[j] += a * vals[k]
	}
}
