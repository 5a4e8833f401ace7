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

import "math"

// SquaredNorm returns the squared L2 norm of v: sum(v[i]^2).
func SquaredNorm[T Floats](v []T) T {
	return Dot(v, v)
}

// Norm returns the L2 norm of v: sqrt(sum(v[i]^2)).
func Norm[T Floats](v []T) T {
	sq := SquaredNorm(v)
	if sq == 0 {
		return 0
	}
	return T(math.Sqrt(float64(sq)))
}

// Normalize scales v in place to unit L2 norm. Empty and all-zero vectors
// are left unchanged.
func Normalize[T Floats](v []T) {
	NormalizeTo(v, v)
}

// NormalizeTo stores src / ||src|| in dst, over the minimum of the two
// lengths. A zero-norm src is copied unchanged.
//
// Example:
//
//	src := []float64{3, 0, 4}
//	dst := make([]float64, 3)
//	NormalizeTo(dst, src) // dst is now [0.6, 0, 0.8]
func NormalizeTo[T Floats](dst, src []T) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}
	norm := Norm(src[:n])
	if norm == 0 {
		copy(dst[:n], src[:n])
		return
	}
	ScaleTo(dst[:n], 1/norm, src[:n])
}
