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

// Sum returns the sum of all elements of v. Returns 0 if v is empty.
//
// Example:
//
//	data := []float64{1, 2, 3, 4, 5}
//	result := Sum(data) // 15
func Sum[T Floats](v []T) T {
	if len(v) == 0 {
		return 0
	}
	lanes := MaxLanes[T]()
	var acc [maxLanes]T

	var i int
	for i = 0; i+lanes <= len(v); i += lanes {
		for j, x := range v[i : i+lanes] {
			acc[j] += x
		}
	}

	result := reduceSum(acc[:lanes])
	for ; i < len(v); i++ {
		result += v[i]
	}
	return result
}

// Max returns the largest element of v. Panics if v is empty.
func Max[T Floats](v []T) T {
	if len(v) == 0 {
		panic("vec: Max called on empty slice")
	}
	lanes := MaxLanes[T]()

	if len(v) < lanes {
		result := v[0]
		for _, x := range v[1:] {
			result = max(result, x)
		}
		return result
	}

	var acc [maxLanes]T
	copy(acc[:lanes], v)
	var i int
	for i = lanes; i+lanes <= len(v); i += lanes {
		for j, x := range v[i : i+lanes] {
			acc[j] = max(acc[j], x)
		}
	}

	result := acc[0]
	for _, x := range acc[1:lanes] {
		result = max(result, x)
	}
	for ; i < len(v); i++ {
		result = max(result, v[i])
	}
	return result
}

func reduceSum[T Floats](acc []T) T {
	var s T
	for _, x := range acc {
		s += x
	}
	return s
}
