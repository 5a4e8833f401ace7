// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package block

import "github.com/ajroetker/go-rowwise/rowwise/contrib/vec"

// VectAdd adds src into dst element-wise. Both slices must have the same
// length.
func VectAdd(src, dst []float64) {
	vec.Add(dst, src)
}

// countNonZeros returns the number of entries of v that are not exactly 0.
func countNonZeros(v []float64) int64 {
	var n int64
	for _, x := range v {
		if x != 0 {
			n++
		}
	}
	return n
}
