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

package kernels

import (
	"math"

	"github.com/ajroetker/go-rowwise/rowwise"
	"github.com/ajroetker/go-rowwise/rowwise/contrib/vec"
)

const invSqrt2 = 0.7071067811865476

func gelu(x float64) float64 {
	return x * 0.5 * (1 + math.Erf(x*invSqrt2))
}

func geluApprox(x float64) float64 {
	return x / (1 + math.Exp(-1.702*x))
}

// elementwise applies f to every element of a row. f(0) must be 0.
type elementwise struct {
	f func(float64) float64
}

// GELU returns an operator applying the exact Gaussian Error Linear Unit,
// x * 0.5 * (1 + erf(x / sqrt(2))), to every element (m x n).
func GELU(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("gelu", elementwise{gelu}, rowwise.NoAgg, 0, opts)
}

// GELUApprox is GELU with the sigmoid approximation x * sigmoid(1.702 * x).
func GELUApprox(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("geluApprox", elementwise{geluApprox}, rowwise.NoAgg, 0, opts)
}

func (e elementwise) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	out := outRow(env, i)
	for j, v := range a[ai : ai+env.Cols] {
		out[j] = e.f(v)
	}
	return nil
}

func (e elementwise) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
	out := outRow(env, i)
	for k := ai; k < ai+alen; k++ {
		out[aix[k]] = e.f(avals[k])
	}
	return nil
}

type rowSoftmax struct{}

// RowSoftmax returns an operator computing the softmax of every row (m x n):
//
//	softmax(x)_j = exp(x_j - max(x)) / sum_k exp(x_k - max(x))
//
// Implicit zeros of sparse rows take part like stored values, and an
// all-zero row becomes the uniform distribution 1/n. Each task reserves one
// scratch vector.
func RowSoftmax(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("rowSoftmax", rowSoftmax{}, rowwise.NoAgg, 1, opts)
}

// VisitEmptyRows reports true: zero rows do not map to zero.
func (rowSoftmax) VisitEmptyRows() bool { return true }

func (rowSoftmax) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	row := env.Scratch.Next(env.Cols)
	copy(row, a[ai:ai+env.Cols])
	softmaxInto(outRow(env, i), row)
	return nil
}

func (rowSoftmax) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
	row := env.Scratch.Next(env.Cols)
	for k := ai; k < ai+alen; k++ {
		row[aix[k]] = avals[k]
	}
	softmaxInto(outRow(env, i), row)
	return nil
}

// softmaxInto writes softmax(x) to dst, using x as temporary storage.
func softmaxInto(dst, x []float64) {
	if len(x) == 0 {
		return
	}
	maxVal := vec.Max(x)
	for j, v := range x {
		x[j] = math.Exp(v - maxVal)
	}
	vec.ScaleTo(dst, 1/vec.Sum(x), x)
}
