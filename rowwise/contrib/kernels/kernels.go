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
	"errors"
	"fmt"

	"github.com/ajroetker/go-rowwise/rowwise"
	"github.com/ajroetker/go-rowwise/rowwise/contrib/vec"
)

// ErrOperand is returned by kernels whose side operands or scalars are
// missing or too short.
var ErrOperand = errors.New("kernels: bad operand")

func newOperator(name string, k rowwise.Kernel, rt rowwise.RowType, reqVectMem int, opts []rowwise.Option) (*rowwise.Operator, error) {
	return rowwise.New(k, rt, reqVectMem, append([]rowwise.Option{rowwise.WithName(name)}, opts...)...)
}

func sideVector(env *rowwise.Env, name string, n int) ([]float64, error) {
	if len(env.Side) == 0 || len(env.Side[0]) < n {
		return nil, fmt.Errorf("%w: %s needs a side vector of length %d", ErrOperand, name, n)
	}
	return env.Side[0][:n], nil
}

func scalar(env *rowwise.Env, name string) (float64, error) {
	if len(env.Scalars) == 0 {
		return 0, fmt.Errorf("%w: %s needs a scalar", ErrOperand, name)
	}
	return env.Scalars[0], nil
}

type rowSums struct{}

// RowSums returns an operator computing the sum of every row (m x 1).
func RowSums(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("rowSums", rowSums{}, rowwise.RowAgg, 0, opts)
}

func (rowSums) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	env.Out[i] = vec.Sum(a[ai : ai+env.Cols])
	return nil
}

func (rowSums) SparseRow(env *rowwise.Env, avals []float64, _ []int, ai, alen, i int) error {
	env.Out[i] = vec.Sum(avals[ai : ai+alen])
	return nil
}

type matVec struct{}

// MatVec returns an operator computing X %*% v (m x 1), where v is the
// n x 1 side operand inputs[1].
func MatVec(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("matVec", matVec{}, rowwise.RowAgg, 0, opts)
}

func (matVec) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	v, err := sideVector(env, "matVec", env.Cols)
	if err != nil {
		return err
	}
	env.Out[i] = vec.Dot(a[ai:ai+env.Cols], v)
	return nil
}

func (matVec) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
	v, err := sideVector(env, "matVec", env.Cols)
	if err != nil {
		return err
	}
	env.Out[i] = vec.SparseDot(avals[ai:ai+alen], aix[ai:ai+alen], v)
	return nil
}

type colSums struct{}

// ColSums returns an operator computing the sum of every column (1 x n).
func ColSums(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("colSums", colSums{}, rowwise.ColAgg, 0, opts)
}

func (colSums) DenseRow(env *rowwise.Env, a []float64, ai, _ int) error {
	vec.Add(env.Out[:env.Cols], a[ai:ai+env.Cols])
	return nil
}

func (colSums) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, _ int) error {
	vec.SparseMulConstAddTo(env.Out, 1, avals[ai:ai+alen], aix[ai:ai+alen])
	return nil
}

type tMatVec struct{}

// TMatVec returns an operator computing t(X) %*% y (n x 1), where y is the
// m x 1 side operand inputs[1].
func TMatVec(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("tMatVec", tMatVec{}, rowwise.ColAggT, 0, opts)
}

func (tMatVec) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	y, err := sideVector(env, "tMatVec", i+1)
	if err != nil {
		return err
	}
	vec.MulConstAddTo(env.Out[:env.Cols], y[i], a[ai:ai+env.Cols])
	return nil
}

func (tMatVec) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
	y, err := sideVector(env, "tMatVec", i+1)
	if err != nil {
		return err
	}
	vec.SparseMulConstAddTo(env.Out, y[i], avals[ai:ai+alen], aix[ai:ai+alen])
	return nil
}

type scale struct{}

// Scale returns an operator computing X * scalars[0] (m x n).
func Scale(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("scale", scale{}, rowwise.NoAgg, 0, opts)
}

func (scale) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	s, err := scalar(env, "scale")
	if err != nil {
		return err
	}
	vec.ScaleTo(outRow(env, i), s, a[ai:ai+env.Cols])
	return nil
}

func (scale) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
	s, err := scalar(env, "scale")
	if err != nil {
		return err
	}
	vec.SparseMulConstAddTo(outRow(env, i), s, avals[ai:ai+alen], aix[ai:ai+alen])
	return nil
}

type rowNormalize struct{}

// RowNormalize returns an operator dividing every row by its Euclidean norm
// (m x n). All-zero rows stay zero.
func RowNormalize(opts ...rowwise.Option) (*rowwise.Operator, error) {
	return newOperator("rowNormalize", rowNormalize{}, rowwise.NoAgg, 0, opts)
}

func (rowNormalize) DenseRow(env *rowwise.Env, a []float64, ai, i int) error {
	vec.NormalizeTo(outRow(env, i), a[ai:ai+env.Cols])
	return nil
}

func (rowNormalize) SparseRow(env *rowwise.Env, avals []float64, aix []int, ai, alen, i int) error {
	vals := avals[ai : ai+alen]
	if norm := vec.Norm(vals); norm != 0 {
		vec.SparseMulConstAddTo(outRow(env, i), 1/norm, vals, aix[ai:ai+alen])
	}
	return nil
}

func outRow(env *rowwise.Env, i int) []float64 {
	return env.Out[i*env.Cols : (i+1)*env.Cols]
}
