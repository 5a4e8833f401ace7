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
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-rowwise/rowwise"
	"github.com/ajroetker/go-rowwise/rowwise/block"
	"github.com/ajroetker/go-rowwise/rowwise/contrib/vec"
)

var loose = cmpopts.EquateApprox(1e-9, 1e-9)

// forEachLevel runs f once per vector dispatch level, restoring the
// detected one.
func forEachLevel(t *testing.T, f func(t *testing.T)) {
	prev := vec.CurrentLevel()
	t.Cleanup(func() { vec.SetLevel(prev) })
	for _, l := range []vec.DispatchLevel{vec.DispatchScalar, vec.DispatchSSE2, vec.DispatchAVX2, vec.DispatchAVX512} {
		vec.SetLevel(l)
		t.Run(l.String(), f)
	}
}

func randomVec(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

// randomMatrix returns an m x n matrix with roughly the given fraction of
// zeros and at least one non-zero per row.
func randomMatrix(rng *rand.Rand, m, n int, zeroFrac float64) *mat.Dense {
	data := make([]float64, m*n)
	for i := range data {
		if rng.Float64() >= zeroFrac {
			data[i] = rng.NormFloat64()
		}
	}
	for i := range m {
		data[i*n+rng.IntN(n)] = 1 + rng.Float64()
	}
	return mat.NewDense(m, n, data)
}

func toBlocks(t *testing.T, x *mat.Dense) map[string]*block.Block {
	t.Helper()
	m, n := x.Dims()
	data := x.RawMatrix().Data
	dense, err := block.NewDenseFrom(m, n, data)
	require.NoError(t, err)
	sparse, err := block.NewSparse(m, n, block.CSRFromDense(data, m, n))
	require.NoError(t, err)
	sb := block.NewMCSR(m)
	for i := range m {
		for j := range n {
			require.NoError(t, sb.Append(i, j, data[i*n+j]))
		}
	}
	mcsr, err := block.NewSparse(m, n, sb)
	require.NoError(t, err)
	return map[string]*block.Block{"dense": dense, "sparse": sparse, "mcsr": mcsr}
}

func vecBlock(t *testing.T, v []float64) *block.Block {
	t.Helper()
	b, err := block.NewDenseFrom(len(v), 1, v)
	require.NoError(t, err)
	return b
}

func rowsOf(x *mat.Dense, f func(row []float64) []float64) []float64 {
	m, n := x.Dims()
	var out []float64
	for i := range m {
		out = append(out, f(mat.Row(make([]float64, n), i, x))...)
	}
	return out
}

type kernelCase struct {
	name    string
	newOp   func(...rowwise.Option) (*rowwise.Operator, error)
	side    []float64
	scalars []float64
	want    []float64
	rows    int
	cols    int
}

func kernelCases(rng *rand.Rand, x *mat.Dense) []kernelCase {
	m, n := x.Dims()
	v := randomVec(rng, n)
	y := randomVec(rng, m)

	var xv, xty mat.VecDense
	xv.MulVec(x, mat.NewVecDense(n, v))
	xty.MulVec(x.T(), mat.NewVecDense(m, y))

	colSums := make([]float64, n)
	for j := range n {
		colSums[j] = floats.Sum(mat.Col(nil, j, x))
	}
	var scaled mat.Dense
	scaled.Scale(2.5, x)

	return []kernelCase{
		{
			name: "rowSums", newOp: RowSums, rows: m, cols: 1,
			want: rowsOf(x, func(r []float64) []float64 { return []float64{floats.Sum(r)} }),
		},
		{name: "matVec", newOp: MatVec, side: v, rows: m, cols: 1, want: xv.RawVector().Data},
		{name: "colSums", newOp: ColSums, rows: 1, cols: n, want: colSums},
		{name: "tMatVec", newOp: TMatVec, side: y, rows: n, cols: 1, want: xty.RawVector().Data},
		{name: "scale", newOp: Scale, scalars: []float64{2.5}, rows: m, cols: n, want: scaled.RawMatrix().Data},
		{
			name: "rowNormalize", newOp: RowNormalize, rows: m, cols: n,
			want: rowsOf(x, func(r []float64) []float64 {
				floats.Scale(1/floats.Norm(r, 2), r)
				return r
			}),
		},
		{
			name: "gelu", newOp: GELU, rows: m, cols: n,
			want: rowsOf(x, func(r []float64) []float64 {
				for j, v := range r {
					r[j] = v * 0.5 * (1 + math.Erf(v/math.Sqrt2))
				}
				return r
			}),
		},
		{
			name: "geluApprox", newOp: GELUApprox, rows: m, cols: n,
			want: rowsOf(x, func(r []float64) []float64 {
				for j, v := range r {
					r[j] = v / (1 + math.Exp(-1.702*v))
				}
				return r
			}),
		},
		{
			name: "rowSoftmax", newOp: RowSoftmax, rows: m, cols: n,
			want: rowsOf(x, func(r []float64) []float64 {
				hi := floats.Max(r)
				for j, v := range r {
					r[j] = math.Exp(v - hi)
				}
				floats.Scale(1/floats.Sum(r), r)
				return r
			}),
		},
	}
}

func runCase(t *testing.T, tc kernelCase, x *block.Block, k int) {
	t.Helper()
	op, err := tc.newOp()
	require.NoError(t, err)
	inputs := []*block.Block{x}
	if tc.side != nil {
		inputs = append(inputs, vecBlock(t, tc.side))
	}
	var out block.Block
	require.NoError(t, op.ExecuteParallel(inputs, tc.scalars, &out, k))
	require.Equal(t, tc.rows, out.Rows())
	require.Equal(t, tc.cols, out.Cols())
	got := out.Densify()
	if diff := cmp.Diff(tc.want, got, loose); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", op, diff)
	}
	var nnz int64
	for _, v := range got {
		if v != 0 {
			nnz++
		}
	}
	require.Equal(t, nnz, out.NonZeros())
}

func TestKernelsAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	x := randomMatrix(rng, 97, 31, 0.6)
	for _, tc := range kernelCases(rng, x) {
		for repr, b := range toBlocks(t, x) {
			t.Run(tc.name+"/"+repr, func(t *testing.T) {
				runCase(t, tc, b, 1)
			})
		}
	}
}

func TestKernelsParallel(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	const m, n = 2100, 500
	require.True(t, rowwise.Schedule(m, n, 4).Parallel)
	x := randomMatrix(rng, m, n, 0.5)
	for _, tc := range kernelCases(rng, x) {
		for repr, b := range toBlocks(t, x) {
			t.Run(tc.name+"/"+repr, func(t *testing.T) {
				runCase(t, tc, b, 4)
			})
		}
	}
}

func TestKernelsAtEveryLevel(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	x := randomMatrix(rng, 40, 13, 0.3)
	cases := kernelCases(rng, x)
	blocks := toBlocks(t, x)
	forEachLevel(t, func(t *testing.T) {
		for _, tc := range cases {
			runCase(t, tc, blocks["dense"], 1)
		}
	})
}

func TestZeroRows(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		0, 0, 0,
		0, 5, 0,
	})
	e := math.Exp
	softmax := func(r ...float64) []float64 {
		s := e(r[0]) + e(r[1]) + e(r[2])
		return []float64{e(r[0]) / s, e(r[1]) / s, e(r[2]) / s}
	}
	norm := math.Sqrt(14)
	cases := []kernelCase{
		{
			name: "rowSoftmax", newOp: RowSoftmax, rows: 3, cols: 3,
			want: append(append(softmax(1, 2, 3), 1.0/3, 1.0/3, 1.0/3), softmax(0, 5, 0)...),
		},
		{
			name: "rowNormalize", newOp: RowNormalize, rows: 3, cols: 3,
			want: []float64{1 / norm, 2 / norm, 3 / norm, 0, 0, 0, 0, 1, 0},
		},
	}
	for _, tc := range cases {
		for repr, b := range toBlocks(t, x) {
			t.Run(tc.name+"/"+repr, func(t *testing.T) {
				runCase(t, tc, b, 1)
			})
		}
	}
}

func TestZeroRowsParallel(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	const m, n = 2100, 500
	x := randomMatrix(rng, m, n, 0.9)
	for i := 0; i < m; i += 4 {
		x.SetRow(i, make([]float64, n))
	}
	blocks := toBlocks(t, x)
	for _, newOp := range []func(...rowwise.Option) (*rowwise.Operator, error){RowSoftmax, RowNormalize} {
		op, err := newOp()
		require.NoError(t, err)
		var want block.Block
		require.NoError(t, op.Execute([]*block.Block{blocks["dense"]}, nil, &want))
		wantData := want.Densify()

		zero := 0.0
		if op.Name() == "rowSoftmax" {
			zero = 1.0 / n
		}
		for _, v := range wantData[:n] {
			require.InDelta(t, zero, v, 1e-15, op.Name())
		}
		for _, repr := range []string{"sparse", "mcsr"} {
			var got block.Block
			require.NoError(t, op.ExecuteParallel([]*block.Block{blocks[repr]}, nil, &got, 4))
			if diff := cmp.Diff(wantData, got.Densify(), loose); diff != "" {
				t.Errorf("%s/%s mismatch (-want +got):\n%s", op, repr, diff)
			}
			require.Equal(t, want.NonZeros(), got.NonZeros())
		}
	}
}

func TestKernelOperandErrors(t *testing.T) {
	x, err := block.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	short := vecBlock(t, []float64{1})

	tests := []struct {
		name   string
		newOp  func(...rowwise.Option) (*rowwise.Operator, error)
		inputs []*block.Block
	}{
		{"matVec without side", MatVec, []*block.Block{x}},
		{"matVec short side", MatVec, []*block.Block{x, short}},
		{"tMatVec short side", TMatVec, []*block.Block{x, short}},
		{"scale without scalar", Scale, []*block.Block{x}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := tt.newOp()
			require.NoError(t, err)
			var out block.Block
			err = op.Execute(tt.inputs, nil, &out)
			require.ErrorIs(t, err, rowwise.ErrExecution)
			require.ErrorIs(t, err, ErrOperand)
		})
	}
}

func TestBuiltins(t *testing.T) {
	wantTypes := map[string]rowwise.RowType{
		"rowSums":      rowwise.RowAgg,
		"matVec":       rowwise.RowAgg,
		"colSums":      rowwise.ColAgg,
		"tMatVec":      rowwise.ColAggT,
		"scale":        rowwise.NoAgg,
		"rowNormalize": rowwise.NoAgg,
		"gelu":         rowwise.NoAgg,
		"geluApprox":   rowwise.NoAgg,
		"rowSoftmax":   rowwise.NoAgg,
	}
	all := Builtins()
	require.Len(t, all, len(wantTypes))
	for _, b := range all {
		op, err := b.New(rowwise.WithName("x" + b.Name))
		require.NoError(t, err)
		require.Equal(t, wantTypes[b.Name], op.RowType(), b.Name)
		require.Equal(t, "x"+b.Name, op.Name())

		got, ok := Lookup(b.Name)
		require.True(t, ok)
		require.Equal(t, b.Name, got.Name)
	}
	_, ok := Lookup("nope")
	require.False(t, ok)

	mv, _ := Lookup("matVec")
	rows, cols := mv.SideShape(10, 4)
	require.Equal(t, []int{4, 1}, []int{rows, cols})
	tmv, _ := Lookup("tMatVec")
	rows, cols = tmv.SideShape(10, 4)
	require.Equal(t, []int{10, 1}, []int{rows, cols})
}
