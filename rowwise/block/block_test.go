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

package block

import (
	"testing"

	"github.com/ajroetker/go-rowwise/envconfig"
	"github.com/stretchr/testify/require"
)

// sample returns a 4x5 matrix with an empty row 2.
func sample() []float64 {
	return []float64{
		1, 0, 0, 2, 0,
		0, 3, 0, 0, 0,
		0, 0, 0, 0, 0,
		4, 0, 5, 0, 6,
	}
}

func TestNewDenseShape(t *testing.T) {
	b, err := NewDense(3, 4)
	require.NoError(t, err)
	require.Equal(t, 3, b.Rows())
	require.Equal(t, 4, b.Cols())
	require.Len(t, b.DenseData(), 12)
	require.Zero(t, b.NonZeros())

	_, err = NewDense(-1, 4)
	require.ErrorIs(t, err, ErrBadShape)

	_, err = NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrBadShape)
}

func TestZeroValueBlock(t *testing.T) {
	var b Block
	require.Equal(t, 0, b.Rows())
	require.False(t, b.IsSparse())
	require.Nil(t, b.DenseData())
	require.Zero(t, b.RecomputeNonZeros())
}

func TestAtSet(t *testing.T) {
	b, err := NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, b.Set(1, 2, 7.5))
	require.EqualValues(t, 1, b.NonZeros())
	v, err := b.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 7.5, v)

	require.NoError(t, b.Set(1, 2, 0))
	require.Zero(t, b.NonZeros())

	_, err = b.At(2, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, b.Set(0, -1, 1), ErrOutOfRange)

	b.ToSparse()
	require.ErrorIs(t, b.Set(0, 0, 1), ErrNotDense)
}

func TestRecomputeNonZeros(t *testing.T) {
	b, err := NewDenseFrom(4, 5, sample())
	require.NoError(t, err)
	require.EqualValues(t, 6, b.NonZeros())

	require.EqualValues(t, 3, b.RecomputeNonZerosRange(0, 1, 0, 4))
	require.EqualValues(t, 3, b.RecomputeNonZerosRange(2, 3, 0, 4))
	require.EqualValues(t, 2, b.RecomputeNonZerosRange(3, 3, 1, 4))
	require.Zero(t, b.RecomputeNonZerosRange(3, 2, 0, 4), "inverted range")

	b.ToSparse()
	require.True(t, b.IsSparse())
	require.EqualValues(t, 6, b.RecomputeNonZeros())
	require.EqualValues(t, 3, b.RecomputeNonZerosRange(2, 3, 0, 4))
	require.EqualValues(t, 2, b.RecomputeNonZerosRange(3, 3, 1, 4))
}

func TestDenseSparseRoundTrip(t *testing.T) {
	data := sample()
	b, err := NewDenseFrom(4, 5, append([]float64(nil), data...))
	require.NoError(t, err)

	b.ToSparse()
	sb := b.Sparse()
	require.NotNil(t, sb)
	require.True(t, sb.IsEmpty(2))
	require.False(t, sb.IsEmpty(3))
	require.Equal(t, 3, sb.Size(3))
	pos := sb.Pos(3)
	require.Equal(t, []int{0, 2, 4}, sb.Indexes(3)[pos:pos+3])
	require.Equal(t, []float64{4, 5, 6}, sb.Values(3)[pos:pos+3])

	for i := range 4 {
		for j := range 5 {
			v, err := b.At(i, j)
			require.NoError(t, err)
			require.Equal(t, data[i*5+j], v, "(%d,%d)", i, j)
		}
	}

	b.ToDense()
	require.False(t, b.IsSparse())
	require.Equal(t, data, b.DenseData())
}

func TestMCSR(t *testing.T) {
	sb := NewMCSR(3)
	require.NoError(t, sb.Append(0, 1, 2))
	require.NoError(t, sb.Append(0, 3, 4))
	require.NoError(t, sb.Append(2, 0, 0)) // dropped
	require.ErrorIs(t, sb.Append(0, 3, 1), ErrUnsorted)
	require.ErrorIs(t, sb.Append(5, 0, 1), ErrOutOfRange)

	require.True(t, sb.IsEmpty(1))
	require.True(t, sb.IsEmpty(2))
	require.Equal(t, 0, sb.Pos(0))
	require.EqualValues(t, 2, sb.NonZeros())
	require.Equal(t, 4.0, sb.Get(0, 3))
	require.Zero(t, sb.Get(0, 2))

	b, err := NewSparse(3, 4, sb)
	require.NoError(t, err)
	require.EqualValues(t, 2, b.NonZeros())

	_, err = NewSparse(3, 3, sb)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = NewSparse(2, 4, sb)
	require.ErrorIs(t, err, ErrBadShape)
}

func TestNewCSRValidation(t *testing.T) {
	_, err := NewCSR(2, []int{0, 1, 2}, []int{0, 1}, []float64{1, 2})
	require.NoError(t, err)

	_, err = NewCSR(2, []int{0, 1}, []int{0}, []float64{1})
	require.ErrorIs(t, err, ErrBadShape)

	_, err = NewCSR(1, []int{0, 2}, []int{1, 1}, []float64{1, 2})
	require.ErrorIs(t, err, ErrUnsorted)

	_, err = NewCSR(2, []int{0, 2, 1}, []int{0, 1}, []float64{1, 2})
	require.ErrorIs(t, err, ErrBadShape)
}

func TestExamSparsity(t *testing.T) {
	t.Setenv("ROWWISE_SPARSITY_TURN_POINT", "")
	p := DefaultSparsityPolicy()

	b, err := NewDenseFrom(4, 5, sample()) // 6/20 = 0.3
	require.NoError(t, err)
	b.ExamSparsity(p)
	require.True(t, b.IsSparse())

	dense := make([]float64, 20)
	for i := range dense {
		dense[i] = float64(i + 1)
	}
	b, err = NewDenseFrom(4, 5, dense)
	require.NoError(t, err)
	b.ExamSparsity(p)
	require.False(t, b.IsSparse())

	// Column vectors stay dense however empty they are.
	col, err := NewDenseFrom(4, 1, []float64{0, 0, 0, 1})
	require.NoError(t, err)
	col.ExamSparsity(p)
	require.False(t, col.IsSparse())

	// A zero turn point never picks sparse.
	b, err = NewDenseFrom(4, 5, sample())
	require.NoError(t, err)
	b.ExamSparsity(SparsityPolicy{})
	require.False(t, b.IsSparse())

	// A dense-enough sparse block is converted back.
	b.ToSparse()
	b.SetNonZeros(15)
	b.ExamSparsity(p)
	require.False(t, b.IsSparse())
}

func TestDefaultSparsityPolicy(t *testing.T) {
	t.Setenv("ROWWISE_SPARSITY_TURN_POINT", "")
	p := DefaultSparsityPolicy()
	require.Equal(t, DefaultTurnPoint, p.TurnPoint)
	require.Equal(t, envconfig.DefaultSparsityTurnPoint, p.TurnPoint)
	require.Equal(t, DefaultMinSparseCols, p.MinCols)

	t.Setenv("ROWWISE_SPARSITY_TURN_POINT", "0.1")
	require.Equal(t, 0.1, DefaultSparsityPolicy().TurnPoint)

	t.Setenv("ROWWISE_SPARSITY_TURN_POINT", "7")
	require.Equal(t, DefaultTurnPoint, DefaultSparsityPolicy().TurnPoint)
}

func TestResetAllocate(t *testing.T) {
	b, err := NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	old := b.DenseData()

	b.Reset(3, 1, false)
	require.Equal(t, 3, b.Rows())
	require.Equal(t, 1, b.Cols())
	require.Nil(t, b.DenseData())
	require.Zero(t, b.NonZeros())

	b.AllocateDense()
	require.Equal(t, []float64{0, 0, 0}, b.DenseData())
	require.Equal(t, []float64{1, 2, 3, 4}, old, "reset must not clobber the previous buffer")
}

func TestDensify(t *testing.T) {
	b, err := NewDenseFrom(4, 5, sample())
	require.NoError(t, err)
	require.Equal(t, sample(), b.Densify())

	b.ToSparse()
	require.Equal(t, sample(), b.Densify())
	require.True(t, b.IsSparse(), "Densify must not change the representation")

	var empty Block
	empty.Reset(2, 2, true)
	require.Equal(t, []float64{0, 0, 0, 0}, empty.Densify())
}

func TestVectAdd(t *testing.T) {
	dst := []float64{1, 2, 3}
	VectAdd([]float64{10, 0, -3}, dst)
	require.Equal(t, []float64{11, 2, 0}, dst)
}

func TestEstimates(t *testing.T) {
	require.EqualValues(t, 8*100*10, EstimateDenseBytes(100, 10))
	require.EqualValues(t, 8*101+16*50, EstimateSparseBytes(100, 50))
	require.False(t, SparsityPolicy{TurnPoint: 1, MinCols: 1}.UseSparse(1, 1, 0), "tiny blocks are cheaper dense")
}
