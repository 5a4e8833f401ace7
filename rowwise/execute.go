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

import (
	"fmt"

	"github.com/ajroetker/go-rowwise/rowwise/block"
	"github.com/ajroetker/go-rowwise/rowwise/scratch"
)

// Execute runs the kernel over every row of inputs[0] on the calling
// goroutine and stores the result in out.
//
// inputs[0] is the primary operand; inputs[1:] are side operands made
// available to the kernel as dense buffers. out is reshaped to the row
// type's output shape and its previous contents are discarded. On return
// out's non-zero count is exact and its representation follows the
// operator's sparsity policy.
//
// Argument errors (ErrInvalidArgument) and scratch errors (ErrResource) are
// reported before out is modified. Kernel failures are reported as
// ErrExecution wrapping a *KernelError.
func (op *Operator) Execute(inputs []*block.Block, scalars []float64, out *block.Block) error {
	if err := op.validate(inputs, out); err != nil {
		return err
	}
	a := inputs[0]
	m, n := a.Rows(), a.Cols()

	region, err := scratch.Acquire(op.reqVectMem, n, op.scratchLimit)
	if err != nil {
		return op.resourceError(err)
	}
	defer region.Release()

	op.allocateOutput(m, n, out)
	env := &Env{
		Side:    sideInputs(inputs),
		Scalars: scalars,
		Out:     out.DenseData(),
		Cols:    n,
		Scratch: region,
	}
	if err := op.executeRange(a, env, 0, m); err != nil {
		return op.executionError(err)
	}

	out.RecomputeNonZeros()
	out.ExamSparsity(op.policy)
	op.logger.Debug("rowwise: execute", "op", op.name, "type", op.rowType,
		"rows", m, "cols", n, "k", 1, "nnz", out.NonZeros(), "sparse", out.IsSparse())
	return nil
}

// validate checks everything that can be checked without touching out.
func (op *Operator) validate(inputs []*block.Block, out *block.Block) error {
	if len(inputs) == 0 {
		return invalidArgf("%s: no input operands", op.name)
	}
	if out == nil {
		return invalidArgf("%s: nil output", op.name)
	}
	for i, in := range inputs {
		if in == nil {
			return invalidArgf("%s: input %d is nil", op.name, i)
		}
		if in == out {
			return invalidArgf("%s: output aliases input %d", op.name, i)
		}
	}
	if err := scratch.Check(op.reqVectMem, inputs[0].Cols(), op.scratchLimit); err != nil {
		return op.resourceError(err)
	}
	return nil
}

// allocateOutput reshapes out for an m x n input and gives it a fresh
// zero-filled dense buffer.
func (op *Operator) allocateOutput(m, n int, out *block.Block) {
	rows, cols := op.rowType.OutputShape(m, n)
	out.Reset(rows, cols, false)
	out.AllocateDense()
}

// sideInputs returns the side operands as dense buffers.
func sideInputs(inputs []*block.Block) [][]float64 {
	if len(inputs) < 2 {
		return nil
	}
	side := make([][]float64, len(inputs)-1)
	for i, in := range inputs[1:] {
		side[i] = in.Densify()
	}
	return side
}

// executeRange feeds rows [rl, ru) of a to the kernel.
func (op *Operator) executeRange(a *block.Block, env *Env, rl, ru int) error {
	if a.IsSparse() {
		return op.executeSparse(a.Sparse(), env, rl, ru)
	}
	return op.executeDense(a.DenseData(), env, rl, ru)
}

func (op *Operator) executeDense(a []float64, env *Env, rl, ru int) (err error) {
	if a == nil {
		return op.executeEmpty(env, rl, ru)
	}
	i := rl
	defer recoverKernel(&err, &i)
	for aix := rl * env.Cols; i < ru; i, aix = i+1, aix+env.Cols {
		if err := op.kernel.DenseRow(env, a, aix, i); err != nil {
			return &KernelError{Row: i, Err: err}
		}
	}
	return nil
}

func (op *Operator) executeSparse(sb block.SparseBlock, env *Env, rl, ru int) (err error) {
	if sb == nil {
		return op.executeEmpty(env, rl, ru)
	}
	var zeros []float64
	i := rl
	defer recoverKernel(&err, &i)
	for ; i < ru; i++ {
		if sb.IsEmpty(i) {
			if !op.visitEmpty {
				continue
			}
			if zeros == nil {
				zeros = make([]float64, env.Cols)
			}
			if err := op.kernel.DenseRow(env, zeros, 0, i); err != nil {
				return &KernelError{Row: i, Err: err}
			}
			continue
		}
		err := op.kernel.SparseRow(env, sb.Values(i), sb.Indexes(i), sb.Pos(i), sb.Size(i), i)
		if err != nil {
			return &KernelError{Row: i, Err: err}
		}
	}
	return nil
}

// executeEmpty handles an input without storage: all rows are zero.
func (op *Operator) executeEmpty(env *Env, rl, ru int) (err error) {
	if !op.visitEmpty {
		return nil
	}
	zeros := make([]float64, env.Cols)
	i := rl
	defer recoverKernel(&err, &i)
	for ; i < ru; i++ {
		if err := op.kernel.DenseRow(env, zeros, 0, i); err != nil {
			return &KernelError{Row: i, Err: err}
		}
	}
	return nil
}

func (op *Operator) executionError(err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExecution, op.name, err)
}

func (op *Operator) resourceError(err error) error {
	return fmt.Errorf("%w: %s: %w", ErrResource, op.name, err)
}
