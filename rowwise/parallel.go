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
	"errors"

	"github.com/ajroetker/go-rowwise/rowwise/block"
	"github.com/ajroetker/go-rowwise/rowwise/contrib/workerpool"
	"github.com/ajroetker/go-rowwise/rowwise/scratch"
)

// ExecuteParallel is Execute on a pool of k workers. The result is the same
// as Execute's, except that column aggregates may differ by floating-point
// summation order.
//
// Inputs with fewer than ParNumCellThreshold cells, and k <= 1, are run by
// Execute. Otherwise the rows are split with Partition and every range runs
// as one task with its own scratch region. Column aggregates accumulate into
// a private buffer per task, merged into out once all tasks are done; the
// other row types write their own rows of out directly and each task counts
// the non-zeros it produced.
//
// If any task fails, the errors of all failed tasks are joined and returned
// wrapped in ErrExecution (or ErrResource for scratch failures). Tasks are
// not cancelled when a sibling fails.
func (op *Operator) ExecuteParallel(inputs []*block.Block, scalars []float64, out *block.Block, k int) error {
	if err := op.validate(inputs, out); err != nil {
		return err
	}
	a := inputs[0]
	m, n := a.Rows(), a.Cols()
	plan := Schedule(m, n, k)
	if !plan.Parallel {
		return op.Execute(inputs, scalars, out)
	}

	op.allocateOutput(m, n, out)
	side := sideInputs(inputs)
	pool := workerpool.New(k)
	defer pool.Close()

	if op.rowType.IsColumnAgg() {
		outLen := len(out.DenseData())
		tasks := make([]workerpool.Task[[]float64], len(plan.Ranges))
		for t, r := range plan.Ranges {
			tasks[t] = func() ([]float64, error) {
				partial := make([]float64, outLen)
				env := &Env{Side: side, Scalars: scalars, Out: partial, Cols: n}
				return partial, op.runTask(a, env, r)
			}
		}
		partials, err := workerpool.InvokeAll(pool, tasks)
		if err != nil {
			return op.taskError(err)
		}
		c := out.DenseData()
		for _, p := range partials {
			block.VectAdd(p, c)
		}
		out.RecomputeNonZeros()
	} else {
		c := out.DenseData()
		tasks := make([]workerpool.Task[int64], len(plan.Ranges))
		for t, r := range plan.Ranges {
			tasks[t] = func() (int64, error) {
				env := &Env{Side: side, Scalars: scalars, Out: c, Cols: n}
				if err := op.runTask(a, env, r); err != nil {
					return 0, err
				}
				return out.RecomputeNonZerosRange(r.Lo, r.Hi-1, 0, out.Cols()-1), nil
			}
		}
		counts, err := workerpool.InvokeAll(pool, tasks)
		if err != nil {
			return op.taskError(err)
		}
		var nnz int64
		for _, cnt := range counts {
			nnz += cnt
		}
		out.SetNonZeros(nnz)
	}

	out.ExamSparsity(op.policy)
	op.logger.Debug("rowwise: execute", "op", op.name, "type", op.rowType,
		"rows", m, "cols", n, "k", k, "tasks", len(plan.Ranges), "blocklen", plan.BlockLen,
		"nnz", out.NonZeros(), "sparse", out.IsSparse())
	return nil
}

// runTask executes one row range with its own scratch region.
func (op *Operator) runTask(a *block.Block, env *Env, r RowRange) error {
	region, err := scratch.Acquire(op.reqVectMem, env.Cols, op.scratchLimit)
	if err != nil {
		return err
	}
	defer region.Release()
	env.Scratch = region
	return op.executeRange(a, env, r.Lo, r.Hi)
}

func (op *Operator) taskError(err error) error {
	if errors.Is(err, scratch.ErrExhausted) {
		return op.resourceError(err)
	}
	return op.executionError(err)
}
