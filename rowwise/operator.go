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
	"log/slog"

	"github.com/ajroetker/go-rowwise/envconfig"
	"github.com/ajroetker/go-rowwise/rowwise/block"
)

// Operator binds a kernel to a row type and a scratch requirement. An
// Operator is immutable after New and may be executed concurrently, as long
// as concurrent executions use distinct outputs.
type Operator struct {
	name         string
	kernel       Kernel
	rowType      RowType
	reqVectMem   int
	visitEmpty   bool
	policy       block.SparsityPolicy
	scratchLimit int64
	logger       *slog.Logger
}

// New returns an Operator running kernel with the given row type. Each task
// reserves reqVectMem scratch vectors of the input's column count.
//
// Unless overridden by options, the sparsity turn point and the scratch
// limit are read from the environment (see envconfig).
func New(kernel Kernel, rowType RowType, reqVectMem int, opts ...Option) (*Operator, error) {
	if kernel == nil {
		return nil, invalidArgf("nil kernel")
	}
	if !rowType.Valid() {
		return nil, invalidArgf("row type %d", int(rowType))
	}
	if reqVectMem < 0 {
		return nil, invalidArgf("negative scratch vector count %d", reqVectMem)
	}
	op := &Operator{
		name:         fmt.Sprintf("%T", kernel),
		kernel:       kernel,
		rowType:      rowType,
		reqVectMem:   reqVectMem,
		policy:       block.DefaultSparsityPolicy(),
		scratchLimit: envconfig.MaxScratch(),
		logger:       slog.Default(),
	}
	if v, ok := kernel.(EmptyRowVisitor); ok {
		op.visitEmpty = v.VisitEmptyRows()
	}
	for _, opt := range opts {
		opt(op)
	}
	return op, nil
}

// Name returns the operator name.
func (op *Operator) Name() string { return op.name }

// RowType returns the operator's row type.
func (op *Operator) RowType() RowType { return op.rowType }

// ReqVectMem returns the number of scratch vectors reserved per task.
func (op *Operator) ReqVectMem() int { return op.reqVectMem }

// SparsityPolicy returns the policy used to pick the output representation.
func (op *Operator) SparsityPolicy() block.SparsityPolicy { return op.policy }

func (op *Operator) String() string {
	return fmt.Sprintf("%s[%s]", op.name, op.rowType)
}
