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
	"log/slog"

	"github.com/ajroetker/go-rowwise/rowwise/block"
)

// Option configures an Operator.
type Option func(*Operator)

// WithName sets the name used in logs and errors.
func WithName(name string) Option {
	return func(op *Operator) { op.name = name }
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(op *Operator) {
		if l != nil {
			op.logger = l
		}
	}
}

// WithSparsityPolicy sets the policy that picks the output representation.
func WithSparsityPolicy(p block.SparsityPolicy) Option {
	return func(op *Operator) { op.policy = p }
}

// WithScratchLimit caps the scratch elements one task may reserve.
// Non-positive values mean scratch.DefaultLimit.
func WithScratchLimit(n int64) Option {
	return func(op *Operator) { op.scratchLimit = n }
}
