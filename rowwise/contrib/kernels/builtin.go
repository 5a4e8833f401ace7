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

import "github.com/ajroetker/go-rowwise/rowwise"

// Builtin describes a built-in operator for tools that select kernels by
// name.
type Builtin struct {
	Name string
	New  func(opts ...rowwise.Option) (*rowwise.Operator, error)

	// SideShape returns the shape of the side operand for an m x n primary
	// input. Nil when the operator takes no side operand.
	SideShape func(m, n int) (rows, cols int)

	// Scalars is the number of scalar constants the operator reads.
	Scalars int
}

var builtins = []Builtin{
	{Name: "rowSums", New: RowSums},
	{Name: "matVec", New: MatVec, SideShape: func(_, n int) (int, int) { return n, 1 }},
	{Name: "colSums", New: ColSums},
	{Name: "tMatVec", New: TMatVec, SideShape: func(m, _ int) (int, int) { return m, 1 }},
	{Name: "scale", New: Scale, Scalars: 1},
	{Name: "rowNormalize", New: RowNormalize},
	{Name: "gelu", New: GELU},
	{Name: "geluApprox", New: GELUApprox},
	{Name: "rowSoftmax", New: RowSoftmax},
}

// Builtins returns all built-in operators.
func Builtins() []Builtin {
	return append([]Builtin(nil), builtins...)
}

// Lookup returns the built-in operator with the given name.
func Lookup(name string) (Builtin, bool) {
	for _, b := range builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}
