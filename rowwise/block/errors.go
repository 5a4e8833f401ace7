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
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when dimensions are negative or do not match
	// the length of the supplied buffers.
	ErrBadShape = errors.New("block: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the block.
	ErrOutOfRange = errors.New("block: index out of range")

	// ErrNotDense is returned by operations that require the dense form.
	ErrNotDense = errors.New("block: block is not dense")

	// ErrUnsorted indicates sparse column indices that are not strictly
	// increasing within a row.
	ErrUnsorted = errors.New("block: column indices not strictly increasing")
)

// blockErrorf attaches the method name and coordinates to a sentinel.
func blockErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Block.%s(%d,%d): %w", method, row, col, err)
}
