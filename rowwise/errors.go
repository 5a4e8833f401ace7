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
	"fmt"
)

var (
	// ErrInvalidArgument is returned, before any work is done, for missing
	// operands, a missing output, an output that aliases an input, or an
	// invalid operator definition.
	ErrInvalidArgument = errors.New("rowwise: invalid argument")

	// ErrExecution wraps failures raised by the kernel while processing
	// rows. The output is left in an unspecified state.
	ErrExecution = errors.New("rowwise: execution failed")

	// ErrResource is returned when scratch memory cannot be reserved.
	ErrResource = errors.New("rowwise: resource exhausted")
)

// KernelError records the row at which a kernel failed.
type KernelError struct {
	Row int
	Err error
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *KernelError) Unwrap() error {
	return e.Err
}

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// recoverKernel turns a kernel panic at *row into a KernelError. It must be
// deferred directly.
func recoverKernel(err *error, row *int) {
	if r := recover(); r != nil {
		*err = &KernelError{Row: *row, Err: fmt.Errorf("panic: %v", r)}
	}
}
