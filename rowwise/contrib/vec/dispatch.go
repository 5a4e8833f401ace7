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

package vec

import "unsafe"

// Floats is the set of element types supported by the primitives.
type Floats interface {
	~float32 | ~float64
}

// DispatchLevel represents the instruction set the lane width is sized for.
type DispatchLevel int

const (
	// DispatchScalar uses single-lane loops.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 sizes lanes for 128-bit registers (x86-64 baseline).
	DispatchSSE2

	// DispatchAVX2 sizes lanes for 256-bit registers.
	DispatchAVX2

	// DispatchAVX512 sizes lanes for 512-bit registers.
	DispatchAVX512

	// DispatchNEON sizes lanes for 128-bit ARM registers.
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// width returns the register width in bytes for the level.
func (d DispatchLevel) width() int {
	switch d {
	case DispatchAVX2:
		return 32
	case DispatchAVX512:
		return 64
	default:
		return 16
	}
}

// maxLanes bounds the per-lane accumulators: 64-byte registers of float32.
const maxLanes = 16

// currentLevel is the detected level for this runtime.
// Set by init() in dispatch_*.go files and by SetLevel.
var currentLevel DispatchLevel

// currentWidth is the register width in bytes for the current level.
var currentWidth int

// CurrentLevel returns the dispatch level in use.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the register width in bytes.
// For example: 16 for SSE2/NEON, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a human-readable name for the current level.
func CurrentName() string {
	return currentLevel.String()
}

// SetLevel switches the primitives to the given level. Unknown levels select
// DispatchScalar. It must not be called while primitives are running.
func SetLevel(level DispatchLevel) {
	if level.String() == "unknown" {
		level = DispatchScalar
	}
	currentLevel = level
	currentWidth = level.width()
}

// MaxLanes returns the number of lanes of type T the primitives process per
// block at the current level.
//
// For example, with AVX2 (32 bytes):
//   - float32: 32/4 = 8 lanes
//   - float64: 32/8 = 4 lanes
//
// DispatchScalar always uses one lane.
func MaxLanes[T Floats]() int {
	if currentLevel == DispatchScalar {
		return 1
	}
	var dummy T
	return min(currentWidth/int(unsafe.Sizeof(dummy)), maxLanes)
}
