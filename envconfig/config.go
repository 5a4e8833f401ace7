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

// Package envconfig reads the ROWWISE_* environment variables.
//
// Every accessor re-reads the environment, falls back to a documented
// default, and logs a warning through slog when a value cannot be parsed.
package envconfig

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Defaults.
const (
	DefaultSparsityTurnPoint = 0.4
	DefaultMaxScratch        = 1 << 28
)

// LogLevel returns the log level.
// Configurable via ROWWISE_DEBUG: 0/false = INFO (default), 1/true = DEBUG,
// larger integers lower the level further in steps of 4.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("ROWWISE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// NumThreads returns the default degree of parallelism.
// Configurable via ROWWISE_NUM_THREADS; defaults to the logical CPU count.
var NumThreads = Uint("ROWWISE_NUM_THREADS", uint(runtime.NumCPU()))

// MaxScratch returns the maximum number of float64 elements a single scratch
// region may hold.
// Configurable via ROWWISE_MAX_SCRATCH.
var MaxScratch = Int64("ROWWISE_MAX_SCRATCH", DefaultMaxScratch)

// NoSIMD forces the scalar (single lane) vector primitives.
// Configurable via ROWWISE_NO_SIMD.
var NoSIMD = Bool("ROWWISE_NO_SIMD")

// SparsityTurnPoint returns the sparsity below which outputs are stored
// sparse. Configurable via ROWWISE_SPARSITY_TURN_POINT, a value in [0, 1].
func SparsityTurnPoint() float64 {
	const key = "ROWWISE_SPARSITY_TURN_POINT"
	if s := Var(key); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && f >= 0 && f <= 1 {
			return f
		}
		slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", DefaultSparsityTurnPoint)
	}
	return DefaultSparsityTurnPoint
}

// Var returns an environment variable stripped of surrounding whitespace
// and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// Bool returns a getter for a boolean variable (default false). Any
// non-empty value that does not parse as a bool counts as true.
func Bool(key string) func() bool {
	return func() bool {
		if s := Var(key); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

// Uint returns a getter for an unsigned integer variable.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Int64 returns a getter for a positive int64 variable. Values that do not
// parse, overflow int64 or are not positive fall back to the default.
func Int64(key string, defaultValue int64) func() int64 {
	return func() int64 {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseInt(s, 10, 64); err != nil || n <= 0 {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return n
			}
		}
		return defaultValue
	}
}

// EnvVar describes one configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"ROWWISE_DEBUG":               {"ROWWISE_DEBUG", LogLevel(), "Show additional debug information (e.g. ROWWISE_DEBUG=1)"},
		"ROWWISE_NUM_THREADS":         {"ROWWISE_NUM_THREADS", NumThreads(), "Default degree of parallelism (default: number of CPUs)"},
		"ROWWISE_MAX_SCRATCH":         {"ROWWISE_MAX_SCRATCH", MaxScratch(), "Maximum scratch elements per worker"},
		"ROWWISE_NO_SIMD":             {"ROWWISE_NO_SIMD", NoSIMD(), "Use single-lane vector primitives"},
		"ROWWISE_SPARSITY_TURN_POINT": {"ROWWISE_SPARSITY_TURN_POINT", SparsityTurnPoint(), "Sparsity below which outputs are stored sparse (default 0.4)"},
	}
}
