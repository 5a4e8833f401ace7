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

// Package scratch manages the temporary vectors a fused kernel needs while
// it processes one row.
//
// Each task that drives a kernel acquires its own Region, sized to the
// kernel's declared vector requirement times the row length, and releases it
// when it is done. A Region must never be shared by two concurrently running
// tasks. Backing buffers are recycled through size-bucketed sync.Pools so
// that repeated executions do not allocate.
//
// Usage:
//
//	r, err := scratch.Acquire(reqVectMem, cols, 0)
//	if err != nil {
//	    return err
//	}
//	defer r.Release()
//	tmp := r.Next(cols) // zeroed, valid until the ring wraps around
package scratch

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
)

// DefaultLimit is the default maximum number of float64 elements a single
// Region may hold (2 GiB of scratch).
const DefaultLimit = 1 << 28

// ErrExhausted is returned when a Region request exceeds the scratch limit.
var ErrExhausted = errors.New("scratch: memory request exceeds limit")

// buckets[b] pools *[]float64 with capacity 1<<b.
var buckets [64]sync.Pool

func bucketOf(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

func getBuffer(n int) *[]float64 {
	b := bucketOf(n)
	if p, ok := buckets[b].Get().(*[]float64); ok {
		*p = (*p)[:n]
		clear(*p)
		return p
	}
	buf := make([]float64, n, 1<<b)
	return &buf
}

func putBuffer(p *[]float64) {
	c := cap(*p)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	buckets[bucketOf(c)].Put(p)
}

// Region is a ring of pre-allocated vectors owned by one task.
type Region struct {
	n        int
	vectors  []*[]float64
	next     int
	released bool
}

// Check reports whether Acquire(count, n, limit) would succeed, without
// reserving anything.
func Check(count, n int, limit int64) error {
	if count < 0 || n < 0 {
		return fmt.Errorf("scratch: Acquire(%d, %d): negative size", count, n)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if total := int64(count) * int64(n); total > limit {
		return fmt.Errorf("scratch: Acquire(%d, %d): %d elements: %w", count, n, total, ErrExhausted)
	}
	return nil
}

// Acquire reserves count vectors of length n, failing with ErrExhausted when
// count*n exceeds limit elements. A non-positive limit means DefaultLimit.
// count == 0 returns an empty Region whose Next always allocates.
func Acquire(count, n int, limit int64) (*Region, error) {
	if err := Check(count, n, limit); err != nil {
		return nil, err
	}
	r := &Region{n: n}
	if count > 0 && n > 0 {
		r.vectors = make([]*[]float64, count)
		for i := range r.vectors {
			r.vectors[i] = getBuffer(n)
		}
	}
	return r, nil
}

// Len returns the number of vectors held by the region.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return len(r.vectors)
}

// Next returns a zeroed vector of length n. Vectors are handed out round
// robin, so a vector stays valid until Len() further calls. Requests longer
// than the region's row length, or on an empty region, are served by a fresh
// allocation.
func (r *Region) Next(n int) []float64 {
	if r == nil || len(r.vectors) == 0 || n > r.n {
		return make([]float64, n)
	}
	if r.released {
		panic("scratch: use of released region")
	}
	v := (*r.vectors[r.next])[:n]
	r.next = (r.next + 1) % len(r.vectors)
	clear(v)
	return v
}

// Release returns the region's buffers to the pool. It is safe to call more
// than once and on a nil region.
func (r *Region) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	for i, p := range r.vectors {
		*p = (*p)[:cap(*p)]
		putBuffer(p)
		r.vectors[i] = nil
	}
}
