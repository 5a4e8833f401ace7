// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed-size worker pool with join-all task
// invocation.
//
// A Pool spawns its workers once at creation. InvokeAll submits a batch of
// tasks, blocks until every one of them has finished, and returns their
// results in submission order together with the joined errors of the tasks
// that failed. A failing task never cancels the others.
//
// Usage:
//
//	pool := workerpool.New(k)
//	defer pool.Close()
//
//	tasks := make([]workerpool.Task[int64], len(ranges))
//	for i, r := range ranges {
//	    tasks[i] = func() (int64, error) { return process(r) }
//	}
//	counts, err := workerpool.InvokeAll(pool, tasks)
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of worker goroutines consuming submitted work items.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem is a single unit of work and the barrier it reports to.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// Task is a unit of work producing a value of type T.
type Task[T any] func() (T, error)

// New creates a pool with numWorkers workers. If numWorkers <= 0, uses
// GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool once all queued work has been taken. Calling
// Close multiple times is safe; calling it concurrently with InvokeAll is
// not.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// InvokeAll runs every task on the pool and waits for all of them. results[i]
// holds the value returned by tasks[i]; it is the zero value when the task
// failed. The returned error joins, in task order, the error of each failed
// task wrapped with its index. A panicking task is reported as an error.
//
// On a closed pool the tasks run sequentially on the calling goroutine.
func InvokeAll[T any](p *Pool, tasks []Task[T]) ([]T, error) {
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	if p.closed.Load() {
		for i, task := range tasks {
			results[i], errs[i] = run(i, task)
		}
		return results, errors.Join(errs...)
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		p.workC <- workItem{
			fn: func() {
				results[i], errs[i] = run(i, task)
			},
			barrier: &wg,
		}
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// run executes one task and converts a panic into an error.
func run[T any](i int, task Task[T]) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res, err = zero, fmt.Errorf("task %d: panic: %v", i, r)
		}
	}()
	res, err = task()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("task %d: %w", i, err)
	}
	return res, nil
}
