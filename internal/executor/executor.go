// Package executor runs a batch of backend calls with a bounded in-flight
// window, collecting every outcome (success or error) with no early
// cancellation on sibling failure.
package executor

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// MaxConcurrent is the fan-out in-flight window (K in the component design).
const MaxConcurrent = 8

// Task is one backend call. It receives the shared request context (used for
// per-call deadlines, not for sibling cancellation) and returns its result or
// an error.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome is one task's result, paired with the label the caller supplied so
// failures can be attributed to a backend in logs and metrics.
type Outcome[T any] struct {
	Label string
	Value T
	Err   error
}

// Run executes tasks with at most K simultaneously in flight and returns one
// Outcome per task, in the same order as the input (Executor outcome order is
// defined as arbitrary by the spec; returning input order costs nothing and
// makes tests deterministic without the callers relying on it).
func Run[T any](ctx context.Context, labels []string, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	sem := semaphore.NewWeighted(MaxConcurrent)
	done := make(chan struct{}, len(tasks))

	for i, task := range tasks {
		i, task := i, task
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = Outcome[T]{Label: labels[i], Err: err}
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			value, err := task(ctx)
			outcomes[i] = Outcome[T]{Label: labels[i], Value: value, Err: err}
		}()
	}

	for range tasks {
		<-done
	}
	return outcomes
}
