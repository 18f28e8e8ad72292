// Package federation implements the Federation Facade (§4.F): it wires the
// registry, the fan-out executor, and the two mergers together into the five
// public operations.
package federation

import (
	"context"
	"log/slog"
	"time"

	"lokifederation/internal/backend"
	"lokifederation/internal/executor"
	"lokifederation/internal/merge"
	"lokifederation/internal/model"
	"lokifederation/internal/registry"
	"lokifederation/pkg/clienterr"
	"lokifederation/pkg/metrics"
)

// Facade orchestrates registry lookup, fan-out, and merge for every public
// operation. It holds no connections itself: a fresh client set is built per
// request, matching the registry's "pure, no caching" contract.
type Facade struct {
	build func() ([]backend.Client, error)
	log   *slog.Logger
}

// New builds a Facade bound to a fixed set of configured datasources.
func New(log *slog.Logger, datasources []registry.Datasource, options registry.Options) *Facade {
	return &Facade{
		build: func() ([]backend.Client, error) { return registry.Build(datasources, options) },
		log:   log,
	}
}

// newWithClients builds a Facade over a fixed, already-constructed client
// set, bypassing the registry. Used by tests that exercise fan-out and merge
// without real network backends.
func newWithClients(log *slog.Logger, clients []backend.Client) *Facade {
	return &Facade{build: func() ([]backend.Client, error) { return clients, nil }, log: log}
}

func (f *Facade) clients() ([]backend.Client, error) {
	return f.build()
}

func labelsOf(clients []backend.Client) []string {
	labels := make([]string, len(clients))
	for i, c := range clients {
		labels[i] = c.Name()
	}
	return labels
}

// timed wraps a per-backend task so every call records backend latency and
// in-flight count, and, on failure, a labelled error count (§11: per-backend
// request/error metrics).
func timed[T any](operation, backendName string, task executor.Task[T]) executor.Task[T] {
	return func(ctx context.Context) (T, error) {
		m := metrics.Get()

		tracker := metrics.NewRequestTracker(m.FanoutConcurrency)
		tracker.Start(backendName)
		defer tracker.End(backendName)

		timer := metrics.NewTimer(m.BackendRequestDuration, backendName, operation)
		result, err := task(ctx)
		timer.ObserveDuration()

		status := "ok"
		if err != nil {
			status = "error"
			severity := "warning"
			if clienterr.IsFatal(err) {
				severity = "fatal"
			}
			m.RecordBackendError(backendName, string(clienterr.KindOf(err)), severity)
		}
		m.RecordBackendRequest(backendName, operation, status)
		return result, err
	}
}

// timedMerge records how long a merge step took and how many streams, label
// values or series the merged response carries (§11: merge-stage metrics).
func timedMerge[T any](operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	metrics.Get().RecordMerge(operation, time.Since(start), mergedCount(result))
	return result, err
}

func mergedCount(result any) int {
	switch r := result.(type) {
	case model.QueryResponse:
		return len(r.Data.Streams)
	case model.LabelResponse:
		return len(r.Data)
	case model.SeriesResponse:
		return len(r.Data)
	}
	return 0
}

// Query fans out a query call and merges the results into one streams response.
func (f *Facade) Query(ctx context.Context, opts backend.QueryOptions) (model.QueryResponse, error) {
	clients, err := f.clients()
	if err != nil {
		return model.QueryResponse{}, err
	}
	direction := normalizeDirection(opts.Direction)
	opts.Direction = direction

	tasks := make([]executor.Task[model.QueryResponse], len(clients))
	for i, c := range clients {
		c := c
		tasks[i] = timed("query", c.Name(), func(ctx context.Context) (model.QueryResponse, error) { return c.Query(ctx, opts) })
	}
	outcomes := executor.Run(ctx, labelsOf(clients), tasks)
	return timedMerge("query", func() (model.QueryResponse, error) {
		return merge.Streams(f.log, outcomes, direction)
	})
}

// QueryRange fans out a query_range call and merges the results into one streams response.
func (f *Facade) QueryRange(ctx context.Context, opts backend.QueryRangeOptions) (model.QueryResponse, error) {
	clients, err := f.clients()
	if err != nil {
		return model.QueryResponse{}, err
	}
	direction := normalizeDirection(opts.Direction)
	opts.Direction = direction

	tasks := make([]executor.Task[model.QueryResponse], len(clients))
	for i, c := range clients {
		c := c
		tasks[i] = timed("query_range", c.Name(), func(ctx context.Context) (model.QueryResponse, error) { return c.QueryRange(ctx, opts) })
	}
	outcomes := executor.Run(ctx, labelsOf(clients), tasks)
	return timedMerge("query_range", func() (model.QueryResponse, error) {
		return merge.Streams(f.log, outcomes, direction)
	})
}

// Labels fans out a labels call and unions the results.
func (f *Facade) Labels(ctx context.Context, opts backend.LabelsOptions) (model.LabelResponse, error) {
	clients, err := f.clients()
	if err != nil {
		return model.LabelResponse{}, err
	}

	tasks := make([]executor.Task[model.LabelResponse], len(clients))
	for i, c := range clients {
		c := c
		tasks[i] = timed("labels", c.Name(), func(ctx context.Context) (model.LabelResponse, error) { return c.Labels(ctx, opts) })
	}
	outcomes := executor.Run(ctx, labelsOf(clients), tasks)
	return timedMerge("labels", func() (model.LabelResponse, error) {
		return merge.Labels(f.log, outcomes), nil
	})
}

// LabelValues fans out a label_values call and unions the results.
func (f *Facade) LabelValues(ctx context.Context, opts backend.LabelValuesOptions) (model.LabelResponse, error) {
	clients, err := f.clients()
	if err != nil {
		return model.LabelResponse{}, err
	}

	tasks := make([]executor.Task[model.LabelResponse], len(clients))
	for i, c := range clients {
		c := c
		tasks[i] = timed("label_values", c.Name(), func(ctx context.Context) (model.LabelResponse, error) { return c.LabelValues(ctx, opts) })
	}
	outcomes := executor.Run(ctx, labelsOf(clients), tasks)
	return timedMerge("label_values", func() (model.LabelResponse, error) {
		return merge.Labels(f.log, outcomes), nil
	})
}

// Series fans out a series call and dedups the results, first-seen order preserved.
func (f *Facade) Series(ctx context.Context, opts backend.SeriesOptions) (model.SeriesResponse, error) {
	clients, err := f.clients()
	if err != nil {
		return model.SeriesResponse{}, err
	}

	tasks := make([]executor.Task[model.SeriesResponse], len(clients))
	for i, c := range clients {
		c := c
		tasks[i] = timed("series", c.Name(), func(ctx context.Context) (model.SeriesResponse, error) { return c.Series(ctx, opts) })
	}
	outcomes := executor.Run(ctx, labelsOf(clients), tasks)
	return timedMerge("series", func() (model.SeriesResponse, error) {
		return merge.Series(f.log, outcomes), nil
	})
}

// normalizeDirection substitutes the default direction so every backend
// client sees a concrete value, per §4.A.
func normalizeDirection(d model.Direction) model.Direction {
	if d == model.Forward {
		return model.Forward
	}
	return model.Backward
}
