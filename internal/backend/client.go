// Package backend defines the Client capability every protocol-specific
// backend implementation (HTTP, gRPC) satisfies, plus the per-call option
// structs the federation facade builds and passes through unchanged.
package backend

import (
	"context"

	"lokifederation/internal/model"
)

// QueryOptions carries the parameters of a query call. Direction is always
// concrete by the time it reaches a Client: the facade substitutes the
// default (Backward) before dispatch.
type QueryOptions struct {
	Selector  string
	Limit     *int32
	Time      *int64
	Direction model.Direction
}

// QueryRangeOptions carries the parameters of a query_range call.
type QueryRangeOptions struct {
	Selector  string
	Start     int64
	End       int64
	Limit     *int32
	Direction model.Direction
	Step      string
	Interval  string
}

// LabelsOptions carries the parameters of a labels call.
type LabelsOptions struct {
	Start *int64
	End   *int64
}

// LabelValuesOptions carries the parameters of a label_values call.
type LabelValuesOptions struct {
	Label string
	Start *int64
	End   *int64
}

// SeriesOptions carries the parameters of a series call.
type SeriesOptions struct {
	Matches []string
	Start   *int64
	End     *int64
}

// Client is the capability contract every backend protocol implementation
// satisfies. Implementations are stateless with respect to the federator and
// need not be safe for concurrent reuse beyond what net/http and grpc.ClientConn
// already guarantee.
type Client interface {
	// Name identifies the backend for logging and metrics (typically its URL).
	Name() string
	Query(ctx context.Context, opts QueryOptions) (model.QueryResponse, error)
	QueryRange(ctx context.Context, opts QueryRangeOptions) (model.QueryResponse, error)
	Labels(ctx context.Context, opts LabelsOptions) (model.LabelResponse, error)
	LabelValues(ctx context.Context, opts LabelValuesOptions) (model.LabelResponse, error)
	Series(ctx context.Context, opts SeriesOptions) (model.SeriesResponse, error)
}
