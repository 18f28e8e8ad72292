// Package grpcclient implements backend.Client over google.golang.org/grpc
// for the "static-grpc-alpha" datasource. Only Query is implemented, matching
// the capability's documented gRPC behaviour; the remaining four operations
// report NotImplemented.
package grpcclient

import (
	"context"
	"fmt"
	"io"
	"time"

	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"

	"lokifederation/internal/backend"
	_ "lokifederation/internal/grpccodec" // registers the "json" content-subtype codec
	"lokifederation/internal/merge"
	"lokifederation/internal/model"
	"lokifederation/internal/selector"
	"lokifederation/pkg/clienterr"
)

// queryMethod is the fully qualified gRPC method this client streams from.
const queryMethod = "/logfederation.Querier/Query"

// Client is a backend.Client that targets one gRPC log-query backend.
type Client struct {
	target  string
	conn    *grpc.ClientConn
	timeout time.Duration
}

// New dials the gRPC backend at target, wiring the same linear-backoff retry
// interceptor the teacher uses for its own service-to-service dials.
func New(target string, timeout time.Duration, maxRetries int) (*Client, error) {
	retryOpts := []grpc_retry.CallOption{
		grpc_retry.WithBackoff(grpc_retry.BackoffLinear(100 * time.Millisecond)),
		grpc_retry.WithCodes(codes.Unavailable, codes.Aborted, codes.DeadlineExceeded),
		grpc_retry.WithMax(uint(maxRetries)),
	}
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainStreamInterceptor(grpc_retry.StreamClientInterceptor(retryOpts...)),
	)
	if err != nil {
		return nil, err
	}
	return &Client{target: target, conn: conn, timeout: timeout}, nil
}

func (c *Client) Name() string { return c.target }

func (c *Client) Query(ctx context.Context, opts backend.QueryOptions) (model.QueryResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := queryRequest{Selector: opts.Selector, Direction: string(opts.Direction)}
	if opts.Limit != nil {
		req.Limit = *opts.Limit
	}
	if opts.Time != nil {
		req.End = *opts.Time
	}

	stream, err := c.conn.NewStream(ctx, &grpc.StreamDesc{ServerStreams: true}, queryMethod, grpc.CallContentSubtype("json"))
	if err != nil {
		return model.QueryResponse{}, clienterr.FromGRPC(err).WithBackend(c.target)
	}
	if err := stream.SendMsg(req); err != nil {
		return model.QueryResponse{}, clienterr.FromGRPC(err).WithBackend(c.target)
	}
	if err := stream.CloseSend(); err != nil {
		return model.QueryResponse{}, clienterr.FromGRPC(err).WithBackend(c.target)
	}

	var resp queryStreamResponse
	if err := stream.RecvMsg(&resp); err != nil {
		if err == io.EOF {
			return model.QueryResponse{}, clienterr.New(clienterr.NoData, "backend closed stream without a response").WithBackend(c.target)
		}
		return model.QueryResponse{}, clienterr.FromGRPC(err).WithBackend(c.target)
	}

	streams := make([]model.Stream, 0, len(resp.Streams))
	for _, s := range resp.Streams {
		labels, err := selector.ParseIntoMap(s.Labels)
		if err != nil {
			return model.QueryResponse{}, merge.DecodeError(err).WithBackend(c.target)
		}
		values := make([]model.LogEntry, len(s.Entries))
		for i, e := range s.Entries {
			values[i] = model.LogEntry{Timestamp: encodeTimestamp(e.Timestamp), Line: e.Line}
		}
		streams = append(streams, model.Stream{Labels: labels, Values: values})
	}

	return model.NewStreamsResponse(streams), nil
}

// encodeTimestamp turns a (seconds, nanos) pair into the wire-form nanosecond
// count described by §6: "{seconds}{nanos zero-padded to 9 digits}".
func encodeTimestamp(ts grpcTimestamp) int64 {
	return ts.Seconds*1_000_000_000 + int64(ts.Nanos)
}

var errNotImplemented = fmt.Errorf("operation not implemented by the gRPC backend client")

func (c *Client) QueryRange(ctx context.Context, opts backend.QueryRangeOptions) (model.QueryResponse, error) {
	return model.QueryResponse{}, clienterr.Wrap(errNotImplemented, clienterr.NotImplemented, "query_range").WithBackend(c.target)
}

func (c *Client) Labels(ctx context.Context, opts backend.LabelsOptions) (model.LabelResponse, error) {
	return model.LabelResponse{}, clienterr.Wrap(errNotImplemented, clienterr.NotImplemented, "labels").WithBackend(c.target)
}

func (c *Client) LabelValues(ctx context.Context, opts backend.LabelValuesOptions) (model.LabelResponse, error) {
	return model.LabelResponse{}, clienterr.Wrap(errNotImplemented, clienterr.NotImplemented, "label_values").WithBackend(c.target)
}

func (c *Client) Series(ctx context.Context, opts backend.SeriesOptions) (model.SeriesResponse, error) {
	return model.SeriesResponse{}, clienterr.Wrap(errNotImplemented, clienterr.NotImplemented, "series").WithBackend(c.target)
}
