package grpcclient

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"lokifederation/internal/backend"
	"lokifederation/pkg/clienterr"
)

const bufSize = 1024 * 1024

// fakeQuerierHandler implements the single streamed RPC this client speaks,
// replying with one canned stream so the client's decode path can be
// exercised without a protoc-generated service.
func fakeQuerierHandler(_ any, stream grpc.ServerStream) error {
	var req queryRequest
	if err := stream.RecvMsg(&req); err != nil {
		return err
	}
	return stream.SendMsg(queryStreamResponse{
		Streams: []grpcStream{
			{
				Labels: `{app="gateway"}`,
				Entries: []grpcLogEntry{
					{Timestamp: grpcTimestamp{Seconds: 1, Nanos: 500000000}, Line: "hello"},
				},
			},
		},
	})
}

func startFakeServer(t *testing.T) (*grpc.Server, *bufconn.Listener) {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: "logfederation.Querier",
		HandlerType: (*any)(nil),
		Streams: []grpc.StreamDesc{
			{StreamName: "Query", Handler: fakeQuerierHandler, ServerStreams: true},
		},
	}, nil)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)
	return srv, lis
}

func TestClient_Query_DecodesStreamedResponse(t *testing.T) {
	_, lis := startFakeServer(t)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	c := &Client{target: "bufnet", conn: conn, timeout: 2 * time.Second}

	resp, err := c.Query(context.Background(), backend.QueryOptions{Selector: `{app="gateway"}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data.Streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(resp.Data.Streams))
	}
	s := resp.Data.Streams[0]
	if s.Labels["app"] != "gateway" {
		t.Errorf("labels = %v, want app=gateway", s.Labels)
	}
	wantTS := int64(1_500_000_000)
	if s.Values[0].Timestamp != wantTS || s.Values[0].Line != "hello" {
		t.Errorf("values[0] = %+v, want {%d hello}", s.Values[0], wantTS)
	}
}

func TestClient_NonQueryOperationsAreNotImplemented(t *testing.T) {
	c := &Client{target: "unused"}

	if _, err := c.QueryRange(context.Background(), backend.QueryRangeOptions{}); !clienterr.Is(err, clienterr.NotImplemented) {
		t.Errorf("QueryRange: expected NotImplemented, got %v", err)
	}
	if _, err := c.Labels(context.Background(), backend.LabelsOptions{}); !clienterr.Is(err, clienterr.NotImplemented) {
		t.Errorf("Labels: expected NotImplemented, got %v", err)
	}
	if _, err := c.LabelValues(context.Background(), backend.LabelValuesOptions{}); !clienterr.Is(err, clienterr.NotImplemented) {
		t.Errorf("LabelValues: expected NotImplemented, got %v", err)
	}
	if _, err := c.Series(context.Background(), backend.SeriesOptions{}); !clienterr.Is(err, clienterr.NotImplemented) {
		t.Errorf("Series: expected NotImplemented, got %v", err)
	}
}
