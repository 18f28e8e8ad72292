package grpcclient

// queryRequest is the wire shape of a Querier.Query call, carried as JSON
// over the grpccodec "json" content-subtype.
type queryRequest struct {
	Selector  string   `json:"selector"`
	Limit     int32    `json:"limit,omitempty"`
	Start     int64    `json:"start,omitempty"`
	End       int64    `json:"end,omitempty"`
	Direction string   `json:"direction"`
	Shards    []string `json:"shards,omitempty"`
}

func (queryRequest) IsGRPCJSONMessage() {}

// grpcTimestamp mirrors the upstream protobuf well-known Timestamp shape:
// seconds since epoch plus a nanosecond remainder.
type grpcTimestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

type grpcLogEntry struct {
	Timestamp grpcTimestamp `json:"timestamp"`
	Line      string        `json:"line"`
}

type grpcStream struct {
	// Labels is the selector-grammar-encoded label set, e.g. `{app="gateway"}`.
	Labels  string         `json:"labels"`
	Entries []grpcLogEntry `json:"entries"`
}

// queryStreamResponse is one message of the server-streaming Querier.Query
// response. The client consumes exactly one message per the capability
// contract's documented gRPC behaviour.
type queryStreamResponse struct {
	Streams []grpcStream `json:"streams"`
}

func (queryStreamResponse) IsGRPCJSONMessage() {}
