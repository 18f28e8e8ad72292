// Package grpccodec registers a grpc.Codec that marshals plain Go structs as
// JSON instead of protobuf wire format. The gRPC backend client uses it under
// the content-subtype "json" so it can speak to a streaming gRPC service
// without a protoc-generated stub (see DESIGN.md for why).
package grpccodec

import (
	"fmt"

	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype this codec is registered under.
const Name = "json"

func init() {
	encoding.RegisterCodec(codec{})
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("grpccodec: %T does not implement Message", v)
	}
	return json.Marshal(msg)
}

func (codec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(Message)
	if !ok {
		return fmt.Errorf("grpccodec: %T does not implement Message", v)
	}
	return json.Unmarshal(data, msg)
}

func (codec) Name() string { return Name }

// Message is the marker interface every request/response struct carried over
// this codec implements. Its one method, IsGRPCJSONMessage, does nothing; it
// exists so Marshal/Unmarshal can reject accidental use with protobuf messages.
type Message interface {
	IsGRPCJSONMessage()
}
