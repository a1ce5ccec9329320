package ordersvc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec is a google.golang.org/grpc/encoding.Codec that marshals
// request/response messages as JSON instead of protobuf. grpc-go
// dispatches purely on the registered codec name, so any Go struct —
// not just a generated protobuf message — can ride the wire as long as
// client and server agree on this codec name.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
