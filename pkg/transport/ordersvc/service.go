// Package ordersvc exposes the TradingEngine's send and cancel
// operations to upstream strategy processes over gRPC; the service
// registers SendOrder and CancelOrder only, no query RPC. It is grounded on
// golang/pkg/client/ors_client.go's ORSClient, inverted from client to
// server since the engine now terminates the connection rather than
// dialing out to a separate ORS Gateway process, and re-shaped from
// protobuf to a hand-written JSON codec (see codec.go and DESIGN.md's
// dropped-dependency note).
package ordersvc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/yourusername/tradecore/pkg/types"
)

// serviceName matches the package-qualified name protoc-gen-go-grpc
// would have produced for a service named OrderService in this module.
const serviceName = "tradecore.ordersvc.OrderService"

// Engine is the subset of engine.Engine that Server needs. Kept
// narrow so tests can satisfy it with a fake instead of constructing
// a full TradingEngine.
type Engine interface {
	SendOrder(req *types.OrderReq) int64
	CancelOrder(engineOrderID int64) bool
}

// Server adapts engine.Engine to the OrderService gRPC contract.
type Server struct {
	eng Engine
}

// NewServer wraps eng for gRPC exposure.
func NewServer(eng Engine) *Server {
	return &Server{eng: eng}
}

// Register attaches the OrderService to s using a hand-authored
// ServiceDesc in the same mechanical shape protoc-gen-go-grpc emits.
func (srv *Server) Register(s *grpc.Server) {
	s.RegisterService(&_OrderService_serviceDesc, srv)
}

func (srv *Server) sendOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	engineID := srv.eng.SendOrder(toOrderReq(req))
	if engineID == 0 {
		return &OrderResponse{Rejected: true, RejectReason: "vetoed by risk kernel or gateway"}, nil
	}
	return &OrderResponse{EngineOrderID: engineID}, nil
}

func (srv *Server) cancelOrder(ctx context.Context, req *CancelRequest) (*CancelResponse, error) {
	return &CancelResponse{Accepted: srv.eng.CancelOrder(req.EngineOrderID)}, nil
}

func _OrderService_SendOrder_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(OrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).sendOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/SendOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(*Server).sendOrder(ctx, req.(*OrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _OrderService_CancelOrder_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).cancelOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CancelOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(*Server).cancelOrder(ctx, req.(*CancelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _OrderService_serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendOrder", Handler: _OrderService_SendOrder_Handler},
		{MethodName: "CancelOrder", Handler: _OrderService_CancelOrder_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ordersvc.proto",
}
