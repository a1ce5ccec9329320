package ordersvc

import "github.com/yourusername/tradecore/pkg/types"

// OrderRequest is what an upstream strategy process sends to place an
// order. It mirrors types.OrderReq field-for-field rather than
// embedding it, so the wire shape stays independent of internal
// renames.
type OrderRequest struct {
	TickerIndex int32   `json:"ticker_index"`
	Direction   string  `json:"direction"` // "buy" | "sell"
	Offset      string  `json:"offset"`    // "open" | "close" | "close_today" | "close_yesterday"
	Type        string  `json:"type"`      // "limit" | "market"
	Volume      int64   `json:"volume"`
	Price       float64 `json:"price"`
}

// OrderResponse reports the outcome of an OrderRequest. EngineOrderID
// is 0 when the risk kernel vetoed the request before it ever reached
// the gateway.
type OrderResponse struct {
	EngineOrderID int64  `json:"engine_order_id"`
	Rejected      bool   `json:"rejected"`
	RejectReason  string `json:"reject_reason,omitempty"`
}

// CancelRequest asks the engine to cancel a previously accepted order.
type CancelRequest struct {
	EngineOrderID int64 `json:"engine_order_id"`
}

// CancelResponse reports whether the cancel request was accepted.
type CancelResponse struct {
	Accepted bool `json:"accepted"`
}

// QueryRequest carries an optional ticker filter for position and
// margin-rate queries; empty means "all instruments". No RPC
// registered on OrderService takes a QueryRequest.
type QueryRequest struct {
	Ticker string `json:"ticker,omitempty"`
}

// QueryAck is the acknowledgement shape for an asynchronous query whose
// data arrives over pkg/transport/feed. No RPC registered on
// OrderService returns a QueryAck.
type QueryAck struct {
	Accepted bool `json:"accepted"`
}

func toOrderReq(r *OrderRequest) *types.OrderReq {
	return &types.OrderReq{
		TickerIndex: r.TickerIndex,
		Direction:   directionFromWire(r.Direction),
		Offset:      offsetFromWire(r.Offset),
		Type:        orderTypeFromWire(r.Type),
		Volume:      r.Volume,
		Price:       r.Price,
	}
}

func directionFromWire(s string) types.Direction {
	if s == "sell" {
		return types.Sell
	}
	return types.Buy
}

func offsetFromWire(s string) types.Offset {
	switch s {
	case "close":
		return types.Close
	case "close_today":
		return types.CloseToday
	case "close_yesterday":
		return types.CloseYesterday
	default:
		return types.Open
	}
}

func orderTypeFromWire(s string) types.OrderType {
	if s == "market" {
		return types.Market
	}
	return types.Limit
}
