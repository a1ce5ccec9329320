package ordersvc

import (
	"context"
	"testing"

	"github.com/yourusername/tradecore/pkg/types"
)

type fakeEngine struct {
	lastReq      *types.OrderReq
	sendReturns  int64
	canceledID   int64
	cancelResult bool
}

func (f *fakeEngine) SendOrder(req *types.OrderReq) int64 {
	f.lastReq = req
	return f.sendReturns
}

func (f *fakeEngine) CancelOrder(engineOrderID int64) bool {
	f.canceledID = engineOrderID
	return f.cancelResult
}

func TestServer_SendOrder_TranslatesWireShape(t *testing.T) {
	eng := &fakeEngine{sendReturns: 42}
	srv := NewServer(eng)

	resp, err := srv.sendOrder(context.Background(), &OrderRequest{
		TickerIndex: 7, Direction: "sell", Offset: "close_today", Type: "market", Volume: 3, Price: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.EngineOrderID != 42 || resp.Rejected {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if eng.lastReq.Direction != types.Sell || eng.lastReq.Offset != types.CloseToday || eng.lastReq.Type != types.Market {
		t.Fatalf("wire fields not translated correctly: %+v", eng.lastReq)
	}
}

func TestServer_SendOrder_VetoReportsRejected(t *testing.T) {
	eng := &fakeEngine{sendReturns: 0}
	srv := NewServer(eng)

	resp, err := srv.sendOrder(context.Background(), &OrderRequest{TickerIndex: 1, Direction: "buy", Offset: "open", Type: "limit", Volume: 1, Price: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Rejected || resp.EngineOrderID != 0 {
		t.Fatalf("expected a rejected response with no engine order id, got %+v", resp)
	}
}

func TestServer_CancelOrder_ForwardsResult(t *testing.T) {
	eng := &fakeEngine{cancelResult: true}
	srv := NewServer(eng)

	resp, err := srv.cancelOrder(context.Background(), &CancelRequest{EngineOrderID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Accepted || eng.canceledID != 9 {
		t.Fatalf("unexpected response: %+v, canceledID=%d", resp, eng.canceledID)
	}
}
