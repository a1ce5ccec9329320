package risk

import (
	"testing"

	"github.com/yourusername/tradecore/pkg/types"
)

// A pending Buy limit vetoes any crossing incoming Sell.
func TestNoSelfTradeRule_PendingLimitVetoesCrossingSell(t *testing.T) {
	r := NewNoSelfTradeRule(0)
	r.OnOrderSent(1, &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Type: types.Limit, Volume: 5, Price: 100.0})

	// Sell @ 99.99999 crosses a Buy @ 100.0 within epsilon.
	code := r.CheckOrderReq(&types.OrderReq{TickerIndex: 1, Direction: types.Sell, Type: types.Limit, Volume: 5, Price: 99.99999})
	if code != ErrSelfTrade {
		t.Fatalf("expected ErrSelfTrade, got %v", code)
	}
}

func TestNoSelfTradeRule_NonCrossingSellAllowed(t *testing.T) {
	r := NewNoSelfTradeRule(0)
	r.OnOrderSent(1, &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Type: types.Limit, Volume: 5, Price: 100.0})

	code := r.CheckOrderReq(&types.OrderReq{TickerIndex: 1, Direction: types.Sell, Type: types.Limit, Volume: 5, Price: 101.0})
	if code != NoError {
		t.Fatalf("expected NoError for a non-crossing price, got %v", code)
	}
}

func TestNoSelfTradeRule_PendingMarketVetoesAnyOpposite(t *testing.T) {
	r := NewNoSelfTradeRule(0)
	r.OnOrderSent(1, &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Type: types.Market, Volume: 5})

	code := r.CheckOrderReq(&types.OrderReq{TickerIndex: 1, Direction: types.Sell, Type: types.Limit, Volume: 5, Price: 1000000})
	if code != ErrSelfTrade {
		t.Fatalf("pending Market order must veto every opposite-side incoming order, got %v", code)
	}
}

func TestNoSelfTradeRule_SameDirectionNeverVetoed(t *testing.T) {
	r := NewNoSelfTradeRule(0)
	r.OnOrderSent(1, &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Type: types.Market, Volume: 5})

	code := r.CheckOrderReq(&types.OrderReq{TickerIndex: 1, Direction: types.Buy, Type: types.Limit, Volume: 5, Price: 100})
	if code != NoError {
		t.Fatalf("same-direction orders never self-trade, got %v", code)
	}
}

func TestNoSelfTradeRule_CompletedOrderNoLongerVetoes(t *testing.T) {
	r := NewNoSelfTradeRule(0)
	r.OnOrderSent(1, &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Type: types.Limit, Volume: 5, Price: 100.0})
	r.OnOrderCompleted(1, NoError)

	code := r.CheckOrderReq(&types.OrderReq{TickerIndex: 1, Direction: types.Sell, Type: types.Limit, Volume: 5, Price: 99.0})
	if code != NoError {
		t.Fatalf("a completed order must be removed from the pending list, got %v", code)
	}
}
