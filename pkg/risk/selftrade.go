package risk

import (
	"sync"

	"github.com/yourusername/tradecore/pkg/types"
)

// selfTradeEpsilon is the default price-cross tolerance.
const selfTradeEpsilon = 1e-5

type pendingOrder struct {
	engineOrderID int64
	tickerIndex   int32
	direction     types.Direction
	orderType     types.OrderType
	price         float64
}

// NoSelfTradeRule vetoes an incoming order that would cross against
// one of this investor's own still-open orders on the same
// instrument.
type NoSelfTradeRule struct {
	epsilon float64

	mu      sync.Mutex
	pending []pendingOrder
}

// NewNoSelfTradeRule returns a rule using epsilon (0 defaults to 1e-5).
// Pass 0 to use the default (1e-5).
func NewNoSelfTradeRule(epsilon float64) *NoSelfTradeRule {
	if epsilon == 0 {
		epsilon = selfTradeEpsilon
	}
	return &NoSelfTradeRule{epsilon: epsilon}
}

func (r *NoSelfTradeRule) Name() string { return "NoSelfTradeRule" }

// CheckOrderReq scans pending orders of the opposite direction on the
// same instrument. A self-trade is flagged when the pending order is
// Market (it could execute at any price), or when the two prices
// cross within epsilon.
func (r *NoSelfTradeRule) CheckOrderReq(req *types.OrderReq) ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pending {
		if p.tickerIndex != req.TickerIndex || p.direction == req.Direction {
			continue
		}
		if p.orderType == types.Market {
			return ErrSelfTrade
		}
		if req.Direction == types.Buy && req.Price > p.price-r.epsilon {
			return ErrSelfTrade
		}
		if req.Direction == types.Sell && req.Price < p.price+r.epsilon {
			return ErrSelfTrade
		}
	}
	return NoError
}

func (r *NoSelfTradeRule) OnOrderSent(engineOrderID int64, req *types.OrderReq) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, pendingOrder{
		engineOrderID: engineOrderID,
		tickerIndex:   req.TickerIndex,
		direction:     req.Direction,
		orderType:     req.Type,
		price:         req.Price,
	})
}

func (r *NoSelfTradeRule) OnOrderTraded(engineOrderID int64, thisTraded int64, price float64) {
	// No per-fill bookkeeping: the rule only cares whether an order is
	// still live, which OnOrderCompleted tracks.
}

// OnOrderCompleted removes the pending snapshot for engineOrderID.
// Invariant: afterward, the pending list contains exactly those
// orders for which OnOrderSent has fired but OnOrderCompleted has
// not.
func (r *NoSelfTradeRule) OnOrderCompleted(engineOrderID int64, code ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.pending {
		if p.engineOrderID == engineOrderID {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return
		}
	}
}

var _ Rule = (*NoSelfTradeRule)(nil)
