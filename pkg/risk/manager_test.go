package risk

import (
	"testing"

	"github.com/yourusername/tradecore/pkg/types"
)

type alwaysVetoRule struct{ code ErrorCode }

func (a *alwaysVetoRule) Name() string                                     { return "alwaysVeto" }
func (a *alwaysVetoRule) CheckOrderReq(req *types.OrderReq) ErrorCode      { return a.code }
func (a *alwaysVetoRule) OnOrderSent(id int64, req *types.OrderReq)        {}
func (a *alwaysVetoRule) OnOrderTraded(id int64, vol int64, price float64) {}
func (a *alwaysVetoRule) OnOrderCompleted(id int64, code ErrorCode)        {}

type countingRule struct {
	checks int
}

func (c *countingRule) Name() string { return "counting" }
func (c *countingRule) CheckOrderReq(req *types.OrderReq) ErrorCode {
	c.checks++
	return NoError
}
func (c *countingRule) OnOrderSent(id int64, req *types.OrderReq)        {}
func (c *countingRule) OnOrderTraded(id int64, vol int64, price float64) {}
func (c *countingRule) OnOrderCompleted(id int64, code ErrorCode)        {}

// The first vetoing rule short-circuits the chain.
func TestManager_ShortCircuitsOnFirstVeto(t *testing.T) {
	m := NewManager(0)
	veto := &alwaysVetoRule{code: ErrSelfTrade}
	counter := &countingRule{}
	m.AddRule(veto)
	m.AddRule(counter)

	code := m.CheckOrderReq(&types.OrderReq{TickerIndex: 1, Direction: types.Buy, Volume: 1, Price: 100})
	if code != ErrSelfTrade {
		t.Fatalf("expected ErrSelfTrade, got %v", code)
	}
	if counter.checks != 0 {
		t.Fatalf("later rule must not run once an earlier rule vetoes, got %d checks", counter.checks)
	}
}

func TestManager_EmergencyStopAfterConsecutiveVetoes(t *testing.T) {
	m := NewManager(3)
	m.AddRule(&alwaysVetoRule{code: ErrSelfTrade})

	req := &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Volume: 1, Price: 100}
	for i := 0; i < 3; i++ {
		if m.IsTripped() {
			t.Fatalf("should not trip before the threshold is reached")
		}
		m.CheckOrderReq(req)
	}
	if !m.IsTripped() {
		t.Fatalf("expected emergency stop to trip after 3 consecutive vetoes")
	}

	m.Reset()
	if m.IsTripped() {
		t.Fatalf("Reset should clear the tripped state")
	}
}

func TestManager_PassResetsVetoCounter(t *testing.T) {
	m := NewManager(2)
	veto := &alwaysVetoRule{code: ErrSelfTrade}
	m.AddRule(veto)

	req := &types.OrderReq{TickerIndex: 1, Direction: types.Buy, Volume: 1, Price: 100}
	m.CheckOrderReq(req) // 1 veto

	veto.code = NoError
	m.CheckOrderReq(req) // pass, resets counter

	veto.code = ErrSelfTrade
	m.CheckOrderReq(req) // 1 veto again
	if m.IsTripped() {
		t.Fatalf("a passing check should reset the consecutive-veto counter")
	}
}
