package engine

import (
	"log"

	"github.com/yourusername/tradecore/pkg/gateway"
	"github.com/yourusername/tradecore/pkg/risk"
	"github.com/yourusername/tradecore/pkg/types"
)

// Engine implements gateway.Callbacks: it is the sink the Adapter (or
// Virtual gateway) invokes directly. Every hook here translates the
// gateway's OrderRef-keyed event into the engine's EngineOrderId-keyed
// event before fanning it out to subscribers, and drives the matching
// risk.Manager hook so rules stay in sync with order lifecycle.

func (e *Engine) OnOrderAccepted(ref int64) {
	id, ok := e.engineIDForRef(ref)
	if !ok {
		log.Printf("[Engine] OnOrderAccepted: no engine order for ref=%d", ref)
		return
	}
	for _, s := range e.snapshotSubscribers() {
		s.OnOrderAccepted(id)
	}
}

func (e *Engine) OnOrderTraded(ref int64, volume int64, price float64) {
	id, ok := e.engineIDForRef(ref)
	if !ok {
		log.Printf("[Engine] OnOrderTraded: no engine order for ref=%d", ref)
		return
	}
	e.risk.OnOrderTraded(id, volume, price)
	e.recordFill(id, volume)
	for _, s := range e.snapshotSubscribers() {
		s.OnOrderTraded(id, volume, price)
	}
}

func (e *Engine) OnOrderCanceled(ref int64, canceledVolume int64) {
	id, ok := e.completeOrder(ref, risk.NoError)
	if !ok {
		log.Printf("[Engine] OnOrderCanceled: no engine order for ref=%d", ref)
		return
	}
	for _, s := range e.snapshotSubscribers() {
		s.OnOrderCanceled(id, canceledVolume)
	}
}

func (e *Engine) OnOrderRejected(ref int64) {
	id, ok := e.completeOrder(ref, risk.NoError)
	if !ok {
		log.Printf("[Engine] OnOrderRejected: no engine order for ref=%d", ref)
		return
	}
	for _, s := range e.snapshotSubscribers() {
		s.OnOrderRejected(id)
	}
}

func (e *Engine) OnOrderCancelRejected(ref int64) {
	id, ok := e.engineIDForRef(ref)
	if !ok {
		log.Printf("[Engine] OnOrderCancelRejected: no engine order for ref=%d", ref)
		return
	}
	for _, s := range e.snapshotSubscribers() {
		s.OnOrderCancelRejected(id)
	}
}

func (e *Engine) OnTick(tick *types.Tick) {
	for _, s := range e.snapshotSubscribers() {
		s.OnTick(tick)
	}
}

func (e *Engine) OnQueryContract(c *types.Contract) {
	if err := e.contracts.Insert(*c); err != nil {
		// Re-registration during a re-query (not startup) is expected
		// once the table is sealed; log at low severity.
		log.Printf("[Engine] OnQueryContract: %v", err)
	}
	for _, s := range e.snapshotSubscribers() {
		s.OnQueryContract(c)
	}
}

func (e *Engine) OnQueryAccount(a *types.Account) {
	for _, s := range e.snapshotSubscribers() {
		s.OnQueryAccount(a)
	}
}

// OnQueryPosition implements gateway.Callbacks and the position
// verification loop's read side. It checks two independent things and
// logs (never corrects) either divergence: the broker-reported position
// against the last snapshot seen, catching a query that moved between
// two round-trips, and the broker-reported net against computedNet, the
// engine's own running total built purely from on_order_traded fills —
// catching drift between what the engine believes it has filled and
// what the broker says is actually held. See runPositionVerification.
func (e *Engine) OnQueryPosition(p *types.Position) {
	e.mu.Lock()
	prev, had := e.positionsSeen[p.TickerIndex]
	e.positionsSeen[p.TickerIndex] = *p
	computed := e.computedNet[p.TickerIndex]
	e.mu.Unlock()

	if had && (prev.Long.Holdings != p.Long.Holdings || prev.Short.Holdings != p.Short.Holdings) {
		log.Printf("[Engine] position divergence on ticker_index=%d: long %d->%d short %d->%d",
			p.TickerIndex, prev.Long.Holdings, p.Long.Holdings, prev.Short.Holdings, p.Short.Holdings)
	}

	queriedNet := p.Long.Holdings - p.Short.Holdings
	if computed != queriedNet {
		log.Printf("[Engine] position reconciliation mismatch on ticker_index=%d: computed=%d queried=%d",
			p.TickerIndex, computed, queriedNet)
	}

	for _, s := range e.snapshotSubscribers() {
		s.OnQueryPosition(p)
	}
}

func (e *Engine) OnQueryTrade(t *types.Trade) {
	for _, s := range e.snapshotSubscribers() {
		s.OnQueryTrade(t)
	}
}

func (e *Engine) snapshotSubscribers() []Subscriber {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Subscriber, len(e.subscribers))
	copy(out, e.subscribers)
	return out
}

var _ gateway.Callbacks = (*Engine)(nil)
