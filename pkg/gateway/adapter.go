package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/yourusername/tradecore/pkg/config"
	"github.com/yourusername/tradecore/pkg/contract"
	"github.com/yourusername/tradecore/pkg/types"
)

// orderDetail is the adapter's private per-live-order state. Mutated
// only while holding Adapter.mu; always released before any Callbacks
// invocation.
type orderDetail struct {
	contractIndex int32
	direction     types.Direction
	offset        types.Offset
	orderType     types.OrderType
	price         float64

	originalVol int64
	tradedVol   int64
	canceledVol int64
	acceptedAck bool

	orderSysID string // populated once the exchange assigns one; required to cancel
}

// Adapter is the concrete Gateway implementation driving a broker
// Front through the CTP-style login/order/query protocol. It is the
// translation layer between Front's wire callbacks and the
// engine-facing Callbacks sink, grounded on
// tbsrc-golang/pkg/execution's OrdMap + ProcessORSResponse dispatch
// but rewritten around CTP's submit-status/order-status callback
// shape instead of the SHM response-type enum.
type Adapter struct {
	front     Front
	contracts *contract.Table
	callbacks Callbacks
	cfg       config.GatewayConfig

	gate *syncGate

	// Closers for the in-flight login step awaiting its OnRsp*
	// callback. Only one is ever live at a time, enforced by gate's
	// single-outstanding-request lock.
	authCloser              func(error)
	loginCloser             func(error)
	settlementQueryCloser   func(error)
	settlementConfirmCloser func(error)
	outstandingCloser       func(error)
	outstandingOrders       []*WireOutstandingOrder
	queryCloser             func(error)
	logoutCloser            func(error)

	connectedCh chan struct{}
	connectOnce sync.Once

	mu         sync.Mutex
	orders     map[int64]*orderDetail
	sysIDToRef map[string]int64

	// posCache accumulates WirePosition rows across a single
	// query_position round-trip, keyed by ticker index, so both the
	// long and short leg can be delivered together in one
	// OnQueryPosition callback at isLast. Cleared after each flush.
	posCache map[int32]*types.Position

	nextOrderRef atomic.Int64
	requestID    atomic.Int32

	connected atomic.Bool
	loggedOn  atomic.Bool
	failed    atomic.Bool

	frontID   int32
	sessionID int32
}

// NewAdapter wires a broker Front to a sealed ContractTable and an
// engine Callbacks sink. contracts should already be populated and
// sealed for a live broker (Login's settlement steps don't populate
// it) — tests typically seed it before constructing the adapter.
func NewAdapter(front Front, contracts *contract.Table, callbacks Callbacks) *Adapter {
	a := &Adapter{
		front:       front,
		contracts:   contracts,
		callbacks:   callbacks,
		gate:        newSyncGate(),
		connectedCh: make(chan struct{}),
		orders:      make(map[int64]*orderDetail),
		sysIDToRef:  make(map[string]int64),
		posCache:    make(map[int32]*types.Position),
	}
	front.RegisterSPI(a)
	return a
}

func (a *Adapter) nextRequestID() int32 {
	return a.requestID.Add(1)
}

// SendOrder implements Gateway. Non-blocking: assigns a ref, records
// the detail under lock, dispatches to the front, and returns.
func (a *Adapter) SendOrder(req *types.OrderReq) int64 {
	if !a.loggedOn.Load() {
		log.Printf("[Gateway] SendOrder rejected: not logged in")
		return 0
	}

	ref := a.nextOrderRef.Add(1)

	a.mu.Lock()
	a.orders[ref] = &orderDetail{
		contractIndex: req.TickerIndex,
		direction:     req.Direction,
		offset:        req.Offset,
		orderType:     req.Type,
		price:         req.Price,
		originalVol:   req.Volume,
	}
	a.mu.Unlock()

	a.front.ReqOrderInsert(&WireOrderInsert{
		InvestorID:  a.cfg.InvestorID,
		TickerIndex: req.TickerIndex,
		Direction:   int8(req.Direction),
		Offset:      int8(req.Offset),
		Type:        int8(req.Type),
		Volume:      req.Volume,
		Price:       req.Price,
		OrderRef:    encodeOrderRef(ref),
	}, a.nextRequestID())

	return ref
}

// CancelOrder implements Gateway. Per the resolved open
// question, an unknown ref returns false rather than panicking.
// Cancellation also fails while the order has not yet reached the
// exchange, since CTP-class cancel requests require an OrderSysID
// that is only assigned on exchange acceptance.
func (a *Adapter) CancelOrder(ref int64) bool {
	a.mu.Lock()
	det, ok := a.orders[ref]
	if !ok {
		a.mu.Unlock()
		log.Printf("[Gateway] CancelOrder: unknown ref=%d", ref)
		return false
	}
	if !det.acceptedAck || det.orderSysID == "" {
		a.mu.Unlock()
		log.Printf("[Gateway] CancelOrder: ref=%d not yet accepted by exchange", ref)
		return false
	}
	sysID := det.orderSysID
	a.mu.Unlock()

	a.front.ReqOrderAction(&WireOrderAction{
		InvestorID: a.cfg.InvestorID,
		OrderRef:   encodeOrderRef(ref),
		OrderSysID: sysID,
	}, a.nextRequestID())
	return true
}

// OnFrontConnected implements SPI.
func (a *Adapter) OnFrontConnected() {
	a.connected.Store(true)
	a.connectOnce.Do(func() { close(a.connectedCh) })
}

// OnFrontDisconnected implements SPI. Per the TransportError
// policy, the adapter fails closed: no auto-reconnect.
func (a *Adapter) OnFrontDisconnected(reason int) {
	log.Printf("[Gateway] front disconnected, reason=%d", reason)
	a.connected.Store(false)
	a.loggedOn.Store(false)
	a.failed.Store(true)
}

// OnRspOrderInsert implements SPI rule 1: a pre-broker validation
// reject. Erases the detail and emits on_order_rejected.
func (a *Adapter) OnRspOrderInsert(orderRefStr, investorID string, errorCode int, errorMsg string) {
	if investorID != "" && investorID != a.cfg.InvestorID {
		return
	}
	ref, err := decodeOrderRef(orderRefStr)
	if err != nil {
		log.Printf("[Gateway] OnRspOrderInsert: %v", err)
		return
	}

	a.mu.Lock()
	_, ok := a.orders[ref]
	delete(a.orders, ref)
	a.mu.Unlock()

	if !ok {
		log.Printf("[Gateway] OnRspOrderInsert: unknown ref=%d", ref)
		return
	}

	log.Printf("[Gateway] order insert rejected ref=%d code=%d msg=%s", ref, errorCode, decodeGB2312(errorMsg))
	a.callbacks.OnOrderRejected(ref)
}

// OnRtnOrder implements SPI rule 2, the order-status-update branch of
// the §4.2 state machine.
func (a *Adapter) OnRtnOrder(u *WireOrderStatusUpdate) {
	if u.InvestorID != "" && u.InvestorID != a.cfg.InvestorID {
		return // ForeignOrder: the front multiplexes callbacks across investors
	}

	ref, err := decodeOrderRef(u.OrderRef)
	if err != nil {
		log.Printf("[Gateway] OnRtnOrder: %v", err)
		return
	}

	a.mu.Lock()
	det, ok := a.orders[ref]
	if !ok {
		a.mu.Unlock()
		if u.Status == StatusPartTradedNotQueueing || u.Status == StatusCanceled {
			// Legacy outstanding order swept at login.
			log.Printf("[Gateway] OnRtnOrder: unknown ref=%d (likely startup sweep), status=%v — dropping", ref, u.Status)
			return
		}
		log.Printf("[Gateway] OnRtnOrder: unknown ref=%d — dropping", ref)
		return
	}

	if u.OrderSysID != "" && det.orderSysID == "" {
		det.orderSysID = u.OrderSysID
		a.sysIDToRef[u.OrderSysID] = ref
	}

	switch u.SubmitStatus {
	case InsertRejected:
		delete(a.orders, ref)
		a.mu.Unlock()
		log.Printf("[Gateway] exchange rejected ref=%d msg=%s", ref, decodeGB2312(u.StatusMsg))
		a.callbacks.OnOrderRejected(ref)
		return
	case CancelRejected:
		a.mu.Unlock()
		log.Printf("[Gateway] cancel rejected ref=%d msg=%s", ref, decodeGB2312(u.StatusMsg))
		a.callbacks.OnOrderCancelRejected(ref)
		return
	}

	if u.Status == StatusUnknown || u.Status == StatusNoTradeNotQueueing {
		// Broker-accepted, not yet at the exchange.
		a.mu.Unlock()
		return
	}

	var acceptEmit, cancelEmit bool
	var canceledVol int64

	if !det.acceptedAck {
		det.acceptedAck = true
		acceptEmit = true
	}

	if u.Status == StatusPartTradedNotQueueing || u.Status == StatusCanceled {
		if det.canceledVol == 0 {
			det.canceledVol = det.originalVol - det.tradedVol
			canceledVol = det.canceledVol
			cancelEmit = true
		}
		if det.tradedVol+det.canceledVol == det.originalVol {
			delete(a.orders, ref)
			delete(a.sysIDToRef, det.orderSysID)
		}
	}
	a.mu.Unlock()

	if acceptEmit {
		a.callbacks.OnOrderAccepted(ref)
	}
	if cancelEmit {
		a.callbacks.OnOrderCanceled(ref, canceledVol)
	}
}

// OnRtnTrade implements SPI rule 3: a fill report.
func (a *Adapter) OnRtnTrade(t *WireTradeReport) {
	if t.InvestorID != "" && t.InvestorID != a.cfg.InvestorID {
		return
	}

	ref, err := decodeOrderRef(t.OrderRef)
	if err != nil {
		log.Printf("[Gateway] OnRtnTrade: %v", err)
		return
	}

	a.mu.Lock()
	det, ok := a.orders[ref]
	if !ok {
		a.mu.Unlock()
		log.Printf("[Gateway] OnRtnTrade: unknown ref=%d — dropping", ref)
		return
	}

	var acceptEmit bool
	if !det.acceptedAck {
		det.acceptedAck = true
		acceptEmit = true
	}

	if det.tradedVol+t.Volume+det.canceledVol > det.originalVol {
		log.Printf("[Gateway] INVARIANT VIOLATION: ref=%d traded+canceled would exceed original (traded=%d cancel=%d incoming=%d original=%d)",
			ref, det.tradedVol, det.canceledVol, t.Volume, det.originalVol)
	}
	det.tradedVol += t.Volume

	if det.tradedVol+det.canceledVol == det.originalVol {
		delete(a.orders, ref)
		if det.orderSysID != "" {
			delete(a.sysIDToRef, det.orderSysID)
		}
	}
	a.mu.Unlock()

	if acceptEmit {
		a.callbacks.OnOrderAccepted(ref)
	}
	a.callbacks.OnOrderTraded(ref, t.Volume, t.Price)
}

// Logout sends a logout request and waits for its ack before clearing
// session state. Safe to call even if Login never succeeded — in that
// case it returns at once without contacting the front.
func (a *Adapter) Logout() {
	if !a.loggedOn.Load() {
		return
	}

	closeFn := a.gate.open()
	a.logoutCloser = closeFn
	a.front.ReqUserLogout(a.cfg.BrokerID, a.cfg.InvestorID, a.nextRequestID())

	ctx, cancel := context.WithTimeout(context.Background(), loginStepTimeout)
	defer cancel()
	if err := a.gate.wait(ctx); err != nil {
		log.Printf("[Gateway] logout: %v", err)
	}

	a.loggedOn.Store(false)
	log.Println("[Gateway] logged out")
}

func (a *Adapter) OnRspUserLogout(errorCode int, errorMsg string, isLast bool) {
	if !isLast {
		return
	}
	if errorCode != 0 {
		a.logoutCloser(fmt.Errorf("logout rejected: %s", decodeGB2312(errorMsg)))
		return
	}
	a.logoutCloser(nil)
}

var _ Gateway = (*Adapter)(nil)
var _ SPI = (*Adapter)(nil)
