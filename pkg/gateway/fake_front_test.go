package gateway

import (
	"sync"

	"github.com/yourusername/tradecore/pkg/types"
)

// fakeFront is a hand-written Front stand-in for adapter tests,
// in the same hand-written-fake style used across this module
// (golang/pkg/risk/risk_manager_test.go): no mocking framework, just a
// small recording struct the test drives directly. Connect and the
// login-step and query Req* calls answer with canned responses, each
// delivered on its own goroutine the way an SDK callback thread
// would, so tests can exercise Login and the sync queries; order
// inserts/actions are recorded for assertions, and tests simulate
// broker async behavior by calling the Adapter's SPI methods
// (OnRtnOrder, OnRtnTrade, ...) directly.
type fakeFront struct {
	mu  sync.Mutex
	spi SPI

	maxOrderRef    int64
	outstanding    []*WireOutstandingOrder
	loginErrorCode int
	positionRows   []*WirePosition

	inserted []*WireOrderInsert
	actions  []*WireOrderAction
}

func newFakeFront() *fakeFront {
	return &fakeFront{}
}

func (f *fakeFront) RegisterSPI(spi SPI) { f.spi = spi }

func (f *fakeFront) Connect() {
	go f.spi.OnFrontConnected()
}

func (f *fakeFront) ReqAuthenticate(brokerID, investorID, authCode, appID string, requestID int32) {
	go f.spi.OnRspAuthenticate(0, "", true)
}

func (f *fakeFront) ReqUserLogin(brokerID, investorID, password string, requestID int32) {
	go f.spi.OnRspUserLogin(1, 1, f.maxOrderRef, f.loginErrorCode, "", true)
}

func (f *fakeFront) ReqUserLogout(brokerID, investorID string, requestID int32) {
	go f.spi.OnRspUserLogout(0, "", true)
}

func (f *fakeFront) ReqSettlementInfoQuery(brokerID, investorID string, requestID int32) {
	go f.spi.OnRspSettlementInfoQuery(0, "", true)
}

func (f *fakeFront) ReqSettlementInfoConfirm(brokerID, investorID string, requestID int32) {
	go f.spi.OnRspSettlementInfoConfirm(0, "", true)
}

func (f *fakeFront) ReqQueryOrder(brokerID, investorID string, requestID int32) {
	go func() {
		f.mu.Lock()
		orders := f.outstanding
		f.mu.Unlock()
		for _, o := range orders {
			f.spi.OnRspQueryOrder(o, 0, "", false)
		}
		f.spi.OnRspQueryOrder(nil, 0, "", true)
	}()
}

func (f *fakeFront) ReqQueryContract(ticker, exchange string, requestID int32) {
	go f.spi.OnRspQueryContract(nil, 0, "", true)
}

func (f *fakeFront) ReqQueryPosition(brokerID, investorID, ticker string, requestID int32) {
	go func() {
		f.mu.Lock()
		rows := f.positionRows
		f.mu.Unlock()
		for _, row := range rows {
			f.spi.OnRspQueryPosition(row, 0, "", false)
		}
		f.spi.OnRspQueryPosition(nil, 0, "", true)
	}()
}

func (f *fakeFront) ReqQueryAccount(brokerID, investorID string, requestID int32) {
	go f.spi.OnRspQueryAccount(nil, 0, "", true)
}

func (f *fakeFront) ReqQueryTrade(brokerID, investorID string, requestID int32) {
	go f.spi.OnRspQueryTrade(nil, 0, "", true)
}

func (f *fakeFront) ReqQueryMarginRate(brokerID, investorID, ticker string, requestID int32) {
	go f.spi.OnRspQueryMarginRate(ticker, 0, 0, 0, "", true)
}

func (f *fakeFront) ReqOrderInsert(order *WireOrderInsert, requestID int32) {
	f.mu.Lock()
	f.inserted = append(f.inserted, order)
	f.mu.Unlock()
}

func (f *fakeFront) ReqOrderAction(action *WireOrderAction, requestID int32) {
	f.mu.Lock()
	f.actions = append(f.actions, action)
	f.mu.Unlock()
}

var _ Front = (*fakeFront)(nil)

// recordingCallbacks is a hand-written Callbacks fake recording every
// emission in arrival order, for property and scenario assertions.
type recordingCallbacks struct {
	mu sync.Mutex

	accepted       []int64
	traded         []tradedEvent
	canceled       []canceledEvent
	rejected       []int64
	cancelRejected []int64
	positions      []*types.Position
}

type tradedEvent struct {
	ref    int64
	volume int64
	price  float64
}

type canceledEvent struct {
	ref            int64
	canceledVolume int64
}

func newRecordingCallbacks() *recordingCallbacks { return &recordingCallbacks{} }

func (r *recordingCallbacks) OnQueryContract(c *types.Contract) {}
func (r *recordingCallbacks) OnQueryAccount(a *types.Account)   {}
func (r *recordingCallbacks) OnQueryTrade(t *types.Trade)       {}
func (r *recordingCallbacks) OnTick(t *types.Tick)              {}

func (r *recordingCallbacks) OnQueryPosition(p *types.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = append(r.positions, p)
}

func (r *recordingCallbacks) OnOrderAccepted(ref int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted = append(r.accepted, ref)
}

func (r *recordingCallbacks) OnOrderTraded(ref int64, volume int64, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traded = append(r.traded, tradedEvent{ref, volume, price})
}

func (r *recordingCallbacks) OnOrderCanceled(ref int64, canceledVolume int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canceled = append(r.canceled, canceledEvent{ref, canceledVolume})
}

func (r *recordingCallbacks) OnOrderRejected(ref int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, ref)
}

func (r *recordingCallbacks) OnOrderCancelRejected(ref int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelRejected = append(r.cancelRejected, ref)
}

func (r *recordingCallbacks) acceptedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accepted)
}

func (r *recordingCallbacks) tradedEvents() []tradedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tradedEvent, len(r.traded))
	copy(out, r.traded)
	return out
}

func (r *recordingCallbacks) canceledEvents() []canceledEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]canceledEvent, len(r.canceled))
	copy(out, r.canceled)
	return out
}

func (r *recordingCallbacks) positionEvents() []*types.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Position, len(r.positions))
	copy(out, r.positions)
	return out
}

var _ Callbacks = (*recordingCallbacks)(nil)
