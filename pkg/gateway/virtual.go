package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/yourusername/tradecore/pkg/config"
	"github.com/yourusername/tradecore/pkg/types"
)

// Virtual is a self-contained simulated Gateway (config api: "virtual")
// with no broker front at all: orders are accepted immediately and
// fills are driven by explicit test/operator calls rather than a real
// exchange. It exists because the core excludes matching-engine logic
// but still needs a config-selectable adapter for dry runs and
// strategy development against a live TradingEngine.
type Virtual struct {
	callbacks Callbacks

	mu     sync.Mutex
	orders map[int64]*orderDetail

	nextRef  atomic.Int64
	loggedOn atomic.Bool
}

// NewVirtual returns a Virtual gateway delivering callbacks to cb.
func NewVirtual(cb Callbacks) *Virtual {
	return &Virtual{
		callbacks: cb,
		orders:    make(map[int64]*orderDetail),
	}
}

func (v *Virtual) Login(ctx context.Context, cfg *config.GatewayConfig) bool {
	v.loggedOn.Store(true)
	log.Println("[VirtualGateway] logged in")
	return true
}

func (v *Virtual) Logout() {
	v.loggedOn.Store(false)
	log.Println("[VirtualGateway] logged out")
}

func (v *Virtual) SendOrder(req *types.OrderReq) int64 {
	if !v.loggedOn.Load() {
		return 0
	}
	ref := v.nextRef.Add(1)

	v.mu.Lock()
	v.orders[ref] = &orderDetail{
		contractIndex: req.TickerIndex,
		direction:     req.Direction,
		offset:        req.Offset,
		orderType:     req.Type,
		price:         req.Price,
		originalVol:   req.Volume,
		acceptedAck:   true,
	}
	v.mu.Unlock()

	v.callbacks.OnOrderAccepted(ref)
	return ref
}

func (v *Virtual) CancelOrder(ref int64) bool {
	v.mu.Lock()
	det, ok := v.orders[ref]
	if !ok {
		v.mu.Unlock()
		return false
	}
	if det.canceledVol != 0 {
		v.mu.Unlock()
		return false
	}
	det.canceledVol = det.originalVol - det.tradedVol
	canceled := det.canceledVol
	erase := det.tradedVol+det.canceledVol == det.originalVol
	if erase {
		delete(v.orders, ref)
	}
	v.mu.Unlock()

	v.callbacks.OnOrderCanceled(ref, canceled)
	return true
}

// Fill simulates a trade report against a live order, for
// operator-driven dry runs. Returns an error if the ref is unknown or
// the fill would overfill the order.
func (v *Virtual) Fill(ref int64, volume int64, price float64) error {
	v.mu.Lock()
	det, ok := v.orders[ref]
	if !ok {
		v.mu.Unlock()
		return fmt.Errorf("gateway: virtual fill: unknown ref=%d", ref)
	}
	if det.tradedVol+det.canceledVol+volume > det.originalVol {
		v.mu.Unlock()
		return fmt.Errorf("gateway: virtual fill: ref=%d would overfill", ref)
	}
	det.tradedVol += volume
	erase := det.tradedVol+det.canceledVol == det.originalVol
	if erase {
		delete(v.orders, ref)
	}
	v.mu.Unlock()

	v.callbacks.OnOrderTraded(ref, volume, price)
	return nil
}

// Reject simulates a broker-side rejection of a still-open order.
func (v *Virtual) Reject(ref int64) error {
	v.mu.Lock()
	_, ok := v.orders[ref]
	delete(v.orders, ref)
	v.mu.Unlock()
	if !ok {
		return fmt.Errorf("gateway: virtual reject: unknown ref=%d", ref)
	}
	v.callbacks.OnOrderRejected(ref)
	return nil
}

func (v *Virtual) QueryContract(ticker, exchange string) bool { return true }
func (v *Virtual) QueryPosition(ticker string) bool           { return true }
func (v *Virtual) QueryAccount() bool                         { return true }
func (v *Virtual) QueryTrades() bool                          { return true }
func (v *Virtual) QueryMarginRate(ticker string) bool         { return true }

var _ Gateway = (*Virtual)(nil)
