// Package engine implements TradingEngine, the orchestrator that owns
// a Gateway and a risk.Manager, assigns EngineOrderId↔OrderRef
// mappings, applies the risk chain before every send, and routes
// gateway callbacks out to transport-layer subscribers. It is
// grounded on golang/pkg/trader/trader.go's Initialize/Start/Stop
// lifecycle and signal-handling idiom, trimmed of everything that
// belongs to the strategy/portfolio/web layers this core excludes.
package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/yourusername/tradecore/pkg/config"
	"github.com/yourusername/tradecore/pkg/contract"
	"github.com/yourusername/tradecore/pkg/gateway"
	"github.com/yourusername/tradecore/pkg/risk"
	"github.com/yourusername/tradecore/pkg/types"
)

// Subscriber receives engine-level events, keyed by EngineOrderId
// rather than the gateway's internal OrderRef. pkg/transport/feed's
// Publisher implements this to fan events out to upstream strategies;
// pkg/transport/ordersvc only calls into the engine and does not
// subscribe.
type Subscriber interface {
	OnOrderAccepted(engineOrderID int64)
	OnOrderTraded(engineOrderID int64, volume int64, price float64)
	OnOrderCanceled(engineOrderID int64, canceledVolume int64)
	OnOrderRejected(engineOrderID int64)
	OnOrderCancelRejected(engineOrderID int64)
	OnTick(tick *types.Tick)
	OnQueryContract(c *types.Contract)
	OnQueryAccount(a *types.Account)
	OnQueryPosition(p *types.Position)
	OnQueryTrade(t *types.Trade)
}

// liveOrder is the engine's own record correlating an EngineOrderId to
// its gateway OrderRef and the request that created it, so risk hooks
// and subscriber fan-out can be driven off gateway callbacks that only
// know the OrderRef.
type liveOrder struct {
	engineOrderID int64
	ref           int64
	req           types.OrderReq
}

// Engine is the TradingEngine orchestrator.
type Engine struct {
	gw        gateway.Gateway
	risk      *risk.Manager
	contracts *contract.Table
	cfg       *config.Config

	mu            sync.Mutex
	nextEngineID  atomic.Int64
	byEngineID    map[int64]*liveOrder
	refToEngineID map[int64]int64
	subscribers   []Subscriber

	// computedNet is the engine's own running net position per ticker
	// index, built up purely from on_order_traded fills. It is compared
	// against each fresh query_position round-trip in OnQueryPosition.
	computedNet   map[int32]int64
	positionsSeen map[int32]types.Position

	controlSignals chan os.Signal
	running        atomic.Bool
}

// New wires a risk.Manager and a contract registry into an Engine; the
// Gateway is attached afterwards with AttachGateway. contracts is the
// registry OnQueryContract inserts into, so it must not be sealed for
// those inserts to succeed.
func New(cfg *config.Config, contracts *contract.Table, riskMgr *risk.Manager) *Engine {
	return &Engine{
		risk:          riskMgr,
		contracts:     contracts,
		cfg:           cfg,
		byEngineID:    make(map[int64]*liveOrder),
		refToEngineID: make(map[int64]int64),
		computedNet:   make(map[int32]int64),
		positionsSeen: make(map[int32]types.Position),
	}
}

// AttachGateway installs the adapter the engine drives. Done
// separately from New so the gateway can be constructed with the
// engine itself as its Callbacks sink (see NewAdapter in pkg/gateway).
func (e *Engine) AttachGateway(gw gateway.Gateway) {
	e.gw = gw
}

// Subscribe registers a Subscriber for engine-level event fan-out.
func (e *Engine) Subscribe(s Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, s)
}

// Start logs in the gateway, installs signal handlers, and begins the
// position-verification loop. It does not block.
func (e *Engine) Start(ctx context.Context, gwCfg *config.GatewayConfig) error {
	if e.gw == nil {
		return fmt.Errorf("engine: no gateway attached")
	}
	if e.running.Load() {
		return fmt.Errorf("engine: already running")
	}

	log.Println("[Engine] starting...")
	if !e.gw.Login(ctx, gwCfg) {
		return fmt.Errorf("engine: gateway login failed")
	}
	e.running.Store(true)

	e.setupSignalHandlers()
	go e.runPositionVerification()

	log.Println("[Engine] started")
	return nil
}

// Stop logs out the gateway and stops background loops.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	if e.controlSignals != nil {
		signal.Stop(e.controlSignals)
	}
	log.Println("[Engine] stopping...")
	e.gw.Logout()
	log.Println("[Engine] stopped")
}

func (e *Engine) IsRunning() bool { return e.running.Load() }

// SendOrder runs the risk chain and, if it passes, dispatches req to
// the gateway. Returns 0 (and no gateway call is made) if any rule
// vetoes.
func (e *Engine) SendOrder(req *types.OrderReq) int64 {
	if code := e.risk.CheckOrderReq(req); code != risk.NoError {
		log.Printf("[Engine] order rejected by risk kernel: %s", code)
		return 0
	}

	ref := e.gw.SendOrder(req)
	if ref == 0 {
		return 0
	}

	engineID := e.nextEngineID.Add(1)
	e.mu.Lock()
	lo := &liveOrder{engineOrderID: engineID, ref: ref, req: *req}
	e.byEngineID[engineID] = lo
	e.refToEngineID[ref] = engineID
	e.mu.Unlock()

	e.risk.OnOrderSent(engineID, req)
	return engineID
}

// CancelOrder translates an EngineOrderId to its gateway OrderRef and
// requests cancellation.
func (e *Engine) CancelOrder(engineOrderID int64) bool {
	e.mu.Lock()
	lo, ok := e.byEngineID[engineOrderID]
	e.mu.Unlock()
	if !ok {
		return false
	}
	return e.gw.CancelOrder(lo.ref)
}

func (e *Engine) engineIDForRef(ref int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.refToEngineID[ref]
	return id, ok
}

// recordFill updates computedNet with a signed fill volume for the
// order identified by engineID, looking up its direction from
// byEngineID. No-op if the order is unknown (already completed).
func (e *Engine) recordFill(engineID int64, volume int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	lo, ok := e.byEngineID[engineID]
	if !ok {
		return
	}
	signed := volume
	if lo.req.Direction == types.Sell {
		signed = -signed
	}
	e.computedNet[lo.req.TickerIndex] += signed
}

func (e *Engine) completeOrder(ref int64, code risk.ErrorCode) (int64, bool) {
	e.mu.Lock()
	id, ok := e.refToEngineID[ref]
	if ok {
		delete(e.refToEngineID, ref)
		delete(e.byEngineID, id)
	}
	e.mu.Unlock()
	if ok {
		e.risk.OnOrderCompleted(id, code)
	}
	return id, ok
}

func (e *Engine) setupSignalHandlers() {
	e.controlSignals = make(chan os.Signal, 1)
	signal.Notify(e.controlSignals, syscall.SIGUSR1, syscall.SIGUSR2)
	go e.handleControlSignals()
	log.Printf("[Engine] signal handlers installed (SIGUSR1 re-arm, SIGUSR2 shutdown) — kill -SIGUSR1 %d to re-arm after an emergency stop", os.Getpid())
}

func (e *Engine) handleControlSignals() {
	for sig := range e.controlSignals {
		switch sig {
		case syscall.SIGUSR1:
			log.Println("[Engine] received SIGUSR1: resetting risk emergency stop")
			e.risk.Reset()
		case syscall.SIGUSR2:
			log.Println("[Engine] received SIGUSR2: logging out and shutting down")
			e.Stop()
			return
		}
	}
}

// runPositionVerification periodically re-queries positions and logs
// any divergence from the last-known snapshot. This is
// logging-only — per a fail-closed recovery policy, the engine
// never auto-corrects a position, only surfaces the discrepancy, in
// the spirit of golang/pkg/trader/trader.go's verifyPositions.
func (e *Engine) runPositionVerification() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for e.running.Load() {
		<-ticker.C
		if !e.running.Load() {
			return
		}
		if !e.gw.QueryPosition("") {
			log.Println("[Engine] position verification: query failed")
		}
	}
}
