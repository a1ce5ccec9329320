// Package gateway defines the broker adapter contract and implements
// the order lifecycle state machine that reconciles a vendor
// callback API into a single, monotonic per-order event stream. It is
// grounded on tbsrc-golang/pkg/execution's OrderManager (OrdMap,
// ProcessORSResponse-style dispatch) translated from the SHM/ORS
// wire shape to a CTP-style front/SPI shape.
package gateway

import (
	"context"

	"github.com/yourusername/tradecore/pkg/config"
	"github.com/yourusername/tradecore/pkg/types"
)

// Gateway is the abstract contract a broker adapter implements.
// Strategy threads call SendOrder/CancelOrder/Query*; login/logout
// drive the session lifecycle. All methods are safe for concurrent
// use except as noted.
type Gateway interface {
	// Login runs the §session bootstrap handshake and blocks until it
	// completes or fails. Returns false (never an error, matching the
	// vendor SPI's bool-result convention) if any step fails.
	Login(ctx context.Context, cfg *config.GatewayConfig) bool

	// Logout sends a logout request, waits for its ack, and clears
	// session state. Safe to call even if Login never succeeded.
	Logout()

	// SendOrder assigns an OrderRef, records an OrderDetail, and
	// dispatches the request to the broker. Returns 0 if the adapter
	// is not logged in. Non-blocking: returns as soon as the request
	// is handed off, not when it is acknowledged.
	SendOrder(req *types.OrderReq) int64

	// CancelOrder requests cancellation of a live order. Returns false
	// if the ref is unknown or the order has not yet been accepted by
	// the exchange (CTP requires an exchange order id to cancel).
	CancelOrder(ref int64) bool

	QueryContract(ticker, exchange string) bool
	QueryPosition(ticker string) bool
	QueryAccount() bool
	QueryTrades() bool
	QueryMarginRate(ticker string) bool
}

// Callbacks is the sink the adapter invokes as broker events arrive.
// Implementations must not block significantly — the adapter holds no
// lock while calling these, but a slow callback still delays delivery
// of the next event on the same underlying SDK thread.
type Callbacks interface {
	OnQueryContract(c *types.Contract)
	OnQueryAccount(a *types.Account)
	OnQueryPosition(p *types.Position)
	OnQueryTrade(t *types.Trade)

	OnOrderAccepted(ref int64)
	OnOrderTraded(ref int64, volume int64, price float64)
	OnOrderCanceled(ref int64, canceledVolume int64)
	OnOrderRejected(ref int64)
	OnOrderCancelRejected(ref int64)

	OnTick(tick *types.Tick)
}
